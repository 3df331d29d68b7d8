package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/journalapp/journal-server/internal/domain"
	domainerrors "github.com/journalapp/journal-server/internal/errors"
	"github.com/journalapp/journal-server/internal/store"
)

// JournalTableService manages tables, including duplication and the
// last-table delete guard.
type JournalTableService struct {
	store  store.Store
	logger *slog.Logger
}

// NewJournalTableService creates a new journal table service.
func NewJournalTableService(store store.Store, logger *slog.Logger) *JournalTableService {
	return &JournalTableService{store: store, logger: logger}
}

// CreateTableRequest creates an empty table or, with Duplicate, a copy of SourceID.
type CreateTableRequest struct {
	Journal   int64   `json:"journal" validate:"required"`
	TableName *string `json:"table_name,omitempty" validate:"omitempty,max=100"`
	Duplicate bool    `json:"duplicate,omitempty"`
	SourceID  *int64  `json:"journal_table,omitempty"`
}

// UpdateTableRequest renames a table. A table stays in the journal it was
// created in.
type UpdateTableRequest struct {
	TableName *string `json:"table_name,omitempty" validate:"omitempty,min=1,max=100"`
}

// ListTables returns every table the user owns.
func (s *JournalTableService) ListTables(ctx context.Context, userID int64) ([]*domain.JournalTable, error) {
	tables, err := s.store.ListJournalTablesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// GetTable returns a table with its activities in display order.
func (s *JournalTableService) GetTable(ctx context.Context, userID, tableID int64) (*domain.JournalTableDetail, error) {
	return tableDetail(ctx, s.store, userID, tableID)
}

// CreateTable adds a table to an owned journal. Without a name the table is
// called "Table", or the first free "Table (N)". A duplicate without a name
// is called "<source> (N)".
func (s *JournalTableService) CreateTable(ctx context.Context, userID int64, req CreateTableRequest) (*domain.JournalTableDetail, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.Duplicate && req.SourceID == nil {
		return nil, domainerrors.Validation("journal_table is required when duplicate is set")
	}

	var detail *domain.JournalTableDetail
	err := s.store.InTx(ctx, func(tx store.Store) error {
		journal, err := ownedJournal(ctx, tx, userID, req.Journal)
		if err != nil {
			return err
		}

		existing, err := tx.ListJournalTables(ctx, journal.ID)
		if err != nil {
			return fmt.Errorf("list tables: %w", err)
		}
		names := make([]string, len(existing))
		for i, t := range existing {
			names[i] = t.Name
		}

		var table *domain.JournalTable
		if req.Duplicate {
			src, err := tx.GetJournalTable(ctx, *req.SourceID, userID)
			if err != nil {
				return storeError(err, "journal table not found")
			}
			name := domain.NextCopyName(src.Name, names)
			if req.TableName != nil && *req.TableName != "" {
				name = *req.TableName
			}
			if table, err = CloneJournalTable(ctx, tx, src, journal.ID, name); err != nil {
				return storeError(err, "journal table not duplicated")
			}
		} else {
			name := domain.NextTableName(domain.DefaultTableName, names)
			if req.TableName != nil && *req.TableName != "" {
				name = *req.TableName
			}
			table = &domain.JournalTable{JournalID: journal.ID, Name: name}
			if err := tx.CreateJournalTable(ctx, table); err != nil {
				return storeError(err, "journal table not created")
			}
		}

		detail, err = tableDetail(ctx, tx, userID, table.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("journal table created",
			"table_id", detail.ID,
			"journal_id", detail.JournalID,
			"duplicate", req.Duplicate,
		)
	}
	return detail, nil
}

// UpdateTable applies the supplied fields.
func (s *JournalTableService) UpdateTable(ctx context.Context, userID, tableID int64, req UpdateTableRequest) (*domain.JournalTableDetail, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	var detail *domain.JournalTableDetail
	err := s.store.InTx(ctx, func(tx store.Store) error {
		table, err := tx.GetJournalTable(ctx, tableID, userID)
		if err != nil {
			return storeError(err, "journal table not found")
		}

		if req.TableName != nil {
			table.Name = *req.TableName
		}

		if err := tx.UpdateJournalTable(ctx, table); err != nil {
			return storeError(err, "journal table not found")
		}

		detail, err = tableDetail(ctx, tx, userID, tableID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteTable deletes a table and its activities. The journal's only table
// cannot be deleted. Deleting the current table moves current_table to the
// first remaining table.
func (s *JournalTableService) DeleteTable(ctx context.Context, userID, tableID int64) error {
	err := s.store.InTx(ctx, func(tx store.Store) error {
		table, err := tx.GetJournalTable(ctx, tableID, userID)
		if err != nil {
			return storeError(err, "journal table not found")
		}

		siblings, err := tx.ListJournalTables(ctx, table.JournalID)
		if err != nil {
			return fmt.Errorf("list tables: %w", err)
		}
		if len(siblings) <= 1 {
			return domainerrors.RequestDenied(domainerrors.MsgLastTable)
		}

		if err := tx.DeleteJournalTable(ctx, tableID); err != nil {
			return storeError(err, "journal table not found")
		}

		journal, err := tx.GetJournal(ctx, table.JournalID, userID)
		if err != nil {
			return storeError(err, "journal not found")
		}
		if journal.CurrentTable != nil && *journal.CurrentTable == tableID {
			if journal.CurrentTable, err = ResolveCurrentTable(ctx, tx, journal, nil); err != nil {
				return fmt.Errorf("resolve current table: %w", err)
			}
			if err := tx.UpdateJournal(ctx, journal); err != nil {
				return storeError(err, "journal not found")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("journal table deleted", "table_id", tableID, "user_id", userID)
	}
	return nil
}

func tableDetail(ctx context.Context, st store.Store, userID, tableID int64) (*domain.JournalTableDetail, error) {
	table, err := st.GetJournalTable(ctx, tableID, userID)
	if err != nil {
		return nil, storeError(err, "journal table not found")
	}
	activities, err := st.ListActivitiesByTable(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return &domain.JournalTableDetail{JournalTable: *table, Activities: activities}, nil
}
