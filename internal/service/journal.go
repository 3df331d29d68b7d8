package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

// JournalService manages journals and their default content.
type JournalService struct {
	store  store.Store
	tags   *TagService
	logger *slog.Logger
}

// NewJournalService creates a new journal service.
func NewJournalService(store store.Store, tags *TagService, logger *slog.Logger) *JournalService {
	return &JournalService{store: store, tags: tags, logger: logger}
}

// JournalInput holds the writable journal fields. Absent fields are left alone.
type JournalInput struct {
	Name         *string `json:"journal_name,omitempty" validate:"omitempty,max=200"`
	Description  *string `json:"journal_description,omitempty" validate:"omitempty,max=3000"`
	CurrentTable *int64  `json:"current_table,omitempty"`
}

// ListJournals returns the user's journals with tables and visible tags.
func (s *JournalService) ListJournals(ctx context.Context, userID int64) ([]*domain.JournalDetail, error) {
	journals, err := s.store.ListJournals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	tags, err := s.store.ListVisibleTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	out := make([]*domain.JournalDetail, 0, len(journals))
	for _, j := range journals {
		tables, err := s.store.ListJournalTables(ctx, j.ID)
		if err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		out = append(out, &domain.JournalDetail{Journal: *j, Tables: tables, Tags: tags})
	}
	return out, nil
}

// GetJournal returns one journal owned by userID.
func (s *JournalService) GetJournal(ctx context.Context, userID, journalID int64) (*domain.JournalDetail, error) {
	return s.detail(ctx, s.store, userID, journalID)
}

// CreateJournal creates a journal with the three default tables, points
// current_table at the first, and copies the global tags to the user.
func (s *JournalService) CreateJournal(ctx context.Context, userID int64, in JournalInput) (*domain.JournalDetail, error) {
	if err := validate.Validate(in); err != nil {
		return nil, err
	}

	var journal *domain.Journal
	err := s.store.InTx(ctx, func(tx store.Store) error {
		journal = &domain.Journal{UserID: userID, Name: in.Name, Description: in.Description}
		if err := tx.CreateJournal(ctx, journal); err != nil {
			return storeError(err, "journal not created")
		}

		for _, name := range domain.DefaultTableNames {
			table := &domain.JournalTable{JournalID: journal.ID, Name: name}
			if err := tx.CreateJournalTable(ctx, table); err != nil {
				return storeError(err, "default table not created")
			}
			if journal.CurrentTable == nil {
				journal.CurrentTable = &table.ID
			}
		}
		return tx.UpdateJournal(ctx, journal)
	})
	if err != nil {
		return nil, err
	}

	if s.tags != nil {
		s.tags.CopySuperuserTags(ctx, userID)
	}

	if s.logger != nil {
		s.logger.Info("journal created", "journal_id", journal.ID, "user_id", userID)
	}
	return s.detail(ctx, s.store, userID, journal.ID)
}

// CreateDefaultJournal creates the journal every new account starts with.
func (s *JournalService) CreateDefaultJournal(ctx context.Context, userID int64) (*domain.JournalDetail, error) {
	name := domain.DefaultJournalName
	description := domain.DefaultJournalDescription
	return s.CreateJournal(ctx, userID, JournalInput{Name: &name, Description: &description})
}

// UpdateJournal applies the supplied fields. A supplied current_table goes
// through ResolveCurrentTable.
func (s *JournalService) UpdateJournal(ctx context.Context, userID, journalID int64, in JournalInput) (*domain.JournalDetail, error) {
	if err := validate.Validate(in); err != nil {
		return nil, err
	}

	var detail *domain.JournalDetail
	err := s.store.InTx(ctx, func(tx store.Store) error {
		journal, err := tx.GetJournal(ctx, journalID, userID)
		if err != nil {
			return storeError(err, "journal not found")
		}

		if in.Name != nil {
			journal.Name = in.Name
		}
		if in.Description != nil {
			journal.Description = in.Description
		}
		if in.CurrentTable != nil {
			resolved, err := ResolveCurrentTable(ctx, tx, journal, in.CurrentTable)
			if err != nil {
				return fmt.Errorf("resolve current table: %w", err)
			}
			journal.CurrentTable = resolved
		}

		if err := tx.UpdateJournal(ctx, journal); err != nil {
			return storeError(err, "journal not found")
		}

		detail, err = s.detail(ctx, tx, userID, journalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *JournalService) detail(ctx context.Context, st store.Store, userID, journalID int64) (*domain.JournalDetail, error) {
	journal, err := st.GetJournal(ctx, journalID, userID)
	if err != nil {
		return nil, storeError(err, "journal not found")
	}
	tables, err := st.ListJournalTables(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	tags, err := st.ListVisibleTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return &domain.JournalDetail{Journal: *journal, Tables: tables, Tags: tags}, nil
}

// ownedJournal loads a journal or returns a not-found domain error.
func ownedJournal(ctx context.Context, st store.Store, userID, journalID int64) (*domain.Journal, error) {
	journal, err := st.GetJournal(ctx, journalID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, storeError(err, "journal not found")
	}
	return journal, err
}
