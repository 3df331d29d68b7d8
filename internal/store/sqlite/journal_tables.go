package sqlite

import (
	"context"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

const tableColumns = `t.id, t.journal_id, t.table_name`

func scanJournalTable(scanner interface{ Scan(dest ...any) error }) (*domain.JournalTable, error) {
	var t domain.JournalTable
	if err := scanner.Scan(&t.ID, &t.JournalID, &t.Name); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) queryJournalTables(ctx context.Context, query string, args ...any) ([]*domain.JournalTable, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []*domain.JournalTable{}
	for rows.Next() {
		t, err := scanJournalTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// CreateJournalTable inserts a table and sets its ID.
func (s *Store) CreateJournalTable(ctx context.Context, table *domain.JournalTable) error {
	result, err := s.q.ExecContext(ctx,
		`INSERT INTO journal_tables (journal_id, table_name) VALUES (?, ?)`,
		table.JournalID, table.Name)
	if err != nil {
		return store.Classify(err)
	}
	table.ID, err = result.LastInsertId()
	return err
}

// GetJournalTable returns a table whose journal is owned by userID.
func (s *Store) GetJournalTable(ctx context.Context, id, userID int64) (*domain.JournalTable, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+tableColumns+`
		FROM journal_tables t
		JOIN journals j ON j.id = t.journal_id
		WHERE t.id = ? AND j.user_id = ?`, id, userID)
	t, err := scanJournalTable(row)
	if err != nil {
		return nil, noRows(err, store.ErrTableNotFound)
	}
	return t, nil
}

// ListJournalTables returns a journal's tables in id order.
func (s *Store) ListJournalTables(ctx context.Context, journalID int64) ([]*domain.JournalTable, error) {
	return s.queryJournalTables(ctx, `
		SELECT `+tableColumns+`
		FROM journal_tables t
		WHERE t.journal_id = ?
		ORDER BY t.id`, journalID)
}

// ListJournalTablesForUser returns every table across the user's journals.
func (s *Store) ListJournalTablesForUser(ctx context.Context, userID int64) ([]*domain.JournalTable, error) {
	return s.queryJournalTables(ctx, `
		SELECT `+tableColumns+`
		FROM journal_tables t
		JOIN journals j ON j.id = t.journal_id
		WHERE j.user_id = ?
		ORDER BY t.id`, userID)
}

// UpdateJournalTable renames a table. journal_id is fixed at creation.
func (s *Store) UpdateJournalTable(ctx context.Context, table *domain.JournalTable) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE journal_tables SET table_name = ? WHERE id = ?`,
		table.Name, table.ID)
	if err != nil {
		return store.Classify(err)
	}
	return affected(result, store.ErrTableNotFound)
}

// DeleteJournalTable deletes a table. Its activities cascade.
func (s *Store) DeleteJournalTable(ctx context.Context, id int64) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM journal_tables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(result, store.ErrTableNotFound)
}
