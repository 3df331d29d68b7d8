package sqlite

import (
	"context"
	"database/sql"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

const journalColumns = `id, user_id, journal_name, journal_description, current_table`

func scanJournal(scanner interface{ Scan(dest ...any) error }) (*domain.Journal, error) {
	var (
		j            domain.Journal
		name         sql.NullString
		description  sql.NullString
		currentTable sql.NullInt64
	)
	if err := scanner.Scan(&j.ID, &j.UserID, &name, &description, &currentTable); err != nil {
		return nil, err
	}
	j.Name = ptrString(name)
	j.Description = ptrString(description)
	j.CurrentTable = ptrInt64(currentTable)
	return &j, nil
}

// CreateJournal inserts a journal and sets its ID.
func (s *Store) CreateJournal(ctx context.Context, journal *domain.Journal) error {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO journals (user_id, journal_name, journal_description, current_table)
		VALUES (?, ?, ?, ?)`,
		journal.UserID,
		nullableString(journal.Name),
		nullableString(journal.Description),
		nullableInt64(journal.CurrentTable),
	)
	if err != nil {
		return store.Classify(err)
	}
	journal.ID, err = result.LastInsertId()
	return err
}

// GetJournal returns a journal owned by userID.
func (s *Store) GetJournal(ctx context.Context, id, userID int64) (*domain.Journal, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+journalColumns+` FROM journals WHERE id = ? AND user_id = ?`, id, userID)
	j, err := scanJournal(row)
	if err != nil {
		return nil, noRows(err, store.ErrJournalNotFound)
	}
	return j, nil
}

// ListJournals returns the user's journals by id.
func (s *Store) ListJournals(ctx context.Context, userID int64) ([]*domain.Journal, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+journalColumns+` FROM journals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	journals := []*domain.Journal{}
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		journals = append(journals, j)
	}
	return journals, rows.Err()
}

// UpdateJournal rewrites name, description, and current table.
func (s *Store) UpdateJournal(ctx context.Context, journal *domain.Journal) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE journals SET journal_name = ?, journal_description = ?, current_table = ?
		WHERE id = ?`,
		nullableString(journal.Name),
		nullableString(journal.Description),
		nullableInt64(journal.CurrentTable),
		journal.ID,
	)
	if err != nil {
		return store.Classify(err)
	}
	return affected(result, store.ErrJournalNotFound)
}
