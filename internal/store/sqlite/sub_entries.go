package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

// Sub-entry tables share one shape; kind supplies the table and text column.
// Only action_items has a checked column.

func subEntryColumns(kind domain.SubEntryKind) string {
	checked := "0"
	if kind.Checkable() {
		checked = "e.checked"
	}
	return fmt.Sprintf("e.id, e.activity_id, e.%s, %s, e.ordering", kind.Field(), checked)
}

// subEntryOwner joins an entry to the user owning its activity's journal.
func subEntryOwner(kind domain.SubEntryKind) string {
	return fmt.Sprintf(`
	FROM %s e
	JOIN activities a ON a.id = e.activity_id
	JOIN journal_tables t ON t.id = a.journal_table_id
	JOIN journals j ON j.id = t.journal_id`, kind.Table())
}

const subEntryOrder = ` ORDER BY e.ordering IS NULL, e.ordering, e.id`

func scanSubEntry(kind domain.SubEntryKind, scanner interface{ Scan(dest ...any) error }) (*domain.SubEntry, error) {
	var (
		e        domain.SubEntry
		checked  int
		ordering sql.NullInt64
	)
	if err := scanner.Scan(&e.ID, &e.ActivityID, &e.Text, &checked, &ordering); err != nil {
		return nil, err
	}
	e.Kind = kind
	e.Checked = checked == 1
	e.Ordering = ptrInt64(ordering)
	return &e, nil
}

func (s *Store) querySubEntries(ctx context.Context, kind domain.SubEntryKind, query string, args ...any) ([]*domain.SubEntry, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*domain.SubEntry{}
	for rows.Next() {
		e, err := scanSubEntry(kind, rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateSubEntry inserts an entry of entry.Kind and sets its ID.
func (s *Store) CreateSubEntry(ctx context.Context, entry *domain.SubEntry) error {
	kind := entry.Kind
	var (
		result sql.Result
		err    error
	)
	if kind.Checkable() {
		result, err = s.q.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (activity_id, %s, checked, ordering) VALUES (?, ?, ?, ?)`,
				kind.Table(), kind.Field()),
			entry.ActivityID, entry.Text, boolToInt(entry.Checked), nullableInt64(entry.Ordering))
	} else {
		result, err = s.q.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (activity_id, %s, ordering) VALUES (?, ?, ?)`,
				kind.Table(), kind.Field()),
			entry.ActivityID, entry.Text, nullableInt64(entry.Ordering))
	}
	if err != nil {
		return store.Classify(err)
	}
	entry.ID, err = result.LastInsertId()
	return err
}

// GetSubEntry returns an entry whose activity is owned by userID.
func (s *Store) GetSubEntry(ctx context.Context, kind domain.SubEntryKind, id, userID int64) (*domain.SubEntry, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+subEntryColumns(kind)+subEntryOwner(kind)+` WHERE e.id = ? AND j.user_id = ?`, id, userID)
	e, err := scanSubEntry(kind, row)
	if err != nil {
		return nil, noRows(err, store.ErrEntryNotFound)
	}
	return e, nil
}

// ListSubEntries returns every entry of kind the user owns, grouped by activity.
func (s *Store) ListSubEntries(ctx context.Context, kind domain.SubEntryKind, userID int64) ([]*domain.SubEntry, error) {
	return s.querySubEntries(ctx, kind,
		`SELECT `+subEntryColumns(kind)+subEntryOwner(kind)+` WHERE j.user_id = ?
		ORDER BY e.activity_id, e.ordering IS NULL, e.ordering, e.id`, userID)
}

// ListSubEntriesByActivity returns an activity's entries of kind in display order.
func (s *Store) ListSubEntriesByActivity(ctx context.Context, kind domain.SubEntryKind, activityID int64) ([]*domain.SubEntry, error) {
	return s.querySubEntries(ctx, kind,
		`SELECT `+subEntryColumns(kind)+` FROM `+kind.Table()+` e WHERE e.activity_id = ?`+subEntryOrder,
		activityID)
}

// UpdateSubEntry rewrites text, checked, ordering, and parent activity.
func (s *Store) UpdateSubEntry(ctx context.Context, entry *domain.SubEntry) error {
	kind := entry.Kind
	var (
		result sql.Result
		err    error
	)
	if kind.Checkable() {
		result, err = s.q.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET activity_id = ?, %s = ?, checked = ?, ordering = ? WHERE id = ?`,
				kind.Table(), kind.Field()),
			entry.ActivityID, entry.Text, boolToInt(entry.Checked), nullableInt64(entry.Ordering), entry.ID)
	} else {
		result, err = s.q.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET activity_id = ?, %s = ?, ordering = ? WHERE id = ?`,
				kind.Table(), kind.Field()),
			entry.ActivityID, entry.Text, nullableInt64(entry.Ordering), entry.ID)
	}
	if err != nil {
		return store.Classify(err)
	}
	return affected(result, store.ErrEntryNotFound)
}

// DeleteSubEntries deletes the named entries of kind and returns the count.
func (s *Store) DeleteSubEntries(ctx context.Context, kind domain.SubEntryKind, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	in, args := inClause(ids)
	result, err := s.q.ExecContext(ctx, `DELETE FROM `+kind.Table()+` WHERE id IN (`+in+`)`, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// FilterOwnedSubEntries returns the subset of ids owned by userID, in id order.
func (s *Store) FilterOwnedSubEntries(ctx context.Context, kind domain.SubEntryKind, userID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	in, args := inClause(ids)
	rows, err := s.q.QueryContext(ctx,
		`SELECT e.id`+subEntryOwner(kind)+` WHERE j.user_id = ? AND e.id IN (`+in+`) ORDER BY e.id`,
		append([]any{userID}, args...)...)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

// subEntriesByActivity loads entries of kind for several activities at once.
func (s *Store) subEntriesByActivity(ctx context.Context, kind domain.SubEntryKind, activityIDs []int64) (map[int64][]*domain.SubEntry, error) {
	in, args := inClause(activityIDs)
	list, err := s.querySubEntries(ctx, kind,
		`SELECT `+subEntryColumns(kind)+` FROM `+kind.Table()+` e WHERE e.activity_id IN (`+in+`)
		ORDER BY e.activity_id, e.ordering IS NULL, e.ordering, e.id`, args...)
	if err != nil {
		return nil, err
	}

	out := make(map[int64][]*domain.SubEntry)
	for _, e := range list {
		out[e.ActivityID] = append(out[e.ActivityID], e)
	}
	return out, nil
}
