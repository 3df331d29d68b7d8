package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

const activityColumns = `a.id, a.journal_table_id, a.name, a.created, a.ordering`

// activityOwner joins an activity to the user owning its journal.
const activityOwner = `
	FROM activities a
	JOIN journal_tables t ON t.id = a.journal_table_id
	JOIN journals j ON j.id = t.journal_id`

const activityOrder = ` ORDER BY a.ordering IS NULL, a.ordering, a.id`

func scanActivity(scanner interface{ Scan(dest ...any) error }) (*domain.Activity, error) {
	var (
		a        domain.Activity
		tableID  sql.NullInt64
		created  string
		ordering sql.NullInt64
	)
	if err := scanner.Scan(&a.ID, &tableID, &a.Name, &created, &ordering); err != nil {
		return nil, err
	}

	var err error
	if a.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	a.JournalTableID = ptrInt64(tableID)
	a.Ordering = ptrInt64(ordering)
	return &a, nil
}

// queryActivities runs query and loads tags and sub-entries for every row.
func (s *Store) queryActivities(ctx context.Context, query string, args ...any) ([]*domain.Activity, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	activities := []*domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := s.hydrateActivities(ctx, activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *Store) hydrateActivities(ctx context.Context, activities []*domain.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	ids := make([]int64, len(activities))
	for i, a := range activities {
		ids[i] = a.ID
	}

	tags, err := s.tagsByActivity(ctx, ids)
	if err != nil {
		return err
	}

	entries := make(map[domain.SubEntryKind]map[int64][]*domain.SubEntry, len(domain.SubEntryKinds))
	for _, kind := range domain.SubEntryKinds {
		byActivity, err := s.subEntriesByActivity(ctx, kind, ids)
		if err != nil {
			return err
		}
		entries[kind] = byActivity
	}

	for _, a := range activities {
		a.Tags = tags[a.ID]
		if a.Tags == nil {
			a.Tags = []*domain.Tag{}
		}
		for _, kind := range domain.SubEntryKinds {
			list := entries[kind][a.ID]
			if list == nil {
				list = []*domain.SubEntry{}
			}
			a.SetEntries(kind, list)
		}
	}
	return nil
}

// CreateActivity inserts an activity and sets its ID. Tags and sub-entries are written separately.
func (s *Store) CreateActivity(ctx context.Context, activity *domain.Activity) error {
	if activity.Created.IsZero() {
		activity.Created = time.Now()
	}

	result, err := s.q.ExecContext(ctx, `
		INSERT INTO activities (journal_table_id, name, created, ordering)
		VALUES (?, ?, ?, ?)`,
		nullableInt64(activity.JournalTableID),
		activity.Name,
		formatTime(activity.Created),
		nullableInt64(activity.Ordering),
	)
	if err != nil {
		return store.Classify(err)
	}
	activity.ID, err = result.LastInsertId()
	return err
}

// GetActivity returns an activity owned by userID with tags and sub-entries loaded.
func (s *Store) GetActivity(ctx context.Context, id, userID int64) (*domain.Activity, error) {
	list, err := s.queryActivities(ctx,
		`SELECT `+activityColumns+activityOwner+` WHERE a.id = ? AND j.user_id = ?`, id, userID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, store.ErrActivityNotFound
	}
	return list[0], nil
}

// ListActivities returns every activity the user owns, grouped by table in display order.
func (s *Store) ListActivities(ctx context.Context, userID int64) ([]*domain.Activity, error) {
	return s.queryActivities(ctx,
		`SELECT `+activityColumns+activityOwner+` WHERE j.user_id = ?
		ORDER BY a.journal_table_id, a.ordering IS NULL, a.ordering, a.id`, userID)
}

// ListActivitiesByTable returns a table's activities in display order.
func (s *Store) ListActivitiesByTable(ctx context.Context, tableID int64) ([]*domain.Activity, error) {
	return s.queryActivities(ctx,
		`SELECT `+activityColumns+` FROM activities a WHERE a.journal_table_id = ?`+activityOrder, tableID)
}

// ListActivitiesByIDs returns the named activities in id order. Missing ids are skipped.
func (s *Store) ListActivitiesByIDs(ctx context.Context, ids []int64) ([]*domain.Activity, error) {
	if len(ids) == 0 {
		return []*domain.Activity{}, nil
	}
	in, args := inClause(ids)
	return s.queryActivities(ctx,
		`SELECT `+activityColumns+` FROM activities a WHERE a.id IN (`+in+`) ORDER BY a.id`, args...)
}

// UpdateActivity rewrites name, table, and ordering.
func (s *Store) UpdateActivity(ctx context.Context, activity *domain.Activity) error {
	result, err := s.q.ExecContext(ctx, `
		UPDATE activities SET journal_table_id = ?, name = ?, ordering = ?
		WHERE id = ?`,
		nullableInt64(activity.JournalTableID),
		activity.Name,
		nullableInt64(activity.Ordering),
		activity.ID,
	)
	if err != nil {
		return store.Classify(err)
	}
	return affected(result, store.ErrActivityNotFound)
}

// DeleteActivities deletes the named activities in one statement and returns the count.
func (s *Store) DeleteActivities(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	in, args := inClause(ids)
	result, err := s.q.ExecContext(ctx, `DELETE FROM activities WHERE id IN (`+in+`)`, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// FilterOwnedActivities returns the subset of ids owned by userID, in id order.
func (s *Store) FilterOwnedActivities(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	in, args := inClause(ids)
	rows, err := s.q.QueryContext(ctx,
		`SELECT a.id`+activityOwner+` WHERE j.user_id = ? AND a.id IN (`+in+`) ORDER BY a.id`,
		append([]any{userID}, args...)...)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

// SetActivityTags replaces the activity's tag links.
func (s *Store) SetActivityTags(ctx context.Context, activityID int64, tagIDs []int64) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM activity_tags WHERE activity_id = ?`, activityID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := s.q.ExecContext(ctx,
			`INSERT OR IGNORE INTO activity_tags (activity_id, tag_id) VALUES (?, ?)`,
			activityID, tagID); err != nil {
			return store.Classify(err)
		}
	}
	return nil
}

// tagsByActivity loads the tags of each activity, ordered by tag id.
func (s *Store) tagsByActivity(ctx context.Context, activityIDs []int64) (map[int64][]*domain.Tag, error) {
	in, args := inClause(activityIDs)
	rows, err := s.q.QueryContext(ctx, `
		SELECT l.activity_id, `+tagColumns+`
		FROM activity_tags l
		JOIN tags g ON g.id = l.tag_id
		WHERE l.activity_id IN (`+in+`)
		ORDER BY l.activity_id, g.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]*domain.Tag)
	for rows.Next() {
		var (
			activityID int64
			t          domain.Tag
		)
		if err := rows.Scan(&activityID, &t.ID, &t.UserID, &t.Name, &t.Color, &t.Class); err != nil {
			return nil, err
		}
		out[activityID] = append(out[activityID], &t)
	}
	return out, rows.Err()
}
