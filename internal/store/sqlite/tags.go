package sqlite

import (
	"context"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

// tagColumns must match the scan order in scanTag. Queries alias tags as g.
const tagColumns = `g.id, g.tag_user_id, g.tag_name, g.tag_color, g.tag_class`

// visibleTag matches tags owned by the user or by any superuser.
const visibleTag = `(g.tag_user_id = ? OR g.tag_user_id IN (SELECT id FROM users WHERE is_superuser = 1))`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag
	if err := scanner.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.Class); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) queryTags(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CreateTag inserts a tag and sets its ID.
// A name the owner already uses returns store.ErrAlreadyExists.
func (s *Store) CreateTag(ctx context.Context, tag *domain.Tag) error {
	result, err := s.q.ExecContext(ctx, `
		INSERT INTO tags (tag_user_id, tag_name, tag_color, tag_class)
		VALUES (?, ?, ?, ?)`,
		tag.UserID, tag.Name, tag.Color, tag.Class)
	if err != nil {
		return store.Classify(err)
	}
	tag.ID, err = result.LastInsertId()
	return err
}

// GetVisibleTag returns a tag owned by userID or by a superuser.
func (s *Store) GetVisibleTag(ctx context.Context, id, userID int64) (*domain.Tag, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags g WHERE g.id = ? AND `+visibleTag, id, userID)
	t, err := scanTag(row)
	if err != nil {
		return nil, noRows(err, store.ErrTagNotFound)
	}
	return t, nil
}

// ListVisibleTags returns the user's tags and every superuser tag, by id.
func (s *Store) ListVisibleTags(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	return s.queryTags(ctx, `SELECT `+tagColumns+` FROM tags g WHERE `+visibleTag+` ORDER BY g.id`, userID)
}

// ListTagsByOwner returns only the tags userID owns.
func (s *Store) ListTagsByOwner(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	return s.queryTags(ctx, `SELECT `+tagColumns+` FROM tags g WHERE g.tag_user_id = ? ORDER BY g.id`, userID)
}

// ListSuperuserTags returns the global default tags.
func (s *Store) ListSuperuserTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.queryTags(ctx, `
		SELECT `+tagColumns+`
		FROM tags g
		JOIN users u ON u.id = g.tag_user_id
		WHERE u.is_superuser = 1
		ORDER BY g.id`)
}

// UpdateTag rewrites name, color, and class.
func (s *Store) UpdateTag(ctx context.Context, tag *domain.Tag) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE tags SET tag_name = ?, tag_color = ?, tag_class = ? WHERE id = ?`,
		tag.Name, tag.Color, tag.Class, tag.ID)
	if err != nil {
		return store.Classify(err)
	}
	return affected(result, store.ErrTagNotFound)
}

// DeleteTags deletes the named tags and returns the count. Activity links cascade.
func (s *Store) DeleteTags(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	in, args := inClause(ids)
	result, err := s.q.ExecContext(ctx, `DELETE FROM tags WHERE id IN (`+in+`)`, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// FilterVisibleTags returns the subset of ids visible to userID, in id order.
func (s *Store) FilterVisibleTags(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	in, args := inClause(ids)
	rows, err := s.q.QueryContext(ctx,
		`SELECT g.id FROM tags g WHERE `+visibleTag+` AND g.id IN (`+in+`) ORDER BY g.id`,
		append([]any{userID}, args...)...)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

// FilterOwnedTags returns the subset of ids owned by userID, in id order.
func (s *Store) FilterOwnedTags(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return []int64{}, nil
	}
	in, args := inClause(ids)
	rows, err := s.q.QueryContext(ctx,
		`SELECT g.id FROM tags g WHERE g.tag_user_id = ? AND g.id IN (`+in+`) ORDER BY g.id`,
		append([]any{userID}, args...)...)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}
