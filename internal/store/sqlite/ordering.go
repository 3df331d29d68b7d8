package sqlite

import (
	"context"
	"database/sql"

	"github.com/journalapp/journal-server/internal/store"
)

// MaxOrdering returns the largest ordering among rows of scope under parentID.
// found is false when no row in scope has an ordering.
func (s *Store) MaxOrdering(ctx context.Context, scope store.OrderScope, parentID int64) (int64, bool, error) {
	var highest sql.NullInt64
	err := s.q.QueryRowContext(ctx,
		`SELECT MAX(ordering) FROM `+scope.Table+` WHERE `+scope.Parent+` = ?`, parentID).Scan(&highest)
	if err != nil {
		return 0, false, err
	}
	return highest.Int64, highest.Valid, nil
}

// SetOrdering writes one row's ordering. The row must belong to parentID,
// otherwise store.ErrNotFound is returned and nothing changes.
func (s *Store) SetOrdering(ctx context.Context, scope store.OrderScope, parentID, id, ordering int64) error {
	result, err := s.q.ExecContext(ctx,
		`UPDATE `+scope.Table+` SET ordering = ? WHERE id = ? AND `+scope.Parent+` = ?`,
		ordering, id, parentID)
	if err != nil {
		return store.Classify(err)
	}
	return affected(result, store.ErrNotFound)
}
