package service

import (
	"context"
	"errors"

	"github.com/journalapp/journal-server/internal/domain"
	domainerrors "github.com/journalapp/journal-server/internal/errors"
	"github.com/journalapp/journal-server/internal/store"
)

// Orderings are display ranks scoped to a parent: activities within their
// table, sub-entries within their activity. Ties are allowed; listings break
// them by id. Deletes leave gaps until a client sends an ordering list.

// AssignInitialOrdering returns the trailing position in scope: 1 when the
// scope has no ordered rows, otherwise the current maximum plus one.
func AssignInitialOrdering(ctx context.Context, tx store.Store, scope store.OrderScope, parentID int64) (int64, error) {
	highest, found, err := tx.MaxOrdering(ctx, scope, parentID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 1, nil
	}
	return highest + 1, nil
}

// CreateRelative persists a new row at the caller's ordering and then applies
// the caller's sibling re-ranking. Nothing is recomputed; the client owns the
// final sequence. tx must be transactional for the pair to be atomic.
func CreateRelative(
	ctx context.Context,
	tx store.Store,
	scope store.OrderScope,
	parentID int64,
	ordering int64,
	siblings []domain.OrderingItem,
	insert func(ordering int64) error,
) error {
	if err := insert(ordering); err != nil {
		return err
	}
	return BulkReorder(ctx, tx, scope, parentID, siblings)
}

// BulkReorder writes every {id, ordering} pair. An id outside the parent
// scope, or a repeated id, is a validation error; run inside InTx so a
// failure leaves every row untouched.
func BulkReorder(ctx context.Context, tx store.Store, scope store.OrderScope, parentID int64, items []domain.OrderingItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := requireUniqueIDs(domain.OrderingIDs(items)); err != nil {
		return err
	}

	for _, item := range items {
		err := tx.SetOrdering(ctx, scope, parentID, item.ID, item.Ordering)
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.Validationf("%s %d does not belong to %s %d",
				scope.Table, item.ID, scopeParentName(scope), parentID)
		}
		if err != nil {
			return storeError(err, "reorder "+scope.Table)
		}
	}
	return nil
}

func scopeParentName(scope store.OrderScope) string {
	if scope == store.ActivityScope {
		return "journal table"
	}
	return "activity"
}

// Placement is how a client positions a new row among its siblings.
// RelativeItem names the sibling the row is placed next to; it requires an
// explicit Ordering. OrderingList re-ranks the siblings in the same write.
type Placement struct {
	Ordering     *int64               `json:"ordering,omitempty"`
	RelativeItem *int64               `json:"relative_item,omitempty"`
	OrderingList []domain.OrderingItem `json:"ordering_list,omitempty"`
}

// place inserts a row according to p. Without an explicit ordering the row
// takes the trailing position. isSibling reports whether an id belongs to
// the same parent.
func place(
	ctx context.Context,
	tx store.Store,
	scope store.OrderScope,
	parentID int64,
	p Placement,
	isSibling func(id int64) (bool, error),
	insert func(ordering int64) error,
) error {
	if p.RelativeItem != nil {
		if p.Ordering == nil {
			return domainerrors.Validation("ordering is required with relative_item")
		}
		ok, err := isSibling(*p.RelativeItem)
		if err != nil {
			return err
		}
		if !ok {
			return domainerrors.Validationf("relative_item %d does not belong to %s %d",
				*p.RelativeItem, scopeParentName(scope), parentID)
		}
	}

	var ordering int64
	if p.Ordering != nil {
		ordering = *p.Ordering
	} else {
		var err error
		if ordering, err = AssignInitialOrdering(ctx, tx, scope, parentID); err != nil {
			return err
		}
	}
	return CreateRelative(ctx, tx, scope, parentID, ordering, p.OrderingList, insert)
}
