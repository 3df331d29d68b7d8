package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/journalapp/journal-server/internal/domain"
	domainerrors "github.com/journalapp/journal-server/internal/errors"
	"github.com/journalapp/journal-server/internal/store"
)

// ActivityService manages activities, their nested sub-entries, and the
// activity batch operations.
type ActivityService struct {
	store  store.Store
	logger *slog.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(store store.Store, logger *slog.Logger) *ActivityService {
	return &ActivityService{store: store, logger: logger}
}

// CreateActivityRequest creates an activity in an owned table.
type CreateActivityRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	JournalTable int64   `json:"journal_table" validate:"required"`
	Tags         []int64 `json:"tags,omitempty" validate:"uniqueids"`
	Placement
}

// UpdateActivityRequest edits an activity. Absent fields are left alone and
// an empty tags list keeps the current tags.
type UpdateActivityRequest struct {
	Name         *string               `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	JournalTable *int64                `json:"journal_table,omitempty"`
	Tags         []int64               `json:"tags,omitempty" validate:"uniqueids"`
	Ordering     *int64                `json:"ordering,omitempty"`
	OrderingList []domain.OrderingItem `json:"ordering_list,omitempty"`

	Intentions  *NestedSubEntryPatch `json:"intentions,omitempty"`
	Happenings  *NestedSubEntryPatch `json:"happenings,omitempty"`
	GratefulFor *NestedSubEntryPatch `json:"grateful_for,omitempty"`
	ActionItems *NestedSubEntryPatch `json:"action_items,omitempty"`
}

// Nested returns the sub-entry patch for kind, or nil.
func (r UpdateActivityRequest) Nested(kind domain.SubEntryKind) *NestedSubEntryPatch {
	switch kind {
	case domain.KindIntention:
		return r.Intentions
	case domain.KindHappening:
		return r.Happenings
	case domain.KindGratefulFor:
		return r.GratefulFor
	case domain.KindActionItem:
		return r.ActionItems
	}
	return nil
}

// NestedSubEntryPatch edits one kind of sub-entry through its activity.
// Parts apply in order: update, create, ordering_list, checked.
// With update_only set, create is ignored.
type NestedSubEntryPatch struct {
	Activity        *int64                `json:"activity,omitempty"`
	Type            *string               `json:"type,omitempty"`
	Create          *NestedCreate         `json:"create,omitempty"`
	Update          *NestedUpdate         `json:"update,omitempty"`
	OrderingList    []domain.OrderingItem `json:"ordering_list,omitempty"`
	UpdateAndCreate bool                  `json:"update_and_create,omitempty"`
	UpdateOnly      bool                  `json:"update_only,omitempty"`
	Checked         *CheckedPatch         `json:"update_action_item_checked,omitempty"`
}

// NestedCreate adds a sub-entry, optionally next to RelativeItem.
type NestedCreate struct {
	SubEntryText
	Ordering     *int64 `json:"ordering,omitempty"`
	RelativeItem *int64 `json:"relative_item,omitempty"`
}

// NestedUpdate edits the sub-entry ID. A null ID creates a new entry instead.
type NestedUpdate struct {
	ID *int64 `json:"id,omitempty" nullable:"true"`
	SubEntryText
}

// CheckedPatch sets the checked flag of one action item.
type CheckedPatch struct {
	ID            int64   `json:"id" validate:"required"`
	Checked       bool    `json:"checked,omitempty"`
	UpdateChecked bool    `json:"update_checked,omitempty"`
	Type          *string `json:"type,omitempty"`
}

// ActivityTagsItem assigns one tag set to several activities.
type ActivityTagsItem struct {
	IDs  []int64 `json:"ids" validate:"required,min=1"`
	Tags []int64 `json:"tags" validate:"uniqueids"`
}

// DuplicateItem names activities to copy.
type DuplicateItem struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

// DuplicateResult reports a batch duplicate: the copies made and the
// activities that could not be copied.
type DuplicateResult struct {
	Activities []*domain.Activity `json:"activities"`
	Failed     []BatchFailure     `json:"failed"`
}

// ListActivities returns every activity the user owns, grouped by table in
// display order.
func (s *ActivityService) ListActivities(ctx context.Context, userID int64) ([]*domain.Activity, error) {
	activities, err := s.store.ListActivities(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// GetActivity returns one owned activity with tags and sub-entries.
func (s *ActivityService) GetActivity(ctx context.Context, userID, activityID int64) (*domain.Activity, error) {
	activity, err := s.store.GetActivity(ctx, activityID, userID)
	if err != nil {
		return nil, storeError(err, "activity not found")
	}
	return activity, nil
}

// CreateActivity creates an activity with one blank sub-entry of each kind.
// Without an explicit ordering it goes to the end of its table.
func (s *ActivityService) CreateActivity(ctx context.Context, userID int64, req CreateActivityRequest) (*domain.Activity, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	var activity *domain.Activity
	err := s.store.InTx(ctx, func(tx store.Store) error {
		table, err := tx.GetJournalTable(ctx, req.JournalTable, userID)
		if err != nil {
			return storeError(err, "journal table not found")
		}
		if err := requireVisibleTags(ctx, tx, userID, req.Tags); err != nil {
			return err
		}

		created := &domain.Activity{JournalTableID: &table.ID, Name: req.Name}
		insert := func(ordering int64) error {
			created.Ordering = &ordering
			return tx.CreateActivity(ctx, created)
		}
		if err := place(ctx, tx, store.ActivityScope, table.ID, req.Placement, activityInTable(ctx, tx, table.ID), insert); err != nil {
			return storeError(err, "activity not created")
		}

		if err := tx.SetActivityTags(ctx, created.ID, req.Tags); err != nil {
			return storeError(err, "activity not created")
		}
		if err := provisionSubEntries(ctx, tx, created); err != nil {
			return err
		}

		activity, err = tx.GetActivity(ctx, created.ID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("activity created",
			"activity_id", activity.ID,
			"table_id", req.JournalTable,
			"user_id", userID,
		)
	}
	return activity, nil
}

// UpdateActivity applies every part of req in one transaction and returns
// the refreshed activity.
func (s *ActivityService) UpdateActivity(ctx context.Context, userID, activityID int64, req UpdateActivityRequest) (*domain.Activity, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	var activity *domain.Activity
	err := s.store.InTx(ctx, func(tx store.Store) error {
		current, err := tx.GetActivity(ctx, activityID, userID)
		if err != nil {
			return storeError(err, "activity not found")
		}

		if req.Name != nil {
			current.Name = *req.Name
		}
		if req.JournalTable != nil && (current.JournalTableID == nil || *current.JournalTableID != *req.JournalTable) {
			table, err := tx.GetJournalTable(ctx, *req.JournalTable, userID)
			if err != nil {
				return storeError(err, "journal table not found")
			}
			current.JournalTableID = &table.ID
			if req.Ordering == nil {
				ordering, err := AssignInitialOrdering(ctx, tx, store.ActivityScope, table.ID)
				if err != nil {
					return fmt.Errorf("assign ordering: %w", err)
				}
				current.Ordering = &ordering
			}
		}
		if req.Ordering != nil {
			current.Ordering = req.Ordering
		}
		if err := tx.UpdateActivity(ctx, current); err != nil {
			return storeError(err, "activity not found")
		}

		if len(req.Tags) > 0 {
			if err := requireVisibleTags(ctx, tx, userID, req.Tags); err != nil {
				return err
			}
			if err := tx.SetActivityTags(ctx, activityID, req.Tags); err != nil {
				return storeError(err, "activity not found")
			}
		}

		if len(req.OrderingList) > 0 {
			if current.JournalTableID == nil {
				return domainerrors.Validation("activity has no journal table to order within")
			}
			if err := BulkReorder(ctx, tx, store.ActivityScope, *current.JournalTableID, req.OrderingList); err != nil {
				return err
			}
		}

		for _, kind := range domain.SubEntryKinds {
			if patch := req.Nested(kind); patch != nil {
				if err := applyNested(ctx, tx, kind, userID, activityID, patch); err != nil {
					return err
				}
			}
		}

		activity, err = tx.GetActivity(ctx, activityID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("activity updated", "activity_id", activityID, "user_id", userID)
	}
	return activity, nil
}

// DeleteActivity deletes one owned activity and its sub-entries.
func (s *ActivityService) DeleteActivity(ctx context.Context, userID, activityID int64) error {
	err := s.store.InTx(ctx, func(tx store.Store) error {
		if err := requireOwnedActivity(ctx, tx, userID, activityID); err != nil {
			return err
		}
		_, err := tx.DeleteActivities(ctx, []int64{activityID})
		return err
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("activity deleted", "activity_id", activityID, "user_id", userID)
	}
	return nil
}

// BatchUpdateTags replaces the tag set of every owned activity named in
// items, in one transaction. An id may appear only once in the request.
// Ids the user does not own are skipped.
func (s *ActivityService) BatchUpdateTags(ctx context.Context, userID int64, items []ActivityTagsItem) ([]*domain.Activity, error) {
	groups := make([][]int64, len(items))
	for i, item := range items {
		if err := validate.Validate(item); err != nil {
			return nil, err
		}
		groups[i] = item.IDs
	}
	if err := requireUniqueIDs(groups...); err != nil {
		return nil, err
	}

	var updated []*domain.Activity
	err := s.store.InTx(ctx, func(tx store.Store) error {
		var touched []int64
		for _, item := range items {
			if err := requireVisibleTags(ctx, tx, userID, item.Tags); err != nil {
				return err
			}
			owned, err := tx.FilterOwnedActivities(ctx, userID, item.IDs)
			if err != nil {
				return fmt.Errorf("check activity owner: %w", err)
			}
			for _, id := range owned {
				if err := tx.SetActivityTags(ctx, id, item.Tags); err != nil {
					return storeError(err, "activity not found")
				}
			}
			touched = append(touched, owned...)
		}

		var err error
		updated, err = tx.ListActivitiesByIDs(ctx, touched)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("activity tags batch updated", "user_id", userID, "count", len(updated))
	}
	return updated, nil
}

// BatchDelete deletes the owned activities among ids with one statement and
// returns them as they were before deletion. Other ids are ignored.
func (s *ActivityService) BatchDelete(ctx context.Context, userID int64, ids []int64) ([]*domain.Activity, error) {
	if err := requireUniqueIDs(ids); err != nil {
		return nil, err
	}

	var deleted []*domain.Activity
	err := s.store.InTx(ctx, func(tx store.Store) error {
		owned, err := tx.FilterOwnedActivities(ctx, userID, ids)
		if err != nil {
			return fmt.Errorf("check activity owner: %w", err)
		}
		if deleted, err = tx.ListActivitiesByIDs(ctx, owned); err != nil {
			return err
		}
		_, err = tx.DeleteActivities(ctx, owned)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("activities batch deleted", "user_id", userID, "count", len(deleted))
	}
	return deleted, nil
}

// BatchDuplicate copies every owned activity into its own table. Each copy
// runs in its own transaction; a failed copy is reported and the rest go on.
func (s *ActivityService) BatchDuplicate(ctx context.Context, userID int64, items []DuplicateItem) (*DuplicateResult, error) {
	groups := make([][]int64, len(items))
	var ids []int64
	for i, item := range items {
		if err := validate.Validate(item); err != nil {
			return nil, err
		}
		groups[i] = item.IDs
		ids = append(ids, item.IDs...)
	}
	if err := requireUniqueIDs(groups...); err != nil {
		return nil, err
	}

	owned, err := s.store.FilterOwnedActivities(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("check activity owner: %w", err)
	}

	isOwned := make(map[int64]bool, len(owned))
	for _, id := range owned {
		isOwned[id] = true
	}

	// Copies are appended in request order.
	result := &DuplicateResult{Activities: []*domain.Activity{}, Failed: []BatchFailure{}}
	for _, id := range ids {
		if !isOwned[id] {
			continue
		}
		delete(isOwned, id)
		clone, err := s.duplicate(ctx, userID, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("activity not duplicated", "activity_id", id, "user_id", userID, "error", err)
			}
			result.Failed = append(result.Failed, BatchFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Activities = append(result.Activities, clone)
	}

	if s.logger != nil {
		s.logger.Info("activities batch duplicated",
			"user_id", userID,
			"count", len(result.Activities),
			"failed", len(result.Failed),
		)
	}
	return result, nil
}

func (s *ActivityService) duplicate(ctx context.Context, userID, activityID int64) (*domain.Activity, error) {
	var clone *domain.Activity
	err := s.store.InTx(ctx, func(tx store.Store) error {
		src, err := tx.GetActivity(ctx, activityID, userID)
		if err != nil {
			return storeError(err, "activity not found")
		}
		if src.JournalTableID == nil {
			return domainerrors.Validationf("activity %d has no journal table", activityID)
		}

		copied, err := CloneActivity(ctx, tx, src, *src.JournalTableID)
		if err != nil {
			return err
		}
		clone, err = tx.GetActivity(ctx, copied.ID, userID)
		return err
	})
	return clone, err
}

// applyNested runs one nested sub-entry patch against activityID.
func applyNested(ctx context.Context, tx store.Store, kind domain.SubEntryKind, userID, activityID int64, p *NestedSubEntryPatch) error {
	if p.Activity != nil && *p.Activity != activityID {
		return domainerrors.Validationf("%s.activity must be %d", kind, activityID)
	}
	if p.Type != nil && *p.Type != string(kind) {
		return domainerrors.Validationf("%s.type must be %q", kind, kind)
	}

	if p.Update != nil {
		if p.Update.ID == nil {
			if _, err := createSubEntry(ctx, tx, kind, activityID, p.Update.SubEntryText, nil, Placement{}); err != nil {
				return err
			}
		} else {
			if err := requireEntryOfActivity(ctx, tx, kind, userID, activityID, *p.Update.ID); err != nil {
				return err
			}
			if _, err := updateSubEntry(ctx, tx, kind, userID, *p.Update.ID, p.Update.SubEntryText, nil); err != nil {
				return err
			}
		}
	}

	if p.Create != nil && !p.UpdateOnly {
		placement := Placement{Ordering: p.Create.Ordering, RelativeItem: p.Create.RelativeItem}
		if _, err := createSubEntry(ctx, tx, kind, activityID, p.Create.SubEntryText, nil, placement); err != nil {
			return err
		}
	}

	if err := BulkReorder(ctx, tx, store.SubEntryScope(kind), activityID, p.OrderingList); err != nil {
		return err
	}

	if c := p.Checked; c != nil && c.UpdateChecked {
		if !kind.Checkable() {
			return domainerrors.Validationf("%s cannot be checked", kind)
		}
		if c.Type != nil && *c.Type != string(kind) {
			return domainerrors.Validationf("update_action_item_checked.type must be %q", kind)
		}
		if err := requireEntryOfActivity(ctx, tx, kind, userID, activityID, c.ID); err != nil {
			return err
		}
		checked := c.Checked
		if _, err := updateSubEntry(ctx, tx, kind, userID, c.ID, SubEntryText{}, &checked); err != nil {
			return err
		}
	}
	return nil
}

func requireEntryOfActivity(ctx context.Context, tx store.Store, kind domain.SubEntryKind, userID, activityID, id int64) error {
	entry, err := tx.GetSubEntry(ctx, kind, id, userID)
	if err != nil {
		return storeError(err, notFoundMessage(kind))
	}
	if entry.ActivityID != activityID {
		return domainerrors.Validationf("%s %d does not belong to activity %d", kind.Field(), id, activityID)
	}
	return nil
}

// requireVisibleTags checks that every id names a tag the user can see.
func requireVisibleTags(ctx context.Context, tx store.Store, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	visible, err := tx.FilterVisibleTags(ctx, userID, ids)
	if err != nil {
		return fmt.Errorf("check tags: %w", err)
	}
	for _, id := range ids {
		if !containsAll(visible, []int64{id}) {
			return domainerrors.Validationf("tag %d does not exist", id)
		}
	}
	return nil
}

// activityInTable reports whether an activity id belongs to tableID.
func activityInTable(ctx context.Context, tx store.Store, tableID int64) func(id int64) (bool, error) {
	return func(id int64) (bool, error) {
		found, err := tx.ListActivitiesByIDs(ctx, []int64{id})
		if err != nil {
			return false, err
		}
		return len(found) == 1 && found[0].JournalTableID != nil && *found[0].JournalTableID == tableID, nil
	}
}
