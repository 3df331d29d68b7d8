package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/journalapp/journal-server/internal/domain"
	domainerrors "github.com/journalapp/journal-server/internal/errors"
	"github.com/journalapp/journal-server/internal/store"
)

// SubEntryText carries the text field of every kind. Only the field named by
// the kind being written is read.
type SubEntryText struct {
	Intention   *string `json:"intention,omitempty" validate:"omitempty,max=2000"`
	Happening   *string `json:"happening,omitempty" validate:"omitempty,max=2000"`
	GratefulFor *string `json:"grateful_for,omitempty" validate:"omitempty,max=2000"`
	ActionItem  *string `json:"action_item,omitempty" validate:"omitempty,max=2000"`
}

// Text returns the field for kind, or nil when it was not supplied.
func (t SubEntryText) Text(kind domain.SubEntryKind) *string {
	switch kind {
	case domain.KindIntention:
		return t.Intention
	case domain.KindHappening:
		return t.Happening
	case domain.KindGratefulFor:
		return t.GratefulFor
	case domain.KindActionItem:
		return t.ActionItem
	}
	return nil
}

// CreateSubEntryRequest adds one sub-entry to an owned activity.
type CreateSubEntryRequest struct {
	Activity int64 `json:"activity" validate:"required"`
	SubEntryText
	Checked *bool `json:"checked,omitempty"`
	Placement
}

// UpdateSubEntryRequest edits one sub-entry. Absent fields are left alone.
type UpdateSubEntryRequest struct {
	SubEntryText
	Checked  *bool  `json:"checked,omitempty"`
	Ordering *int64 `json:"ordering,omitempty"`
}

// SubEntryPatch edits one sub-entry in a batch.
type SubEntryPatch struct {
	ID int64 `json:"id" validate:"required"`
	SubEntryText
	Checked *bool `json:"checked,omitempty"`
}

// SubEntryService manages the four sub-entry kinds through one set of
// operations parameterized by kind.
type SubEntryService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSubEntryService creates a new sub-entry service.
func NewSubEntryService(store store.Store, logger *slog.Logger) *SubEntryService {
	return &SubEntryService{store: store, logger: logger}
}

// List returns every sub-entry of kind the user owns.
func (s *SubEntryService) List(ctx context.Context, kind domain.SubEntryKind, userID int64) ([]*domain.SubEntry, error) {
	entries, err := s.store.ListSubEntries(ctx, kind, userID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return entries, nil
}

// Get returns one owned sub-entry.
func (s *SubEntryService) Get(ctx context.Context, kind domain.SubEntryKind, userID, id int64) (*domain.SubEntry, error) {
	entry, err := s.store.GetSubEntry(ctx, kind, id, userID)
	if err != nil {
		return nil, storeError(err, notFoundMessage(kind))
	}
	return entry, nil
}

// Create adds a sub-entry to an owned activity.
func (s *SubEntryService) Create(ctx context.Context, kind domain.SubEntryKind, userID int64, req CreateSubEntryRequest) (*domain.SubEntry, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	var entry *domain.SubEntry
	err := s.store.InTx(ctx, func(tx store.Store) error {
		if err := requireOwnedActivity(ctx, tx, userID, req.Activity); err != nil {
			return err
		}
		var err error
		entry, err = createSubEntry(ctx, tx, kind, req.Activity, req.SubEntryText, req.Checked, req.Placement)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("sub-entry created", "kind", string(kind), "id", entry.ID, "activity_id", entry.ActivityID)
	}
	return entry, nil
}

// Update applies the supplied fields to an owned sub-entry.
func (s *SubEntryService) Update(ctx context.Context, kind domain.SubEntryKind, userID, id int64, req UpdateSubEntryRequest) (*domain.SubEntry, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	var entry *domain.SubEntry
	err := s.store.InTx(ctx, func(tx store.Store) error {
		var err error
		entry, err = updateSubEntry(ctx, tx, kind, userID, id, req.SubEntryText, req.Checked)
		if err != nil {
			return err
		}
		if req.Ordering != nil {
			entry.Ordering = req.Ordering
			if err := tx.UpdateSubEntry(ctx, entry); err != nil {
				return storeError(err, notFoundMessage(kind))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes one owned sub-entry.
func (s *SubEntryService) Delete(ctx context.Context, kind domain.SubEntryKind, userID, id int64) error {
	return s.store.InTx(ctx, func(tx store.Store) error {
		owned, err := tx.FilterOwnedSubEntries(ctx, kind, userID, []int64{id})
		if err != nil {
			return fmt.Errorf("check %s owner: %w", kind, err)
		}
		if len(owned) == 0 {
			return domainerrors.NotFound(notFoundMessage(kind))
		}
		_, err = tx.DeleteSubEntries(ctx, kind, owned)
		return err
	})
}

// BatchCreate creates every item in one transaction. Each item is placed at
// the end of its activity unless it carries its own placement.
func (s *SubEntryService) BatchCreate(ctx context.Context, kind domain.SubEntryKind, userID int64, items []CreateSubEntryRequest) ([]*domain.SubEntry, error) {
	for _, item := range items {
		if err := validate.Validate(item); err != nil {
			return nil, err
		}
	}

	created := make([]*domain.SubEntry, 0, len(items))
	err := s.store.InTx(ctx, func(tx store.Store) error {
		activityIDs := make([]int64, len(items))
		for i, item := range items {
			activityIDs[i] = item.Activity
		}
		owned, err := tx.FilterOwnedActivities(ctx, userID, uniqueIDs(activityIDs))
		if err != nil {
			return fmt.Errorf("check activity owner: %w", err)
		}
		if !containsAll(owned, activityIDs) {
			return domainerrors.NotFound("activity not found")
		}

		for _, item := range items {
			entry, err := createSubEntry(ctx, tx, kind, item.Activity, item.SubEntryText, item.Checked, item.Placement)
			if err != nil {
				return err
			}
			created = append(created, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("sub-entries batch created", "kind", string(kind), "user_id", userID, "count", len(created))
	}
	return created, nil
}

// BatchUpdate applies every patch in one transaction. Ids must be distinct
// and owned.
func (s *SubEntryService) BatchUpdate(ctx context.Context, kind domain.SubEntryKind, userID int64, patches []SubEntryPatch) ([]*domain.SubEntry, error) {
	ids := make([]int64, len(patches))
	for i, p := range patches {
		if err := validate.Validate(p); err != nil {
			return nil, err
		}
		ids[i] = p.ID
	}
	if err := requireUniqueIDs(ids); err != nil {
		return nil, err
	}

	updated := make([]*domain.SubEntry, 0, len(patches))
	err := s.store.InTx(ctx, func(tx store.Store) error {
		owned, err := tx.FilterOwnedSubEntries(ctx, kind, userID, ids)
		if err != nil {
			return fmt.Errorf("check %s owner: %w", kind, err)
		}
		if !containsAll(owned, ids) {
			return domainerrors.NotFound(notFoundMessage(kind))
		}

		for _, p := range patches {
			entry, err := updateSubEntry(ctx, tx, kind, userID, p.ID, p.SubEntryText, p.Checked)
			if err != nil {
				return err
			}
			updated = append(updated, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// BatchDelete removes the owned sub-entries among ids. Others are ignored.
func (s *SubEntryService) BatchDelete(ctx context.Context, kind domain.SubEntryKind, userID int64, ids []int64) (int64, error) {
	if err := requireUniqueIDs(ids); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.store.InTx(ctx, func(tx store.Store) error {
		owned, err := tx.FilterOwnedSubEntries(ctx, kind, userID, ids)
		if err != nil {
			return fmt.Errorf("check %s owner: %w", kind, err)
		}
		deleted, err = tx.DeleteSubEntries(ctx, kind, owned)
		return err
	})
	if err != nil {
		return 0, err
	}

	if s.logger != nil {
		s.logger.Info("sub-entries batch deleted", "kind", string(kind), "user_id", userID, "count", deleted)
	}
	return deleted, nil
}

// createSubEntry inserts one entry under activityID. The kind's text field
// must be present, though it may be blank.
func createSubEntry(
	ctx context.Context,
	tx store.Store,
	kind domain.SubEntryKind,
	activityID int64,
	text SubEntryText,
	checked *bool,
	p Placement,
) (*domain.SubEntry, error) {
	value := text.Text(kind)
	if value == nil {
		return nil, domainerrors.Validationf("%s is required", kind.Field())
	}

	entry := &domain.SubEntry{Kind: kind, ActivityID: activityID, Text: *value}
	if checked != nil && kind.Checkable() {
		entry.Checked = *checked
	}

	isSibling := func(id int64) (bool, error) {
		siblings, err := tx.ListSubEntriesByActivity(ctx, kind, activityID)
		if err != nil {
			return false, err
		}
		return slices.ContainsFunc(siblings, func(e *domain.SubEntry) bool { return e.ID == id }), nil
	}
	insert := func(ordering int64) error {
		entry.Ordering = &ordering
		return tx.CreateSubEntry(ctx, entry)
	}

	if err := place(ctx, tx, store.SubEntryScope(kind), activityID, p, isSibling, insert); err != nil {
		return nil, storeError(err, notFoundMessage(kind))
	}
	return entry, nil
}

// updateSubEntry applies text and checked to an owned entry.
func updateSubEntry(
	ctx context.Context,
	tx store.Store,
	kind domain.SubEntryKind,
	userID, id int64,
	text SubEntryText,
	checked *bool,
) (*domain.SubEntry, error) {
	entry, err := tx.GetSubEntry(ctx, kind, id, userID)
	if err != nil {
		return nil, storeError(err, notFoundMessage(kind))
	}

	if value := text.Text(kind); value != nil {
		entry.Text = *value
	}
	if checked != nil {
		if !kind.Checkable() {
			return nil, domainerrors.Validationf("%s cannot be checked", kind)
		}
		entry.Checked = *checked
	}

	if err := tx.UpdateSubEntry(ctx, entry); err != nil {
		return nil, storeError(err, notFoundMessage(kind))
	}
	return entry, nil
}

// provisionSubEntries gives a new activity one blank entry of every kind.
func provisionSubEntries(ctx context.Context, tx store.Store, activity *domain.Activity) error {
	for _, kind := range domain.SubEntryKinds {
		ordering, err := AssignInitialOrdering(ctx, tx, store.SubEntryScope(kind), activity.ID)
		if err != nil {
			return fmt.Errorf("assign %s ordering: %w", kind, err)
		}
		entry := &domain.SubEntry{Kind: kind, ActivityID: activity.ID, Ordering: &ordering}
		if err := tx.CreateSubEntry(ctx, entry); err != nil {
			return fmt.Errorf("provision %s: %w", kind, err)
		}
		activity.SetEntries(kind, []*domain.SubEntry{entry})
	}
	return nil
}

func requireOwnedActivity(ctx context.Context, tx store.Store, userID, activityID int64) error {
	owned, err := tx.FilterOwnedActivities(ctx, userID, []int64{activityID})
	if err != nil {
		return fmt.Errorf("check activity owner: %w", err)
	}
	if len(owned) == 0 {
		return domainerrors.NotFound("activity not found")
	}
	return nil
}

func notFoundMessage(kind domain.SubEntryKind) string {
	return kind.Field() + " not found"
}
