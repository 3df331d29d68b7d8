package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/journalapp/journal-server/internal/domain"
	domainerrors "github.com/journalapp/journal-server/internal/errors"
	"github.com/journalapp/journal-server/internal/store"
)

// TagService manages user tags. Reads include superuser tags; writes are
// limited to tags the caller owns.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: logger}
}

// TagPatch updates one tag in a batch. Absent fields are left alone.
type TagPatch struct {
	ID    int64   `json:"id" validate:"required"`
	Name  *string `json:"tag_name,omitempty" validate:"omitempty,max=300"`
	Color *string `json:"tag_color,omitempty" validate:"omitempty,max=30"`
	Class *string `json:"tag_class,omitempty" validate:"omitempty,max=30"`
}

// ListTags returns the user's tags followed by the global ones, by id.
func (s *TagService) ListTags(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	tags, err := s.store.ListVisibleTags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// GetTag returns a tag visible to the user.
func (s *TagService) GetTag(ctx context.Context, userID, tagID int64) (*domain.Tag, error) {
	tag, err := s.store.GetVisibleTag(ctx, tagID, userID)
	if err != nil {
		return nil, storeError(err, "tag not found")
	}
	return tag, nil
}

// CreateTag validates and stores one tag. Any rule failure aborts.
func (s *TagService) CreateTag(ctx context.Context, userID int64, in TagInput) (*domain.Tag, error) {
	existing, err := s.ownedNames(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	tag, err := validateNewTag(userID, in, existing)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, storeError(err, "tag not created")
	}

	if s.logger != nil {
		s.logger.Info("tag created", "tag_id", tag.ID, "user_id", userID, "tag_name", tag.Name)
	}
	return tag, nil
}

// UpdateTag applies a patch to one owned tag.
func (s *TagService) UpdateTag(ctx context.Context, userID, tagID int64, patch TagPatch) (*domain.Tag, error) {
	patch.ID = tagID

	var tag *domain.Tag
	err := s.store.InTx(ctx, func(tx store.Store) error {
		var err error
		tag, err = s.applyPatch(ctx, tx, userID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag deletes one owned tag.
func (s *TagService) DeleteTag(ctx context.Context, userID, tagID int64) error {
	return s.store.InTx(ctx, func(tx store.Store) error {
		owned, err := tx.FilterOwnedTags(ctx, userID, []int64{tagID})
		if err != nil {
			return fmt.Errorf("check tag owner: %w", err)
		}
		if len(owned) == 0 {
			return domainerrors.NotFound("tag not found")
		}
		_, err = tx.DeleteTags(ctx, owned)
		return err
	})
}

// BatchCreateTags creates every valid entry and silently drops the rest:
// missing names, bad color/class pairs, names the user already has, and
// names repeated earlier in the same batch.
func (s *TagService) BatchCreateTags(ctx context.Context, userID int64, inputs []TagInput) ([]*domain.Tag, error) {
	created := []*domain.Tag{}
	err := s.store.InTx(ctx, func(tx store.Store) error {
		existing, err := s.ownedNames(ctx, tx, userID)
		if err != nil {
			return err
		}

		for i, in := range inputs {
			tag, err := validateNewTag(userID, in, existing)
			if err != nil {
				if s.logger != nil {
					s.logger.Debug("batch tag skipped", "index", i, "reason", err.Error())
				}
				continue
			}
			if err := tx.CreateTag(ctx, tag); err != nil {
				return storeError(err, "tag not created")
			}
			existing = append(existing, tag.Name)
			created = append(created, tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("tags batch created", "user_id", userID, "count", len(created), "requested", len(inputs))
	}
	return created, nil
}

// BatchUpdateTags applies every patch in one transaction. Ids must be
// distinct and owned; any failing row aborts the batch.
func (s *TagService) BatchUpdateTags(ctx context.Context, userID int64, patches []TagPatch) ([]*domain.Tag, error) {
	ids := make([]int64, len(patches))
	for i, p := range patches {
		ids[i] = p.ID
	}
	if err := requireUniqueIDs(ids); err != nil {
		return nil, err
	}

	updated := []*domain.Tag{}
	err := s.store.InTx(ctx, func(tx store.Store) error {
		owned, err := tx.FilterOwnedTags(ctx, userID, ids)
		if err != nil {
			return fmt.Errorf("check tag owner: %w", err)
		}
		if !containsAll(owned, ids) {
			return domainerrors.NotFound("tag not found")
		}

		for _, p := range patches {
			tag, err := s.applyPatch(ctx, tx, userID, p)
			if err != nil {
				return err
			}
			updated = append(updated, tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// BatchDeleteTags deletes the owned tags among ids. Others are ignored.
func (s *TagService) BatchDeleteTags(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if err := requireUniqueIDs(ids); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.store.InTx(ctx, func(tx store.Store) error {
		owned, err := tx.FilterOwnedTags(ctx, userID, ids)
		if err != nil {
			return fmt.Errorf("check tag owner: %w", err)
		}
		deleted, err = tx.DeleteTags(ctx, owned)
		return err
	})
	if err != nil {
		return 0, err
	}

	if s.logger != nil {
		s.logger.Info("tags batch deleted", "user_id", userID, "count", deleted)
	}
	return deleted, nil
}

// CopySuperuserTags gives the user a copy of every global tag. Names the user
// already has are skipped; other failures are logged and skipped.
func (s *TagService) CopySuperuserTags(ctx context.Context, userID int64) int {
	globals, err := s.store.ListSuperuserTags(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("global tags not copied", "user_id", userID, "error", err)
		}
		return 0
	}

	copied := 0
	for _, g := range globals {
		if g.UserID == userID {
			continue
		}
		tag := &domain.Tag{UserID: userID, Name: g.Name, Color: g.Color, Class: g.Class}
		err := s.store.CreateTag(ctx, tag)
		switch {
		case err == nil:
			copied++
		case errors.Is(err, store.ErrAlreadyExists):
		default:
			if s.logger != nil {
				s.logger.Warn("global tag not copied",
					"user_id", userID,
					"tag_id", g.ID,
					"error", err,
				)
			}
		}
	}
	return copied
}

// SeedDefaultTags creates one tag per palette entry for the first superuser,
// skipping names that already exist. It returns the tags created.
func (s *TagService) SeedDefaultTags(ctx context.Context) ([]*domain.Tag, error) {
	admin, err := s.store.FirstSuperuser(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("no superuser exists; create one first")
		}
		return nil, fmt.Errorf("load superuser: %w", err)
	}

	inputs := make([]TagInput, len(domain.TagPalettes))
	for i, p := range domain.TagPalettes {
		inputs[i] = TagInput{Name: p.Color, Color: p.Color, Class: p.Class}
	}
	return s.BatchCreateTags(ctx, admin.ID, inputs)
}

// applyPatch validates and stores one tag update inside tx.
func (s *TagService) applyPatch(ctx context.Context, tx store.Store, userID int64, p TagPatch) (*domain.Tag, error) {
	if err := validate.Validate(p); err != nil {
		return nil, err
	}

	owned, err := tx.FilterOwnedTags(ctx, userID, []int64{p.ID})
	if err != nil {
		return nil, fmt.Errorf("check tag owner: %w", err)
	}
	if len(owned) == 0 {
		return nil, domainerrors.NotFound("tag not found")
	}
	tag, err := tx.GetVisibleTag(ctx, p.ID, userID)
	if err != nil {
		return nil, storeError(err, "tag not found")
	}

	if p.Name != nil {
		name, err := FormatTagName(*p.Name)
		if err != nil {
			return nil, err
		}
		existing, err := s.ownedNames(ctx, tx, userID)
		if err != nil {
			return nil, err
		}
		if err := ValidateUniqueForUser(existing, name, false, tag.Name); err != nil {
			return nil, err
		}
		tag.Name = name
	}
	if p.Color != nil {
		tag.Color = *p.Color
	}
	if p.Class != nil {
		tag.Class = *p.Class
	}
	if err := ValidateColorClassPair(tag.Color, tag.Class); err != nil {
		return nil, err
	}

	if err := tx.UpdateTag(ctx, tag); err != nil {
		return nil, storeError(err, "tag not found")
	}
	return tag, nil
}

func (s *TagService) ownedNames(ctx context.Context, st store.Store, userID int64) ([]string, error) {
	tags, err := st.ListTagsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names, nil
}
