package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

func makeTag(t *testing.T, s *Store, userID int64, name string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{UserID: userID, Name: name, Color: "TEAL", Class: "color-teal"}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("CreateTag(%s): %v", name, err)
	}
	return tag
}

func TestCreateTag_UniquePerOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "tags@example.com", false)
	admin := makeUser(t, s, "admin@example.com", true)

	makeTag(t, s, u.ID, "Daily")
	makeTag(t, s, admin.ID, "Daily")

	err := s.CreateTag(ctx, &domain.Tag{UserID: u.ID, Name: "Daily", Color: "TEAL", Class: "color-teal"})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestTags_Visibility(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "viewer@example.com", false)
	other := makeUser(t, s, "stranger@example.com", false)
	admin := makeUser(t, s, "root@example.com", true)

	own := makeTag(t, s, u.ID, "Mine")
	global := makeTag(t, s, admin.ID, "Global")
	private := makeTag(t, s, other.ID, "Private")

	visible, err := s.ListVisibleTags(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListVisibleTags: %v", err)
	}
	if len(visible) != 2 || visible[0].ID != own.ID || visible[1].ID != global.ID {
		t.Errorf("visible = %+v", visible)
	}

	if _, err := s.GetVisibleTag(ctx, global.ID, u.ID); err != nil {
		t.Errorf("superuser tag should be visible: %v", err)
	}
	if _, err := s.GetVisibleTag(ctx, private.ID, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's tag, got %v", err)
	}

	ids, _ := s.FilterVisibleTags(ctx, u.ID, []int64{private.ID, global.ID, own.ID})
	if len(ids) != 2 {
		t.Errorf("FilterVisibleTags = %v", ids)
	}
	ids, _ = s.FilterOwnedTags(ctx, u.ID, []int64{private.ID, global.ID, own.ID})
	if len(ids) != 1 || ids[0] != own.ID {
		t.Errorf("FilterOwnedTags = %v", ids)
	}

	globals, _ := s.ListSuperuserTags(ctx)
	if len(globals) != 1 || globals[0].Name != "Global" {
		t.Errorf("ListSuperuserTags = %+v", globals)
	}
	owned, _ := s.ListTagsByOwner(ctx, u.ID)
	if len(owned) != 1 {
		t.Errorf("ListTagsByOwner = %+v", owned)
	}
}

func TestUpdateAndDeleteTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "edit@example.com", false)
	_, tbl := makeJournal(t, s, u.ID)

	tag := makeTag(t, s, u.ID, "Work")
	makeTag(t, s, u.ID, "Home")

	tag.Name = "Home"
	if err := s.UpdateTag(ctx, tag); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("rename onto existing name: expected ErrAlreadyExists, got %v", err)
	}

	tag.Name = "Office"
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}

	a := makeActivity(t, s, tbl.ID, "standup", 1)
	if err := s.SetActivityTags(ctx, a.ID, []int64{tag.ID}); err != nil {
		t.Fatalf("SetActivityTags: %v", err)
	}

	n, err := s.DeleteTags(ctx, []int64{tag.ID})
	if err != nil || n != 1 {
		t.Fatalf("DeleteTags = %d, %v", n, err)
	}

	got, _ := s.GetActivity(ctx, a.ID, u.ID)
	if len(got.Tags) != 0 {
		t.Errorf("tag links should cascade, got %+v", got.Tags)
	}
}
