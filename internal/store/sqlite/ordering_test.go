package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

func TestMaxOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "max@example.com", false)
	_, tbl := makeJournal(t, s, u.ID)

	_, found, err := s.MaxOrdering(ctx, store.ActivityScope, tbl.ID)
	if err != nil {
		t.Fatalf("MaxOrdering: %v", err)
	}
	if found {
		t.Error("empty scope should report not found")
	}

	makeActivity(t, s, tbl.ID, "a", 4)
	makeActivity(t, s, tbl.ID, "b", 9)

	highest, found, err := s.MaxOrdering(ctx, store.ActivityScope, tbl.ID)
	if err != nil {
		t.Fatalf("MaxOrdering: %v", err)
	}
	if !found || highest != 9 {
		t.Errorf("MaxOrdering = %d, %v; want 9, true", highest, found)
	}
}

func TestSetOrdering_ScopedToParent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "scope@example.com", false)
	j, tbl := makeJournal(t, s, u.ID)

	other := &domain.JournalTable{JournalID: j.ID, Name: "Other"}
	if err := s.CreateJournalTable(ctx, other); err != nil {
		t.Fatalf("CreateJournalTable: %v", err)
	}

	a := makeActivity(t, s, tbl.ID, "a", 1)
	b := makeActivity(t, s, other.ID, "b", 1)

	if err := s.SetOrdering(ctx, store.ActivityScope, tbl.ID, a.ID, 5); err != nil {
		t.Fatalf("SetOrdering: %v", err)
	}
	if err := s.SetOrdering(ctx, store.ActivityScope, tbl.ID, b.ID, 5); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound outside scope, got %v", err)
	}

	got, _ := s.GetActivity(ctx, b.ID, u.ID)
	if *got.Ordering != 1 {
		t.Errorf("out-of-scope row changed to %d", *got.Ordering)
	}

	entryScope := store.SubEntryScope(domain.KindActionItem)
	one := int64(1)
	e := &domain.SubEntry{Kind: domain.KindActionItem, ActivityID: a.ID, Ordering: &one}
	if err := s.CreateSubEntry(ctx, e); err != nil {
		t.Fatalf("CreateSubEntry: %v", err)
	}
	if err := s.SetOrdering(ctx, entryScope, a.ID, e.ID, 3); err != nil {
		t.Fatalf("SetOrdering sub-entry: %v", err)
	}
	highest, _, _ := s.MaxOrdering(ctx, entryScope, a.ID)
	if highest != 3 {
		t.Errorf("sub-entry max = %d, want 3", highest)
	}
}
