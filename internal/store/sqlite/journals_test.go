package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

func TestJournal_CreateGetUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "journal@example.com", false)

	j, tbl := makeJournal(t, s, u.ID)

	got, err := s.GetJournal(ctx, j.ID, u.ID)
	if err != nil {
		t.Fatalf("GetJournal: %v", err)
	}
	if got.Name == nil || *got.Name != "Untitled" {
		t.Errorf("Name = %v", got.Name)
	}
	if got.Description != nil || got.CurrentTable != nil {
		t.Errorf("expected nil description and current table, got %+v", got)
	}

	desc := "notes"
	got.Description = &desc
	got.CurrentTable = &tbl.ID
	if err := s.UpdateJournal(ctx, got); err != nil {
		t.Fatalf("UpdateJournal: %v", err)
	}

	got, _ = s.GetJournal(ctx, j.ID, u.ID)
	if got.Description == nil || *got.Description != "notes" {
		t.Errorf("Description = %v", got.Description)
	}
	if got.CurrentTable == nil || *got.CurrentTable != tbl.ID {
		t.Errorf("CurrentTable = %v, want %d", got.CurrentTable, tbl.ID)
	}
}

func TestGetJournal_OtherUserIsNotFound(t *testing.T) {
	s := newTestStore(t)
	owner := makeUser(t, s, "owner@example.com", false)
	other := makeUser(t, s, "other@example.com", false)
	j, _ := makeJournal(t, s, owner.ID)

	_, err := s.GetJournal(context.Background(), j.ID, other.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJournalTables_ListAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "tables@example.com", false)
	other := makeUser(t, s, "tables-other@example.com", false)
	j, first := makeJournal(t, s, u.ID)
	makeJournal(t, s, other.ID)

	second := &domain.JournalTable{JournalID: j.ID, Name: "Daily entries"}
	if err := s.CreateJournalTable(ctx, second); err != nil {
		t.Fatalf("CreateJournalTable: %v", err)
	}

	tables, err := s.ListJournalTables(ctx, j.ID)
	if err != nil {
		t.Fatalf("ListJournalTables: %v", err)
	}
	if len(tables) != 2 || tables[0].ID != first.ID || tables[1].ID != second.ID {
		t.Fatalf("unexpected tables: %+v", tables)
	}

	mine, _ := s.ListJournalTablesForUser(ctx, u.ID)
	if len(mine) != 2 {
		t.Errorf("ListJournalTablesForUser = %d tables, want 2", len(mine))
	}

	if _, err := s.GetJournalTable(ctx, first.ID, other.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-owner, got %v", err)
	}

	makeActivity(t, s, first.ID, "cascade me", 1)
	if err := s.DeleteJournalTable(ctx, first.ID); err != nil {
		t.Fatalf("DeleteJournalTable: %v", err)
	}
	left, _ := s.ListActivities(ctx, u.ID)
	if len(left) != 0 {
		t.Errorf("activities should cascade with their table, %d left", len(left))
	}
}

func TestUpdateJournalTable_KeepsJournal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := makeUser(t, s, "rename@example.com", false)
	src, tbl := makeJournal(t, s, u.ID)
	dst, _ := makeJournal(t, s, u.ID)

	tbl.Name = "Renamed"
	tbl.JournalID = dst.ID
	if err := s.UpdateJournalTable(ctx, tbl); err != nil {
		t.Fatalf("UpdateJournalTable: %v", err)
	}

	got, err := s.GetJournalTable(ctx, tbl.ID, u.ID)
	if err != nil {
		t.Fatalf("GetJournalTable: %v", err)
	}
	if got.Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", got.Name)
	}
	if got.JournalID != src.ID {
		t.Errorf("JournalID = %d, want %d", got.JournalID, src.ID)
	}
}
