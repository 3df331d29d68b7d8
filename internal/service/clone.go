package service

import (
	"context"
	"fmt"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

// CloneActivity copies src into targetTableID. src must be fully loaded; its
// sub-entries and tag ids are read before anything is written. The copy and
// each copied sub-entry get trailing orderings in their new scopes, assigned
// in source order. Text and checked state are kept; tags are shared.
func CloneActivity(ctx context.Context, tx store.Store, src *domain.Activity, targetTableID int64) (*domain.Activity, error) {
	entries := make(map[domain.SubEntryKind][]domain.SubEntry, len(domain.SubEntryKinds))
	for _, kind := range domain.SubEntryKinds {
		for _, e := range src.Entries(kind) {
			entries[kind] = append(entries[kind], *e)
		}
	}
	tagIDs := src.TagIDs()

	ordering, err := AssignInitialOrdering(ctx, tx, store.ActivityScope, targetTableID)
	if err != nil {
		return nil, fmt.Errorf("assign ordering: %w", err)
	}

	clone := &domain.Activity{
		JournalTableID: &targetTableID,
		Name:           src.Name,
		Ordering:       &ordering,
	}
	if err := tx.CreateActivity(ctx, clone); err != nil {
		return nil, fmt.Errorf("insert activity copy: %w", err)
	}

	for _, kind := range domain.SubEntryKinds {
		copies := make([]*domain.SubEntry, 0, len(entries[kind]))
		for _, e := range entries[kind] {
			pos, err := AssignInitialOrdering(ctx, tx, store.SubEntryScope(kind), clone.ID)
			if err != nil {
				return nil, fmt.Errorf("assign %s ordering: %w", kind, err)
			}
			cp := &domain.SubEntry{
				Kind:       kind,
				ActivityID: clone.ID,
				Text:       e.Text,
				Checked:    e.Checked,
				Ordering:   &pos,
			}
			if err := tx.CreateSubEntry(ctx, cp); err != nil {
				return nil, fmt.Errorf("insert %s copy: %w", kind, err)
			}
			copies = append(copies, cp)
		}
		clone.SetEntries(kind, copies)
	}

	if err := tx.SetActivityTags(ctx, clone.ID, tagIDs); err != nil {
		return nil, fmt.Errorf("attach tags: %w", err)
	}
	clone.Tags = src.Tags

	return clone, nil
}

// CloneJournalTable creates a table named name in journalID and copies every
// activity of src into it in display order.
func CloneJournalTable(ctx context.Context, tx store.Store, src *domain.JournalTable, journalID int64, name string) (*domain.JournalTable, error) {
	activities, err := tx.ListActivitiesByTable(ctx, src.ID)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	table := &domain.JournalTable{JournalID: journalID, Name: name}
	if err := tx.CreateJournalTable(ctx, table); err != nil {
		return nil, fmt.Errorf("insert table copy: %w", err)
	}

	for _, a := range activities {
		if _, err := CloneActivity(ctx, tx, a, table.ID); err != nil {
			return nil, fmt.Errorf("clone activity %d: %w", a.ID, err)
		}
	}
	return table, nil
}
