package service

import (
	"context"

	"github.com/journalapp/journal-server/internal/domain"
	"github.com/journalapp/journal-server/internal/store"
)

// ResolveCurrentTable picks the journal's current table. A requested id that
// names one of the journal's tables wins; anything else, including a table of
// another journal, falls back to the journal's first table by id, or nil when
// the journal has none.
func ResolveCurrentTable(ctx context.Context, tx store.Store, journal *domain.Journal, requested *int64) (*int64, error) {
	tables, err := tx.ListJournalTables(ctx, journal.ID)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, nil
	}

	if requested != nil {
		for _, t := range tables {
			if t.ID == *requested {
				id := t.ID
				return &id, nil
			}
		}
	}

	first := tables[0].ID
	return &first, nil
}
