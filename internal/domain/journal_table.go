package domain

import (
	"fmt"
	"slices"
)

// DefaultTableName is used when a table is created without a name.
const DefaultTableName = "Table"

// JournalTable is a named view inside a journal holding activities.
// Tables display in id order.
type JournalTable struct {
	ID        int64  `json:"id"`
	JournalID int64  `json:"journal"`
	Name      string `json:"table_name"`
}

// JournalTableDetail is a table with its activities in display order.
type JournalTableDetail struct {
	JournalTable
	Activities []*Activity `json:"activities"`
}

// NextTableName returns base if it is free, otherwise the first free "base (N)" for N >= 1.
func NextTableName(base string, existing []string) string {
	if !slices.Contains(existing, base) {
		return base
	}
	return NextCopyName(base, existing)
}

// NextCopyName returns the first "base (N)" for N >= 1 not present in existing.
// Duplicated tables are always numbered, even when base itself is free.
func NextCopyName(base string, existing []string) string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		if !slices.Contains(existing, candidate) {
			return candidate
		}
	}
}
