package domain

// DefaultJournalName is the name of the journal created at signup.
const DefaultJournalName = "Untitled"

// DefaultJournalDescription is the description of the journal created at signup.
const DefaultJournalDescription = `
Document your life - daily happenings, special occasions,
and reflections on your goals. Categorize entries with
tags and automatically capture the date.

↓ Click through the different database tabs to filter
entries by a specific category such as daily or personal.
`

// DefaultTableNames are the tables every new journal starts with, in display order.
var DefaultTableNames = []string{"All entries", "Daily entries", "Personal entries"}

// Journal is a user's collection of tables.
// CurrentTable is a plain id, not a foreign key; the service keeps it pointing
// at one of the journal's own tables or nil.
type Journal struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	Name         *string `json:"journal_name"`
	Description  *string `json:"journal_description"`
	CurrentTable *int64  `json:"current_table"`
}

// JournalDetail is a journal with its tables and the tags visible to its owner.
type JournalDetail struct {
	Journal
	Tables []*JournalTable `json:"journal_tables"`
	Tags   []*Tag          `json:"tags"`
}
