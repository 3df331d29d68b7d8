package domain

import "time"

// Activity is a journal entry. It lives in one table, carries tags, and owns
// four ordered lists of sub-entries.
type Activity struct {
	ID             int64     `json:"id"`
	JournalTableID *int64    `json:"journal_table"`
	Name           string    `json:"name"`
	Created        time.Time `json:"created"`
	Ordering       *int64    `json:"ordering"`

	Tags        []*Tag      `json:"tags"`
	Intentions  []*SubEntry `json:"intentions"`
	Happenings  []*SubEntry `json:"happenings"`
	GratefulFor []*SubEntry `json:"grateful_for"`
	ActionItems []*SubEntry `json:"action_items"`
}

// Entries returns the sub-entries of the given kind.
func (a *Activity) Entries(kind SubEntryKind) []*SubEntry {
	switch kind {
	case KindIntention:
		return a.Intentions
	case KindHappening:
		return a.Happenings
	case KindGratefulFor:
		return a.GratefulFor
	case KindActionItem:
		return a.ActionItems
	}
	return nil
}

// SetEntries replaces the sub-entries of the given kind.
func (a *Activity) SetEntries(kind SubEntryKind, entries []*SubEntry) {
	switch kind {
	case KindIntention:
		a.Intentions = entries
	case KindHappening:
		a.Happenings = entries
	case KindGratefulFor:
		a.GratefulFor = entries
	case KindActionItem:
		a.ActionItems = entries
	}
}

// TagIDs returns the ids of the activity's tags.
func (a *Activity) TagIDs() []int64 {
	ids := make([]int64, 0, len(a.Tags))
	for _, t := range a.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}
