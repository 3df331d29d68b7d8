package domain

import (
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// SubEntryKind names one of the four free-text lists an activity owns.
type SubEntryKind string

// Sub-entry kinds. The value is the payload key used on activities.
const (
	KindIntention   SubEntryKind = "intentions"
	KindHappening   SubEntryKind = "happenings"
	KindGratefulFor SubEntryKind = "grateful_for"
	KindActionItem  SubEntryKind = "action_items"
)

// SubEntryKinds lists every kind in the order they are provisioned and cloned.
var SubEntryKinds = []SubEntryKind{KindIntention, KindHappening, KindGratefulFor, KindActionItem}

// ParseSubEntryKind accepts a payload key ("grateful_for") or route segment ("grateful-for").
func ParseSubEntryKind(s string) (SubEntryKind, error) {
	for _, k := range SubEntryKinds {
		if s == string(k) || s == k.Route() {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sub-entry kind %q", s)
}

// Table returns the sqlite table storing this kind.
func (k SubEntryKind) Table() string {
	return string(k)
}

// Field returns the name of the text column and JSON field.
func (k SubEntryKind) Field() string {
	switch k {
	case KindIntention:
		return "intention"
	case KindHappening:
		return "happening"
	case KindGratefulFor:
		return "grateful_for"
	case KindActionItem:
		return "action_item"
	}
	return ""
}

// Route returns the URL path segment for this kind.
func (k SubEntryKind) Route() string {
	switch k {
	case KindGratefulFor:
		return "grateful-for"
	case KindActionItem:
		return "action-items"
	}
	return string(k)
}

// Checkable reports whether entries of this kind carry a checked flag.
func (k SubEntryKind) Checkable() bool {
	return k == KindActionItem
}

// SubEntry is one line of an activity's intentions, happenings, gratitude notes, or action items.
type SubEntry struct {
	ID         int64        `json:"id"`
	Kind       SubEntryKind `json:"-"`
	ActivityID int64        `json:"activity"`
	Text       string       `json:"text"`
	Checked    bool         `json:"checked"`
	Ordering   *int64       `json:"ordering"`
}

// MarshalJSON writes the text under the kind's field name ("intention",
// "action_item", ...). checked is written for action items only.
func (e SubEntry) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":       e.ID,
		"activity": e.ActivityID,
		"ordering": e.Ordering,
	}
	field := e.Kind.Field()
	if field == "" {
		field = "text"
	}
	out[field] = e.Text
	if e.Kind.Checkable() {
		out["checked"] = e.Checked
	}
	return json.Marshal(out)
}

// Schema describes the wire shape written by MarshalJSON: one object per
// kind, each with its own text field.
func (SubEntry) Schema(_ huma.Registry) *huma.Schema {
	variants := make([]*huma.Schema, 0, len(SubEntryKinds))
	for _, kind := range SubEntryKinds {
		variants = append(variants, kind.Schema())
	}
	return &huma.Schema{
		Description: "An intention, happening, gratitude note, or action item",
		OneOf:       variants,
	}
}

// Schema returns the object schema for entries of this kind.
func (k SubEntryKind) Schema() *huma.Schema {
	field := k.Field()
	props := map[string]*huma.Schema{
		"id":       {Type: huma.TypeInteger, Format: "int64"},
		"activity": {Type: huma.TypeInteger, Format: "int64", Description: "Owning activity ID"},
		"ordering": {Type: huma.TypeInteger, Format: "int64", Nullable: true},
		field:      {Type: huma.TypeString},
	}
	required := []string{"id", "activity", "ordering", field}
	if k.Checkable() {
		props["checked"] = &huma.Schema{Type: huma.TypeBoolean}
		required = append(required, "checked")
	}
	return &huma.Schema{
		Type:                 huma.TypeObject,
		Title:                field,
		Properties:           props,
		Required:             required,
		AdditionalProperties: false,
	}
}
