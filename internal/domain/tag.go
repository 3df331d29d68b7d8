package domain

import "strings"

// Tag is a user-owned label with a color and matching CSS class.
// Tags owned by a superuser are global defaults visible to everyone.
type Tag struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"tag_user"`
	Name   string `json:"tag_name"`
	Color  string `json:"tag_color"`
	Class  string `json:"tag_class"`
}

// TagPalette is one allowed color with its class.
type TagPalette struct {
	Color string
	Class string
}

// TagPalettes lists the allowed colors in display order.
var TagPalettes = []TagPalette{
	{"OFF GRAY", "color-gray"},
	{"MIDNIGHT GREEN", "color-green"},
	{"WINE RED", "color-red"},
	{"ARMY GREEN", "color-army-green"},
	{"YELLOW", "color-yellow"},
	{"LIGHT BLUE", "color-blue"},
	{"PEACH", "color-peach"},
	{"TEAL", "color-teal"},
	{"PURPLE", "color-purple"},
	{"BROWN", "color-brown"},
}

// TagColorsMatch reports whether class belongs to color: the last word of the
// color, lower-cased, must appear in the class ("WINE RED" matches "color-red").
func TagColorsMatch(color, class string) bool {
	fields := strings.Fields(color)
	if len(fields) == 0 || class == "" {
		return false
	}
	return strings.Contains(class, strings.ToLower(fields[len(fields)-1]))
}
