package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextTableName(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		existing []string
		want     string
	}{
		{"free base", "Table", nil, "Table"},
		{"base taken", "Table", []string{"Table"}, "Table (1)"},
		{"first suffix taken", "Table", []string{"Table", "Table (1)"}, "Table (2)"},
		{"gap is reused", "Table", []string{"Table", "Table (2)"}, "Table (1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextTableName(tt.base, tt.existing))
		})
	}
}

func TestNextCopyName(t *testing.T) {
	assert.Equal(t, "Daily entries (1)", NextCopyName("Daily entries", []string{"Daily entries"}))
	assert.Equal(t, "Daily entries (2)", NextCopyName("Daily entries", []string{"Daily entries", "Daily entries (1)"}))
}
