package service

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/journalapp/journal-server/internal/domain"
	domainerrors "github.com/journalapp/journal-server/internal/errors"
)

// Tag rules are strict for single create and update: the first failure
// aborts the request. Batch create calls the same checks and drops entries
// that fail instead.

// FormatTagName normalizes raw to NFC, trims it, and capitalizes it:
// "dAILY" becomes "Daily".
func FormatTagName(raw string) (string, error) {
	name := strings.TrimSpace(norm.NFC.String(raw))
	if name == "" {
		return "", domainerrors.Validation(domainerrors.MsgTagNameMissing)
	}

	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + strings.ToLower(name[size:]), nil
}

// ValidateColorClassPair requires both values, a known color and class, and
// that the class belongs to the color.
func ValidateColorClassPair(color, class string) error {
	if color == "" || class == "" {
		return domainerrors.Validation(domainerrors.MsgTagPairMissing)
	}

	knownColor := slices.ContainsFunc(domain.TagPalettes, func(p domain.TagPalette) bool { return p.Color == color })
	knownClass := slices.ContainsFunc(domain.TagPalettes, func(p domain.TagPalette) bool { return p.Class == class })
	if !knownColor {
		return domainerrors.Validationf("%q is not a valid tag_color", color)
	}
	if !knownClass {
		return domainerrors.Validationf("%q is not a valid tag_class", class)
	}

	if !domain.TagColorsMatch(color, class) {
		return domainerrors.Validation(domainerrors.MsgTagPairInvalid)
	}
	return nil
}

// ValidateUniqueForUser checks name against the names the user already owns.
// currentName is the tag's name before an update and is ignored on create.
func ValidateUniqueForUser(existing []string, name string, isCreate bool, currentName string) error {
	if !isCreate && name == currentName {
		return nil
	}
	if slices.Contains(existing, name) {
		return domainerrors.Validation(domainerrors.MsgExistingTag)
	}
	return nil
}

// TagInput is the writable part of a tag.
type TagInput struct {
	Name  string `json:"tag_name" validate:"max=300"`
	Color string `json:"tag_color" validate:"max=30"`
	Class string `json:"tag_class" validate:"max=30"`
}

// validateNewTag runs every creation rule and returns the tag to insert.
func validateNewTag(userID int64, in TagInput, existing []string) (*domain.Tag, error) {
	if err := validate.Validate(in); err != nil {
		return nil, err
	}
	name, err := FormatTagName(in.Name)
	if err != nil {
		return nil, err
	}
	if err := ValidateUniqueForUser(existing, name, true, ""); err != nil {
		return nil, err
	}
	if err := ValidateColorClassPair(in.Color, in.Class); err != nil {
		return nil, err
	}
	return &domain.Tag{UserID: userID, Name: name, Color: in.Color, Class: in.Class}, nil
}
