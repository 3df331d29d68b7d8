// Package id generates the string identifiers used for sessions and token ids.
// Journal entities use integer row ids assigned by the database.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Generate creates a prefixed NanoID, e.g. "session-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics on entropy failure.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Letters returns n random ASCII letters. Used to derive usernames at signup.
func Letters(n int) (string, error) {
	s, err := gonanoid.Generate(letters, n)
	if err != nil {
		return "", fmt.Errorf("generate letters: %w", err)
	}
	return s, nil
}
