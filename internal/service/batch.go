package service

import (
	domainerrors "github.com/journalapp/journal-server/internal/errors"
)

// BatchFailure reports one item of a batch that could not be applied.
type BatchFailure struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// requireUniqueIDs rejects a batch that names the same row twice.
func requireUniqueIDs(groups ...[]int64) error {
	seen := make(map[int64]struct{})
	for _, ids := range groups {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				return domainerrors.Validation(domainerrors.MsgDuplicateIDs)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

// uniqueIDs drops repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// containsAll reports whether every id in want appears in have.
func containsAll(have, want []int64) bool {
	set := make(map[int64]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
