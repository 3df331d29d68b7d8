package domain

// OrderingItem assigns a position to one sibling.
type OrderingItem struct {
	ID       int64 `json:"id"`
	Ordering int64 `json:"ordering"`
}

// OrderingIDs returns the ids named in items.
func OrderingIDs(items []OrderingItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
