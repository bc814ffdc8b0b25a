package types

import (
	"sort"

	"github.com/google/uuid"
)

// AddonSelection snapshots a chosen addon on a cart line. The price is copied
// at selection time so later menu edits do not move the line price.
type AddonSelection struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
}

// AddonSelections is stored as a JSON column on cart lines.
type AddonSelections []AddonSelection

// TotalCents sums the addon prices.
func (a AddonSelections) TotalCents() int {
	total := 0
	for _, addon := range a {
		total += addon.PriceCents
	}
	return total
}

// SortedIDs returns the addon ids in lexicographic order, used to build the
// merge key for a cart line.
func (a AddonSelections) SortedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(a))
	for i, addon := range a {
		ids[i] = addon.ID
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
