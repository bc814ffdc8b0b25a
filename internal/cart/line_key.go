package cart

import (
	"strings"

	"github.com/google/uuid"
)

// BuildLineKey derives the merge key for a configured cart line. Two adds with
// the same item, the same variant, and the same addon set (order-insensitive)
// produce the same key and merge into one line; any difference in
// configuration yields a distinct key.
func BuildLineKey(menuItemID uuid.UUID, variantID *uuid.UUID, sortedAddonIDs []uuid.UUID) string {
	var b strings.Builder
	b.WriteString(menuItemID.String())
	b.WriteByte('|')
	if variantID != nil {
		b.WriteString(variantID.String())
	}
	b.WriteByte('|')
	for i, id := range sortedAddonIDs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	return b.String()
}
