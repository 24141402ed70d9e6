package cart

import (
	"encoding/json"

	"storefront/internal/domain"
)

// decodeEntries parses a stored cart value. The second return
// distinguishes a successfully parsed value from the cold default handed
// back for malformed data, so callers can log the difference instead of
// silently swallowing it.
func decodeEntries(raw string) (entries []domain.CartEntry, parsed bool) {
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false
	}
	// Stored data predating the quantity floor may carry zero or
	// negative quantities; clamp on the way in.
	for i := range entries {
		if entries[i].Quantity < 1 {
			entries[i].Quantity = 1
		}
	}
	return entries, true
}
