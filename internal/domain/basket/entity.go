package basket

import (
	"time"

	"github.com/google/uuid"
)

// Hold is a shopper's temporary claim on a lot. Creating one must flip the
// lot's reserved flag in the same transaction; the repository layer
// enforces that pairing.
type Hold struct {
	ID        uuid.UUID
	ShopperID uuid.UUID
	LotID     uuid.UUID
	CreatedAt time.Time
}

// Expired reports whether the hold's TTL has elapsed at now.
func (h Hold) Expired(ttl time.Duration, now time.Time) bool {
	return now.Sub(h.CreatedAt) > ttl
}

// PartitionExpired splits holds into those still live and those whose TTL
// has elapsed. Order within each partition follows the input order.
func PartitionExpired(holds []Hold, ttl time.Duration, now time.Time) (kept, expired []Hold) {
	for _, h := range holds {
		if h.Expired(ttl, now) {
			expired = append(expired, h)
		} else {
			kept = append(kept, h)
		}
	}
	return kept, expired
}
