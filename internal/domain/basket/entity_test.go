//go:build unit

package basket_test

import (
	"testing"
	"time"

	"storefront-engine/internal/domain/basket"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func holdAt(created time.Time) basket.Hold {
	return basket.Hold{
		ID:        uuid.New(),
		ShopperID: uuid.New(),
		LotID:     uuid.New(),
		CreatedAt: created,
	}
}

func TestHold_Expired(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ttl := 15 * time.Minute

	assert.False(t, holdAt(now).Expired(ttl, now))
	assert.False(t, holdAt(now.Add(-15*time.Minute)).Expired(ttl, now), "exactly at TTL is still live")
	assert.True(t, holdAt(now.Add(-15*time.Minute-time.Second)).Expired(ttl, now))
}

func TestPartitionExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ttl := 15 * time.Minute

	fresh := holdAt(now.Add(-time.Minute))
	stale1 := holdAt(now.Add(-16 * time.Minute))
	stale2 := holdAt(now.Add(-time.Hour))

	kept, expired := basket.PartitionExpired([]basket.Hold{stale1, fresh, stale2}, ttl, now)

	assert.Equal(t, []basket.Hold{fresh}, kept)
	assert.Equal(t, []basket.Hold{stale1, stale2}, expired)
}

func TestPartitionExpired_Empty(t *testing.T) {
	kept, expired := basket.PartitionExpired(nil, time.Minute, time.Now())
	assert.Empty(t, kept)
	assert.Empty(t, expired)
}
