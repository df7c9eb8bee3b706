//go:build unit

package lot_test

import (
	"testing"
	"time"

	"storefront-engine/internal/domain/lot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLot(t *testing.T, price string, available, reserved int32) *lot.Lot {
	t.Helper()
	l, err := lot.New(
		uuid.New(), "Berlin", "Mitte", "widget", "M", "Widget M",
		decimal.RequireFromString(price), available, reserved, time.Now(),
	)
	require.NoError(t, err)
	return l
}

func TestNew_Validation(t *testing.T) {
	_, err := lot.New(uuid.New(), "Berlin", "Mitte", "widget", "M", "x",
		decimal.Zero, 1, 0, time.Now())
	assert.ErrorIs(t, err, lot.ErrInvalidPrice)

	_, err = lot.New(uuid.New(), "Berlin", "Mitte", "widget", "M", "x",
		decimal.NewFromInt(-5), 1, 0, time.Now())
	assert.ErrorIs(t, err, lot.ErrInvalidPrice)

	_, err = lot.New(uuid.New(), "Berlin", "Mitte", "widget", "M", "x",
		decimal.NewFromInt(10), 1, 2, time.Now())
	assert.ErrorIs(t, err, lot.ErrInvalidUnits)

	_, err = lot.New(uuid.New(), "Berlin", "Mitte", "widget", "M", "x",
		decimal.NewFromInt(10), 1, -1, time.Now())
	assert.ErrorIs(t, err, lot.ErrInvalidUnits)
}

func TestPurchasable(t *testing.T) {
	assert.True(t, newLot(t, "10.00", 1, 0).Purchasable())
	assert.False(t, newLot(t, "10.00", 1, 1).Purchasable(), "fully reserved lot is not purchasable")
	assert.True(t, newLot(t, "10.00", 3, 2).Purchasable())
}
