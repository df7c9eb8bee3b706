//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"storefront-engine/internal/usecase/commands"
	"storefront-engine/internal/usecase/shared"
	"storefront-engine/tests/common/fake"

	"storefront-engine/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const holdTTL = 15 * time.Minute

var testStart = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newBasketEnv() (*fake.Store, *clock.MockClock, commands.BasketCommands) {
	store := fake.NewStore()
	clk := clock.NewMockClock(testStart)
	cmds := commands.NewBasketCommands(fake.NewUnitOfWork(store), clk, holdTTL)
	return store, clk, cmds
}

func seedLot(store *fake.Store, price string, available int32) uuid.UUID {
	id := uuid.New()
	store.AddLot(shared.LotSnapshot{
		ID:          id,
		City:        "Berlin",
		District:    "Mitte",
		ProductType: "widget",
		Size:        "M",
		Name:        "Widget M",
		Price:       decimal.RequireFromString(price),
		Available:   available,
	})
	return id
}

func TestAddToBasket(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves one unit and records a hold", func(t *testing.T) {
		store, _, cmds := newBasketEnv()
		shopperID := uuid.New()
		lotID := seedLot(store, "25.00", 2)

		result, err := cmds.AddToBasket(ctx, shopperID, lotID)
		require.NoError(t, err)
		assert.False(t, result.OutOfStock)
		assert.Equal(t, lotID, result.Line.LotID)
		assert.Equal(t, testStart.Add(holdTTL), result.Line.ExpiresAt)

		assert.Equal(t, int32(1), store.Lots[lotID].Reserved)
		assert.Equal(t, 1, store.HoldCount())
	})

	t.Run("second shopper loses the last unit", func(t *testing.T) {
		store, _, cmds := newBasketEnv()
		lotID := seedLot(store, "25.00", 1)

		first, err := cmds.AddToBasket(ctx, uuid.New(), lotID)
		require.NoError(t, err)
		assert.False(t, first.OutOfStock)

		second, err := cmds.AddToBasket(ctx, uuid.New(), lotID)
		require.NoError(t, err)
		assert.True(t, second.OutOfStock)

		assert.Equal(t, 1, store.HoldCount(), "losing attempt leaves no hold behind")
		assert.Equal(t, int32(1), store.Lots[lotID].Reserved)
	})

	t.Run("unknown lot", func(t *testing.T) {
		_, _, cmds := newBasketEnv()
		_, err := cmds.AddToBasket(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, commands.ErrLotNotFound)
	})

	t.Run("expired own hold is swept before reserving", func(t *testing.T) {
		store, clk, cmds := newBasketEnv()
		shopperID := uuid.New()
		lotID := seedLot(store, "25.00", 1)

		_, err := cmds.AddToBasket(ctx, shopperID, lotID)
		require.NoError(t, err)

		clk.Add(holdTTL + time.Minute)

		// The stale hold no longer blocks the same unit.
		result, err := cmds.AddToBasket(ctx, shopperID, lotID)
		require.NoError(t, err)
		assert.False(t, result.OutOfStock)
		assert.Equal(t, 1, store.HoldCount())
		assert.Equal(t, int32(1), store.Lots[lotID].Reserved)
	})
}

func TestRemoveFromBasket(t *testing.T) {
	ctx := context.Background()

	t.Run("releases the reserved unit", func(t *testing.T) {
		store, _, cmds := newBasketEnv()
		shopperID := uuid.New()
		lotID := seedLot(store, "25.00", 1)

		_, err := cmds.AddToBasket(ctx, shopperID, lotID)
		require.NoError(t, err)

		require.NoError(t, cmds.RemoveFromBasket(ctx, shopperID, lotID))
		assert.Equal(t, 0, store.HoldCount())
		assert.Equal(t, int32(0), store.Lots[lotID].Reserved)
	})

	t.Run("no release without a matching hold", func(t *testing.T) {
		store, _, cmds := newBasketEnv()
		otherShopper := uuid.New()
		lotID := seedLot(store, "25.00", 1)

		_, err := cmds.AddToBasket(ctx, otherShopper, lotID)
		require.NoError(t, err)

		// A different shopper removing the same lot must not free the unit.
		require.NoError(t, cmds.RemoveFromBasket(ctx, uuid.New(), lotID))
		assert.Equal(t, int32(1), store.Lots[lotID].Reserved)
		assert.Equal(t, 1, store.HoldCount())
	})
}

func TestClearBasket(t *testing.T) {
	ctx := context.Background()
	store, _, cmds := newBasketEnv()
	shopperID := uuid.New()
	lotA := seedLot(store, "10.00", 1)
	lotB := seedLot(store, "20.00", 1)

	_, err := cmds.AddToBasket(ctx, shopperID, lotA)
	require.NoError(t, err)
	_, err = cmds.AddToBasket(ctx, shopperID, lotB)
	require.NoError(t, err)

	store.AddDiscount(fake.DiscountRow{ID: uuid.New(), Code: "SAVE10", Type: "percentage", Value: decimal.NewFromInt(10), Active: true})
	_, err = cmds.ApplyDiscount(ctx, shopperID, "SAVE10")
	require.NoError(t, err)

	require.NoError(t, cmds.ClearBasket(ctx, shopperID))

	assert.Equal(t, 0, store.HoldCount())
	assert.Equal(t, int32(0), store.Lots[lotA].Reserved)
	assert.Equal(t, int32(0), store.Lots[lotB].Reserved)
	assert.Nil(t, store.Shoppers[shopperID].DiscountCode, "clearing drops the discount selection")
}

func TestViewBasket(t *testing.T) {
	ctx := context.Background()

	t.Run("sums live lines and applies the selected discount", func(t *testing.T) {
		store, _, cmds := newBasketEnv()
		shopperID := uuid.New()
		lotA := seedLot(store, "30.00", 1)
		lotB := seedLot(store, "70.00", 1)

		_, err := cmds.AddToBasket(ctx, shopperID, lotA)
		require.NoError(t, err)
		_, err = cmds.AddToBasket(ctx, shopperID, lotB)
		require.NoError(t, err)

		store.AddDiscount(fake.DiscountRow{ID: uuid.New(), Code: "SAVE10", Type: "percentage", Value: decimal.NewFromInt(10), Active: true})
		_, err = cmds.ApplyDiscount(ctx, shopperID, "SAVE10")
		require.NoError(t, err)

		view, err := cmds.ViewBasket(ctx, shopperID)
		require.NoError(t, err)
		assert.Len(t, view.Lines, 2)
		assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("100.00")))
		require.NotNil(t, view.Discount)
		assert.True(t, view.Discount.FinalTotal.Equal(decimal.RequireFromString("90.00")))
	})

	t.Run("expired holds vanish from the view", func(t *testing.T) {
		store, clk, cmds := newBasketEnv()
		shopperID := uuid.New()
		lotID := seedLot(store, "30.00", 1)

		_, err := cmds.AddToBasket(ctx, shopperID, lotID)
		require.NoError(t, err)

		clk.Add(holdTTL + time.Second)

		view, err := cmds.ViewBasket(ctx, shopperID)
		require.NoError(t, err)
		assert.Empty(t, view.Lines)
		assert.True(t, view.Subtotal.IsZero())
		assert.Equal(t, int32(0), store.Lots[lotID].Reserved, "sweep released the unit")
	})

	t.Run("holds on withdrawn lots are dropped", func(t *testing.T) {
		store, _, cmds := newBasketEnv()
		shopperID := uuid.New()
		lotA := seedLot(store, "30.00", 1)
		lotB := seedLot(store, "50.00", 1)

		_, err := cmds.AddToBasket(ctx, shopperID, lotA)
		require.NoError(t, err)
		_, err = cmds.AddToBasket(ctx, shopperID, lotB)
		require.NoError(t, err)

		delete(store.Lots, lotA)

		view, err := cmds.ViewBasket(ctx, shopperID)
		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, lotB, view.Lines[0].LotID)
		assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("50.00")))
		assert.Equal(t, 1, store.HoldCount(), "orphaned hold was deleted")
	})
}

func TestApplyDiscount(t *testing.T) {
	ctx := context.Background()

	t.Run("empty basket", func(t *testing.T) {
		store, _, cmds := newBasketEnv()
		shopperID := uuid.New()
		store.AddShopper(shopperID, decimal.Zero)

		result, err := cmds.ApplyDiscount(ctx, shopperID, "SAVE10")
		require.NoError(t, err)
		assert.True(t, result.EmptyBasket)
	})

	t.Run("unknown code reports not found", func(t *testing.T) {
		store, _, cmds := newBasketEnv()
		shopperID := uuid.New()
		lotID := seedLot(store, "30.00", 1)
		_, err := cmds.AddToBasket(ctx, shopperID, lotID)
		require.NoError(t, err)

		result, err := cmds.ApplyDiscount(ctx, shopperID, "NOPE")
		require.NoError(t, err)
		assert.False(t, result.Validation.Valid)
		assert.Equal(t, "not_found", string(result.Validation.Reason))
		assert.Nil(t, store.Shoppers[shopperID].DiscountCode)
	})

	t.Run("valid code is stored normalized", func(t *testing.T) {
		store, _, cmds := newBasketEnv()
		shopperID := uuid.New()
		lotID := seedLot(store, "30.00", 1)
		_, err := cmds.AddToBasket(ctx, shopperID, lotID)
		require.NoError(t, err)

		store.AddDiscount(fake.DiscountRow{ID: uuid.New(), Code: "SAVE10", Type: "fixed", Value: decimal.NewFromInt(5), Active: true})

		result, err := cmds.ApplyDiscount(ctx, shopperID, "  save10 ")
		require.NoError(t, err)
		require.True(t, result.Validation.Valid)
		require.NotNil(t, store.Shoppers[shopperID].DiscountCode)
		assert.Equal(t, "SAVE10", *store.Shoppers[shopperID].DiscountCode)
	})
}
