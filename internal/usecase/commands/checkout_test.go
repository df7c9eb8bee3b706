//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-engine/internal/pkg/clock"
	"storefront-engine/internal/usecase/commands"
	"storefront-engine/internal/usecase/shared"
	"storefront-engine/tests/common/fake"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutEnv() (*fake.Store, *clock.MockClock, commands.BasketCommands, commands.CheckoutCommands) {
	store := fake.NewStore()
	clk := clock.NewMockClock(testStart)
	uow := fake.NewUnitOfWork(store)
	return store, clk,
		commands.NewBasketCommands(uow, clk, holdTTL),
		commands.NewCheckoutCommands(uow, clk, holdTTL)
}

func TestCheckout_Settles(t *testing.T) {
	ctx := context.Background()
	store, _, basketCmds, checkoutCmds := newCheckoutEnv()
	shopperID := uuid.New()
	lotA := seedLot(store, "30.00", 1)
	lotB := seedLot(store, "70.00", 1)

	_, err := basketCmds.AddToBasket(ctx, shopperID, lotA)
	require.NoError(t, err)
	_, err = basketCmds.AddToBasket(ctx, shopperID, lotB)
	require.NoError(t, err)
	store.Shoppers[shopperID].Balance = decimal.RequireFromString("150.00")

	store.AddDiscount(fake.DiscountRow{ID: uuid.New(), Code: "SAVE10", Type: "percentage", Value: decimal.NewFromInt(10), Active: true})
	_, err = basketCmds.ApplyDiscount(ctx, shopperID, "SAVE10")
	require.NoError(t, err)

	result, err := checkoutCmds.Checkout(ctx, shopperID)
	require.NoError(t, err)

	assert.Equal(t, commands.CheckoutSettled, result.Status)
	assert.Len(t, result.Settled, 2)
	assert.True(t, result.Charged.Equal(decimal.RequireFromString("90.00")))
	assert.True(t, result.NewBalance.Equal(decimal.RequireFromString("60.00")))

	// Sold lots are gone, the ledger has both lines at true price.
	assert.NotContains(t, store.Lots, lotA)
	assert.NotContains(t, store.Lots, lotB)
	require.Len(t, store.Sales, 2)
	assert.Equal(t, 0, store.HoldCount())

	shopper := store.Shoppers[shopperID]
	assert.Equal(t, int32(2), shopper.TotalPurchases)
	assert.Nil(t, shopper.DiscountCode)
	assert.Equal(t, int32(1), store.Discounts["SAVE10"].UsesCount, "use counted exactly once per settlement")
}

func TestCheckout_EmptyBasket(t *testing.T) {
	ctx := context.Background()
	store, _, _, checkoutCmds := newCheckoutEnv()
	shopperID := uuid.New()
	store.AddShopper(shopperID, decimal.NewFromInt(100))

	result, err := checkoutCmds.Checkout(ctx, shopperID)
	require.NoError(t, err)
	assert.Equal(t, commands.CheckoutEmptyBasket, result.Status)
}

func TestCheckout_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	store, clk, basketCmds, checkoutCmds := newCheckoutEnv()
	shopperID := uuid.New()
	lotA := seedLot(store, "80.00", 1)
	lotStale := seedLot(store, "10.00", 1)

	_, err := basketCmds.AddToBasket(ctx, shopperID, lotStale)
	require.NoError(t, err)
	clk.Add(holdTTL + time.Minute)
	_, err = basketCmds.AddToBasket(ctx, shopperID, lotA)
	require.NoError(t, err)
	store.Shoppers[shopperID].Balance = decimal.RequireFromString("50.00")

	result, err := checkoutCmds.Checkout(ctx, shopperID)
	require.NoError(t, err)

	assert.Equal(t, commands.CheckoutInsufficientBalance, result.Status)
	assert.True(t, result.Required.Equal(decimal.RequireFromString("80.00")))
	assert.True(t, result.Balance.Equal(decimal.RequireFromString("50.00")))

	// Nothing sold or charged, but the lazy sweep of the stale hold stuck.
	assert.True(t, store.Shoppers[shopperID].Balance.Equal(decimal.RequireFromString("50.00")))
	assert.Contains(t, store.Lots, lotA)
	assert.Equal(t, int32(0), store.Lots[lotStale].Reserved)
	assert.Equal(t, 1, store.HoldCount())
}

func TestCheckout_DroppedDiscountFallsBackToSubtotal(t *testing.T) {
	ctx := context.Background()
	store, _, basketCmds, checkoutCmds := newCheckoutEnv()
	shopperID := uuid.New()
	lotID := seedLot(store, "100.00", 1)

	_, err := basketCmds.AddToBasket(ctx, shopperID, lotID)
	require.NoError(t, err)
	store.Shoppers[shopperID].Balance = decimal.RequireFromString("100.00")

	store.AddDiscount(fake.DiscountRow{ID: uuid.New(), Code: "SAVE10", Type: "percentage", Value: decimal.NewFromInt(10), Active: true})
	_, err = basketCmds.ApplyDiscount(ctx, shopperID, "SAVE10")
	require.NoError(t, err)

	// The code is deactivated between application and checkout.
	store.Discounts["SAVE10"].Active = false

	result, err := checkoutCmds.Checkout(ctx, shopperID)
	require.NoError(t, err)

	assert.Equal(t, commands.CheckoutSettled, result.Status)
	assert.True(t, result.DiscountDropped)
	assert.True(t, result.Charged.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, int32(0), store.Discounts["SAVE10"].UsesCount)
}

func TestCheckout_PartialSellout(t *testing.T) {
	ctx := context.Background()
	store, _, basketCmds, checkoutCmds := newCheckoutEnv()
	shopperID := uuid.New()
	lotA := seedLot(store, "40.00", 1)
	lotB := seedLot(store, "60.00", 1)

	_, err := basketCmds.AddToBasket(ctx, shopperID, lotA)
	require.NoError(t, err)
	_, err = basketCmds.AddToBasket(ctx, shopperID, lotB)
	require.NoError(t, err)
	store.Shoppers[shopperID].Balance = decimal.RequireFromString("100.00")

	// A concurrent settlement takes lotB between pricing and finalize:
	// simulate by clearing its reserved marker after the holds exist.
	snap := store.Lots[lotB]
	snap.Reserved = 0
	store.Lots[lotB] = snap

	result, err := checkoutCmds.Checkout(ctx, shopperID)
	require.NoError(t, err)

	// The quote the shopper confirmed is charged in full; the lost line
	// just is not delivered.
	assert.Equal(t, commands.CheckoutSettled, result.Status)
	assert.Len(t, result.Settled, 1)
	assert.Equal(t, lotA, result.Settled[0].LotID)
	assert.Equal(t, 1, result.UnsettledCount)
	assert.True(t, result.Charged.Equal(decimal.RequireFromString("100.00")))
	require.Len(t, store.Sales, 1)
	assert.True(t, store.Sales[0].PricePaid.Equal(decimal.RequireFromString("40.00")))
}

var errAttemptAborted = errors.New("first attempt aborted")

// replayingUnitOfWork rolls the first run of every closure back and runs
// it again, the way the postgres unit of work behaves when commit hits a
// serialization failure.
type replayingUnitOfWork struct {
	inner *fake.UnitOfWork
}

func (u *replayingUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	_ = u.inner.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return errAttemptAborted
	})
	return u.inner.Within(ctx, fn)
}

func TestCheckout_RetriedAttemptSettlesOnce(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	clk := clock.NewMockClock(testStart)
	basketCmds := commands.NewBasketCommands(fake.NewUnitOfWork(store), clk, holdTTL)
	checkoutCmds := commands.NewCheckoutCommands(&replayingUnitOfWork{inner: fake.NewUnitOfWork(store)}, clk, holdTTL)

	shopperID := uuid.New()
	lotA := seedLot(store, "30.00", 1)
	lotB := seedLot(store, "70.00", 1)
	_, err := basketCmds.AddToBasket(ctx, shopperID, lotA)
	require.NoError(t, err)
	_, err = basketCmds.AddToBasket(ctx, shopperID, lotB)
	require.NoError(t, err)
	store.Shoppers[shopperID].Balance = decimal.RequireFromString("150.00")

	result, err := checkoutCmds.Checkout(ctx, shopperID)
	require.NoError(t, err)

	assert.Equal(t, commands.CheckoutSettled, result.Status)
	assert.Len(t, result.Settled, 2, "rolled-back attempt contributes no lines")
	assert.Equal(t, 0, result.UnsettledCount)
	assert.True(t, result.Charged.Equal(decimal.RequireFromString("100.00")))
	require.Len(t, store.Sales, 2)
	assert.Equal(t, int32(2), store.Shoppers[shopperID].TotalPurchases, "purchase counter reflects one settlement")
}

func TestCheckout_NothingSettleableRollsBack(t *testing.T) {
	ctx := context.Background()
	store, _, basketCmds, checkoutCmds := newCheckoutEnv()
	shopperID := uuid.New()
	lotID := seedLot(store, "40.00", 1)

	_, err := basketCmds.AddToBasket(ctx, shopperID, lotID)
	require.NoError(t, err)
	store.Shoppers[shopperID].Balance = decimal.RequireFromString("100.00")

	snap := store.Lots[lotID]
	snap.Reserved = 0
	store.Lots[lotID] = snap

	result, err := checkoutCmds.Checkout(ctx, shopperID)
	require.NoError(t, err)

	assert.Equal(t, commands.CheckoutNothingSettleable, result.Status)
	assert.True(t, store.Shoppers[shopperID].Balance.Equal(decimal.RequireFromString("100.00")), "debit rolled back")
	assert.Empty(t, store.Sales)
	assert.Equal(t, 1, store.HoldCount(), "holds untouched by the rolled-back attempt")
}
