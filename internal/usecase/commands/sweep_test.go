//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"storefront-engine/internal/pkg/clock"
	"storefront-engine/internal/usecase/commands"
	"storefront-engine/tests/common/fake"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepAll(t *testing.T) {
	ctx := context.Background()
	store := fake.NewStore()
	clk := clock.NewMockClock(testStart)
	uow := fake.NewUnitOfWork(store)
	basketCmds := commands.NewBasketCommands(uow, clk, holdTTL)
	sweepCmds := commands.NewSweepCommands(uow, clk, holdTTL)

	staleLot := seedLot(store, "10.00", 1)
	freshLot := seedLot(store, "10.00", 1)

	_, err := basketCmds.AddToBasket(ctx, uuid.New(), staleLot)
	require.NoError(t, err)

	clk.Add(10 * time.Minute)
	_, err = basketCmds.AddToBasket(ctx, uuid.New(), freshLot)
	require.NoError(t, err)

	clk.Add(6 * time.Minute)

	swept, err := sweepCmds.SweepAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, int32(0), store.Lots[staleLot].Reserved)
	assert.Equal(t, int32(1), store.Lots[freshLot].Reserved)
	assert.Equal(t, 1, store.HoldCount())

	// Sweeping again finds nothing; a hold is released exactly once.
	swept, err = sweepCmds.SweepAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
	assert.Equal(t, int32(0), store.Lots[staleLot].Reserved)
}

func TestSweepAll_EmptyStore(t *testing.T) {
	store := fake.NewStore()
	sweepCmds := commands.NewSweepCommands(fake.NewUnitOfWork(store), clock.NewMockClock(testStart), holdTTL)

	swept, err := sweepCmds.SweepAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, swept)
}
