package commands

import (
	"context"
	"log/slog"
	"time"

	"storefront-engine/internal/domain/basket"
	"storefront-engine/internal/pkg/clock"
	"storefront-engine/internal/pkg/errs"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type SweepCommands interface {
	// SweepAll releases every expired hold store-wide in one transaction.
	SweepAll(ctx context.Context) (int, error)
}

type sweepCommandsImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	holdTTL time.Duration
}

func NewSweepCommands(uow shared.UnitOfWork, clk clock.Clock, holdTTL time.Duration) SweepCommands {
	return &sweepCommandsImpl{
		uow:     uow,
		clock:   clk,
		holdTTL: holdTTL,
	}
}

func (s *sweepCommandsImpl) SweepAll(ctx context.Context) (int, error) {
	var swept int

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cutoff := s.clock.Now().Add(-s.holdTTL)
		lotIDs, err := tx.Holds().DeleteExpired(ctx, cutoff)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, lotID := range lotIDs {
			if err := tx.Lots().Release(ctx, lotID); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}
		swept = len(lotIDs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		slog.Info("swept expired holds", "count", swept)
	}
	return swept, nil
}

// sweepShopper lazily expires the shopper's own stale holds inside the
// caller's transaction, so every basket read observes post-sweep state.
// Deleting the hold row first makes the claim atomic: a hold swept here
// is invisible to the global sweeper and cannot be released twice.
func sweepShopper(ctx context.Context, tx shared.Tx, shopperID uuid.UUID, ttl time.Duration, now time.Time) error {
	holds, err := tx.Holds().ListByShopper(ctx, shopperID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	_, expired := basket.PartitionExpired(holds, ttl, now)
	for _, h := range expired {
		if _, err := tx.Holds().Delete(ctx, h.ID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Lots().Release(ctx, h.LotID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}
	if len(expired) > 0 {
		slog.Debug("swept expired holds for shopper",
			"shopper_id", shopperID, "count", len(expired))
	}
	return nil
}
