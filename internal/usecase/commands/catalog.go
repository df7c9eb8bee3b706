package commands

import (
	"context"
	"log/slog"

	"storefront-engine/internal/pkg/errs"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type WithdrawLotResult struct {
	// Found reports whether the lot row existed.
	Found bool
	// AffectedShoppers lists shoppers who held the lot; their holds are
	// gone and their baskets will reflect it on the next read.
	AffectedShoppers []uuid.UUID
}

type CatalogCommands interface {
	// WithdrawLot removes a lot from sale and every hold referencing it,
	// in one transaction. Counters vanish with the row, so no release
	// step is needed.
	WithdrawLot(ctx context.Context, lotID uuid.UUID) (*WithdrawLotResult, error)
}

type catalogCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCatalogCommands(uow shared.UnitOfWork) CatalogCommands {
	return &catalogCommandsImpl{uow: uow}
}

func (c *catalogCommandsImpl) WithdrawLot(ctx context.Context, lotID uuid.UUID) (*WithdrawLotResult, error) {
	var result WithdrawLotResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		shopperIDs, err := tx.Holds().DeleteByLot(ctx, lotID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		found, err := tx.Lots().Delete(ctx, lotID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		result.Found = found
		result.AffectedShoppers = shopperIDs
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Found {
		slog.Info("lot withdrawn",
			"lot_id", lotID, "affected_shoppers", len(result.AffectedShoppers))
	}
	return &result, nil
}
