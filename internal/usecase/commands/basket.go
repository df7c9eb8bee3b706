package commands

import (
	"context"
	"log/slog"
	"time"

	"storefront-engine/internal/domain/basket"
	"storefront-engine/internal/domain/discount"
	"storefront-engine/internal/infra"
	"storefront-engine/internal/pkg/clock"
	"storefront-engine/internal/pkg/errs"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrLotNotFound             = errs.New("lot not found")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// BasketLine is one hold joined with its live lot.
type BasketLine struct {
	HoldID      uuid.UUID
	LotID       uuid.UUID
	Name        string
	ProductType string
	Size        string
	City        string
	District    string
	Price       decimal.Decimal
	HeldAt      time.Time
	ExpiresAt   time.Time
}

type AddToBasketResult struct {
	// OutOfStock means the reservation race was lost; nothing changed.
	OutOfStock bool
	Line       BasketLine
}

type AppliedDiscount struct {
	Code           string
	DiscountAmount decimal.Decimal
	FinalTotal     decimal.Decimal
}

type BasketView struct {
	Lines    []BasketLine
	Subtotal decimal.Decimal
	// Discount is set when a code is applied and still valid against the
	// current subtotal.
	Discount *AppliedDiscount
}

type ApplyDiscountResult struct {
	// EmptyBasket means there was no subtotal to discount; a selection is
	// only ever tied to a non-empty basket.
	EmptyBasket bool
	Validation  discount.Result
	Code        string
}

type BasketCommands interface {
	AddToBasket(ctx context.Context, shopperID, lotID uuid.UUID) (*AddToBasketResult, error)
	RemoveFromBasket(ctx context.Context, shopperID, lotID uuid.UUID) error
	ClearBasket(ctx context.Context, shopperID uuid.UUID) error
	ViewBasket(ctx context.Context, shopperID uuid.UUID) (*BasketView, error)
	ApplyDiscount(ctx context.Context, shopperID uuid.UUID, code string) (*ApplyDiscountResult, error)
	RemoveDiscount(ctx context.Context, shopperID uuid.UUID) error
}

type basketCommandsImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	holdTTL time.Duration
}

func NewBasketCommands(uow shared.UnitOfWork, clk clock.Clock, holdTTL time.Duration) BasketCommands {
	return &basketCommandsImpl{
		uow:     uow,
		clock:   clk,
		holdTTL: holdTTL,
	}
}

func (b *basketCommandsImpl) AddToBasket(ctx context.Context, shopperID, lotID uuid.UUID) (*AddToBasketResult, error) {
	var result AddToBasketResult

	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Cleared on entry so a serialization retry never keeps a stale
		// out-of-stock verdict from an aborted attempt.
		result = AddToBasketResult{}

		if err := tx.Shoppers().EnsureExists(ctx, shopperID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := sweepShopper(ctx, tx, shopperID, b.holdTTL, b.clock.Now()); err != nil {
			return err
		}

		entity, err := tx.Lots().FindByID(ctx, lotID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrLotNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !entity.Purchasable() {
			result.OutOfStock = true
			return nil
		}

		// The guarded update is the authoritative claim; under serializable
		// isolation it cannot disagree with the read above within this
		// transaction, and concurrent claimants abort at commit instead.
		reserved, err := tx.Lots().TryReserve(ctx, lotID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !reserved {
			result.OutOfStock = true
			return nil
		}

		now := b.clock.Now()
		hold := basket.Hold{
			ID:        uuid.New(),
			ShopperID: shopperID,
			LotID:     lotID,
			CreatedAt: now,
		}
		// The hold row and the reserved flip commit or roll back together.
		if err := tx.Holds().Insert(ctx, hold); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result.Line = BasketLine{
			HoldID:      hold.ID,
			LotID:       entity.ID(),
			Name:        entity.Name(),
			ProductType: entity.ProductType(),
			Size:        entity.Size(),
			City:        entity.City(),
			District:    entity.District(),
			Price:       entity.Price(),
			HeldAt:      now,
			ExpiresAt:   now.Add(b.holdTTL),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (b *basketCommandsImpl) RemoveFromBasket(ctx context.Context, shopperID, lotID uuid.UUID) error {
	return b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := sweepShopper(ctx, tx, shopperID, b.holdTTL, b.clock.Now()); err != nil {
			return err
		}

		removed, err := tx.Holds().DeleteOldestForLot(ctx, shopperID, lotID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// Never release what was not held; the hold set is the source of
		// truth when client state has drifted.
		if !removed {
			return nil
		}
		if err := tx.Lots().Release(ctx, lotID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return b.clearDiscountIfBasketEmpty(ctx, tx, shopperID)
	})
}

func (b *basketCommandsImpl) ClearBasket(ctx context.Context, shopperID uuid.UUID) error {
	return b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		lotIDs, err := tx.Holds().DeleteByShopper(ctx, shopperID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, lotID := range lotIDs {
			if err := tx.Lots().Release(ctx, lotID); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}
		// A discount selection is tied to a non-empty basket.
		if err := tx.Shoppers().SetDiscountCode(ctx, shopperID, nil); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (b *basketCommandsImpl) ViewBasket(ctx context.Context, shopperID uuid.UUID) (*BasketView, error) {
	var view BasketView

	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		view = BasketView{}

		now := b.clock.Now()
		if err := sweepShopper(ctx, tx, shopperID, b.holdTTL, now); err != nil {
			return err
		}

		holds, err := tx.Holds().ListByShopper(ctx, shopperID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		lines, subtotal, err := b.joinLiveLines(ctx, tx, holds)
		if err != nil {
			return err
		}
		view.Lines = lines
		view.Subtotal = subtotal

		if err := b.clearDiscountIfBasketEmpty(ctx, tx, shopperID); err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}

		applied, err := appliedDiscountFor(ctx, tx, shopperID, subtotal, now)
		if err != nil {
			return err
		}
		view.Discount = applied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (b *basketCommandsImpl) ApplyDiscount(ctx context.Context, shopperID uuid.UUID, code string) (*ApplyDiscountResult, error) {
	var result ApplyDiscountResult

	err := b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = ApplyDiscountResult{}

		now := b.clock.Now()
		if err := sweepShopper(ctx, tx, shopperID, b.holdTTL, now); err != nil {
			return err
		}

		holds, err := tx.Holds().ListByShopper(ctx, shopperID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		_, subtotal, err := b.joinLiveLines(ctx, tx, holds)
		if err != nil {
			return err
		}
		if subtotal.IsZero() {
			result.EmptyBasket = true
			return nil
		}

		codeEntity, err := findDiscountCode(ctx, tx, code)
		if err != nil {
			return err
		}
		result.Validation = discount.Validate(codeEntity, subtotal, now)
		if !result.Validation.Valid {
			return nil
		}

		result.Code = codeEntity.Code()
		normalized := codeEntity.Code()
		if err := tx.Shoppers().SetDiscountCode(ctx, shopperID, &normalized); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (b *basketCommandsImpl) RemoveDiscount(ctx context.Context, shopperID uuid.UUID) error {
	return b.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Shoppers().SetDiscountCode(ctx, shopperID, nil)
	})
}

// joinLiveLines joins holds with live lot rows. Holds whose lot vanished
// in a race are dropped from both the view and the hold set.
func (b *basketCommandsImpl) joinLiveLines(ctx context.Context, tx shared.Tx, holds []basket.Hold) ([]BasketLine, decimal.Decimal, error) {
	subtotal := decimal.Zero
	if len(holds) == 0 {
		return nil, subtotal, nil
	}

	lotIDs := make([]uuid.UUID, 0, len(holds))
	for _, h := range holds {
		lotIDs = append(lotIDs, h.LotID)
	}
	lots, err := tx.Lots().FindByIDs(ctx, lotIDs)
	if err != nil {
		return nil, decimal.Zero, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var lines []BasketLine
	for _, h := range holds {
		snap, ok := lots[h.LotID]
		if !ok {
			if _, err := tx.Holds().Delete(ctx, h.ID); err != nil {
				return nil, decimal.Zero, errs.Mark(err, ErrDatabaseOperationFailed)
			}
			slog.Warn("dropped basket line for vanished lot",
				"shopper_id", h.ShopperID, "lot_id", h.LotID)
			continue
		}
		lines = append(lines, toBasketLine(h, snap, b.holdTTL))
		subtotal = subtotal.Add(snap.Price)
	}
	return lines, subtotal.Round(2), nil
}

func (b *basketCommandsImpl) clearDiscountIfBasketEmpty(ctx context.Context, tx shared.Tx, shopperID uuid.UUID) error {
	holds, err := tx.Holds().ListByShopper(ctx, shopperID)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(holds) > 0 {
		return nil
	}
	if err := tx.Shoppers().SetDiscountCode(ctx, shopperID, nil); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

// appliedDiscountFor re-validates the shopper's selected code against the
// given subtotal and returns nil when no code is applied or it no longer
// validates.
func appliedDiscountFor(ctx context.Context, tx shared.Tx, shopperID uuid.UUID, subtotal decimal.Decimal, now time.Time) (*AppliedDiscount, error) {
	codeStr, err := tx.Shoppers().AppliedDiscountCode(ctx, shopperID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if codeStr == nil {
		return nil, nil
	}

	codeEntity, err := findDiscountCode(ctx, tx, *codeStr)
	if err != nil {
		return nil, err
	}
	validation := discount.Validate(codeEntity, subtotal, now)
	if !validation.Valid {
		return nil, nil
	}
	return &AppliedDiscount{
		Code:           codeEntity.Code(),
		DiscountAmount: validation.DiscountAmount,
		FinalTotal:     validation.FinalTotal,
	}, nil
}

// findDiscountCode maps a missing row to a nil entity so the validator
// reports NotFound instead of the repository erroring.
func findDiscountCode(ctx context.Context, tx shared.Tx, code string) (*discount.Code, error) {
	entity, err := tx.Discounts().FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return entity, nil
}

func toBasketLine(h basket.Hold, snap shared.LotSnapshot, ttl time.Duration) BasketLine {
	return BasketLine{
		HoldID:      h.ID,
		LotID:       snap.ID,
		Name:        snap.Name,
		ProductType: snap.ProductType,
		Size:        snap.Size,
		City:        snap.City,
		District:    snap.District,
		Price:       snap.Price,
		HeldAt:      h.CreatedAt,
		ExpiresAt:   h.CreatedAt.Add(ttl),
	}
}
