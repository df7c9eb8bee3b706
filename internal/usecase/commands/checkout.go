package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storefront-engine/internal/pkg/clock"
	"storefront-engine/internal/pkg/errs"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutStatus string

const (
	// CheckoutSettled: at least one line sold and the shopper was charged.
	CheckoutSettled CheckoutStatus = "settled"
	// CheckoutEmptyBasket: nothing held, nothing happened.
	CheckoutEmptyBasket CheckoutStatus = "empty_basket"
	// CheckoutInsufficientBalance: the charge exceeds the balance; expired
	// holds are still swept but no sale occurred.
	CheckoutInsufficientBalance CheckoutStatus = "insufficient_balance"
	// CheckoutNothingSettleable: every held lot was taken by concurrent
	// settlements; the whole attempt rolled back.
	CheckoutNothingSettleable CheckoutStatus = "nothing_settleable"
)

type SettledLine struct {
	LotID uuid.UUID
	Name  string
	Price decimal.Decimal
}

type CheckoutResult struct {
	Status         CheckoutStatus
	Settled        []SettledLine
	UnsettledCount int
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Charged        decimal.Decimal
	NewBalance     decimal.Decimal
	// DiscountDropped reports that the applied code stopped validating
	// between application and checkout and was silently removed.
	DiscountDropped bool
	// Required and Balance are set on insufficient_balance.
	Required decimal.Decimal
	Balance  decimal.Decimal
}

var errNothingSettleable = errs.New("no held lot could be finalized")

type CheckoutCommands interface {
	Checkout(ctx context.Context, shopperID uuid.UUID) (*CheckoutResult, error)
}

type checkoutCommandsImpl struct {
	uow     shared.UnitOfWork
	clock   clock.Clock
	holdTTL time.Duration
}

func NewCheckoutCommands(uow shared.UnitOfWork, clk clock.Clock, holdTTL time.Duration) CheckoutCommands {
	return &checkoutCommandsImpl{
		uow:     uow,
		clock:   clk,
		holdTTL: holdTTL,
	}
}

// Checkout settles the basket in a single transaction: price, charge, then
// finalize line by line. The charge is the total quoted at settlement start;
// lines lost to concurrent settlements reduce what is delivered, not what is
// paid, matching the quote the shopper confirmed.
func (c *checkoutCommandsImpl) Checkout(ctx context.Context, shopperID uuid.UUID) (*CheckoutResult, error) {
	var result CheckoutResult

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Within reruns the closure after a serialization retry; a stale
		// attempt must leave nothing behind in the result.
		result = CheckoutResult{}

		now := c.clock.Now()
		if err := sweepShopper(ctx, tx, shopperID, c.holdTTL, now); err != nil {
			return err
		}

		holds, err := tx.Holds().ListByShopper(ctx, shopperID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(holds) == 0 {
			result.Status = CheckoutEmptyBasket
			return nil
		}

		lotIDs := make([]uuid.UUID, 0, len(holds))
		for _, h := range holds {
			lotIDs = append(lotIDs, h.LotID)
		}
		lots, err := tx.Lots().FindByIDs(ctx, lotIDs)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		subtotal := decimal.Zero
		liveLotIDs := make([]uuid.UUID, 0, len(holds))
		for _, h := range holds {
			snap, ok := lots[h.LotID]
			if !ok {
				continue
			}
			liveLotIDs = append(liveLotIDs, h.LotID)
			subtotal = subtotal.Add(snap.Price)
		}
		subtotal = subtotal.Round(2)
		if len(liveLotIDs) == 0 {
			result.Status = CheckoutEmptyBasket
			return nil
		}
		result.Subtotal = subtotal

		total := subtotal
		appliedCode, err := tx.Shoppers().AppliedDiscountCode(ctx, shopperID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		applied, err := appliedDiscountFor(ctx, tx, shopperID, subtotal, now)
		if err != nil {
			return err
		}
		if applied != nil {
			result.DiscountAmount = applied.DiscountAmount
			total = applied.FinalTotal
		} else if appliedCode != nil {
			result.DiscountDropped = true
		}

		balance, err := tx.Shoppers().BalanceForUpdate(ctx, shopperID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if balance.LessThan(total) {
			// Commit anyway: the lazy sweep above must stick.
			result.Status = CheckoutInsufficientBalance
			result.Required = total
			result.Balance = balance
			return nil
		}

		newBalance, err := tx.Shoppers().Debit(ctx, shopperID, total)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		for _, lotID := range liveLotIDs {
			snap, err := tx.Lots().FinalizeSale(ctx, lotID)
			if err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			if snap == nil {
				result.UnsettledCount++
				continue
			}
			rec := shared.SaleRecord{
				ID:          uuid.New(),
				ShopperID:   shopperID,
				LotID:       snap.ID,
				Name:        snap.Name,
				ProductType: snap.ProductType,
				Size:        snap.Size,
				City:        snap.City,
				District:    snap.District,
				PricePaid:   snap.Price,
				SoldAt:      now,
			}
			if err := tx.Sales().Insert(ctx, rec); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			result.Settled = append(result.Settled, SettledLine{
				LotID: snap.ID,
				Name:  snap.Name,
				Price: snap.Price,
			})
		}
		if len(result.Settled) == 0 {
			// Roll the debit back; the shopper pays for nothing.
			return errNothingSettleable
		}

		if applied != nil {
			if err := tx.Discounts().IncrementUses(ctx, applied.Code); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}
		// Settled lots are already gone; vanished ones have nothing to
		// release. Holds are dropped without touching inventory.
		if _, err := tx.Holds().DeleteByShopper(ctx, shopperID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Shoppers().SetDiscountCode(ctx, shopperID, nil); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Shoppers().BumpPurchases(ctx, shopperID, int32(len(result.Settled))); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result.Status = CheckoutSettled
		result.Charged = total
		result.NewBalance = newBalance
		return nil
	})
	if err != nil {
		if errors.Is(err, errNothingSettleable) {
			return &CheckoutResult{Status: CheckoutNothingSettleable}, nil
		}
		return nil, err
	}

	if result.Status == CheckoutSettled {
		slog.Info("checkout settled",
			"shopper_id", shopperID,
			"lines", len(result.Settled),
			"unsettled", result.UnsettledCount,
			"charged", result.Charged)
	}
	return &result, nil
}
