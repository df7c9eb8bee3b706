package commands

import (
	"context"
	"log/slog"

	"storefront-engine/internal/domain/payment"
	"storefront-engine/internal/infra"
	"storefront-engine/internal/pkg/clock"
	"storefront-engine/internal/pkg/errs"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTopUpBelowMinimum = errs.New("top-up amount below minimum")
	ErrInvoiceNotFound   = errs.New("pending invoice not found")
	ErrGatewayFailure    = errs.New("payment gateway request failed")
)

// MinTopUpFiat is the smallest accepted top-up, in the store currency.
var MinTopUpFiat = decimal.NewFromInt(1)

const storeFiat = "EUR"

type TopUpStatus string

const (
	// TopUpCredited: the invoice was paid and the balance was credited now.
	TopUpCredited TopUpStatus = "credited"
	// TopUpPending: the invoice is still awaiting payment.
	TopUpPending TopUpStatus = "pending"
	// TopUpExpired: the invoice lapsed unpaid and the pending record is gone.
	TopUpExpired TopUpStatus = "expired"
	// TopUpAlreadyProcessed: this invoice was credited before; no second
	// credit happened.
	TopUpAlreadyProcessed TopUpStatus = "already_processed"
)

type InitiateTopUpResult struct {
	InvoiceID    int64
	PayURL       string
	Asset        string
	CryptoAmount decimal.Decimal
	FiatAmount   decimal.Decimal
}

type TopUpStatusResult struct {
	Status     TopUpStatus
	Credited   decimal.Decimal
	NewBalance decimal.Decimal
}

type TopUpCommands interface {
	InitiateTopUp(ctx context.Context, shopperID uuid.UUID, fiatAmount decimal.Decimal, asset string) (*InitiateTopUpResult, error)
	CheckTopUpStatus(ctx context.Context, shopperID uuid.UUID, invoiceID int64) (*TopUpStatusResult, error)
}

type topUpCommandsImpl struct {
	uow     shared.UnitOfWork
	gateway PaymentGateway
	clock   clock.Clock
}

func NewTopUpCommands(uow shared.UnitOfWork, gateway PaymentGateway, clk clock.Clock) TopUpCommands {
	return &topUpCommandsImpl{
		uow:     uow,
		gateway: gateway,
		clock:   clk,
	}
}

// InitiateTopUp quotes the crypto amount at the current rate and issues an
// invoice. The gateway calls happen before the staging transaction so a
// slow gateway never holds store locks.
func (t *topUpCommandsImpl) InitiateTopUp(ctx context.Context, shopperID uuid.UUID, fiatAmount decimal.Decimal, asset string) (*InitiateTopUpResult, error) {
	if fiatAmount.LessThan(MinTopUpFiat) {
		return nil, ErrTopUpBelowMinimum
	}

	rate, err := t.gateway.ExchangeRate(ctx, asset, storeFiat)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailure)
	}
	cryptoAmount := fiatAmount.Div(rate).Round(8)

	invoice, err := t.gateway.CreateInvoice(ctx, asset, cryptoAmount)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailure)
	}

	pending := payment.PendingInvoice{
		InvoiceID:    invoice.ID,
		ShopperID:    shopperID,
		TargetAmount: fiatAmount,
		Asset:        asset,
		Purpose:      payment.PurposeTopUp,
		CreatedAt:    t.clock.Now(),
	}
	err = t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Shoppers().EnsureExists(ctx, shopperID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Invoices().InsertPending(ctx, pending); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("top-up invoice created",
		"shopper_id", shopperID,
		"invoice_id", invoice.ID,
		"asset", asset,
		"fiat_amount", fiatAmount)

	return &InitiateTopUpResult{
		InvoiceID:    invoice.ID,
		PayURL:       invoice.PayURL,
		Asset:        asset,
		CryptoAmount: cryptoAmount,
		FiatAmount:   fiatAmount,
	}, nil
}

// CheckTopUpStatus polls the gateway and settles a paid invoice. The credit
// is keyed on the invoice id, so polling a paid invoice twice credits once.
// The gateway poll runs between two transactions, never inside one.
func (t *topUpCommandsImpl) CheckTopUpStatus(ctx context.Context, shopperID uuid.UUID, invoiceID int64) (*TopUpStatusResult, error) {
	var pending *payment.PendingInvoice
	err := t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Invoices().FindPending(ctx, shopperID, invoiceID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrInvoiceNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		pending = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	report, err := t.gateway.GetInvoiceStatus(ctx, invoiceID)
	if err != nil {
		return nil, errs.Mark(err, ErrGatewayFailure)
	}

	switch report.Status {
	case payment.StatusPaid:
		return t.settlePaid(ctx, pending, report.PaidAmount)
	case payment.StatusExpired:
		err := t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Invoices().DeletePending(ctx, invoiceID); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &TopUpStatusResult{Status: TopUpExpired}, nil
	default:
		return &TopUpStatusResult{Status: TopUpPending}, nil
	}
}

func (t *topUpCommandsImpl) settlePaid(ctx context.Context, pending *payment.PendingInvoice, paidAmount decimal.Decimal) (*TopUpStatusResult, error) {
	// The confirmed fiat amount wins over the staged target when the
	// gateway reports one; rates move between quote and payment.
	credit := pending.TargetAmount
	if paidAmount.IsPositive() {
		credit = paidAmount
	}

	var result TopUpStatusResult
	err := t.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = TopUpStatusResult{}

		first, err := tx.Invoices().MarkProcessed(ctx, pending.InvoiceID, pending.ShopperID, credit)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !first {
			result.Status = TopUpAlreadyProcessed
			return nil
		}
		newBalance, err := tx.Shoppers().Credit(ctx, pending.ShopperID, credit)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Invoices().DeletePending(ctx, pending.InvoiceID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		result.Status = TopUpCredited
		result.Credited = credit
		result.NewBalance = newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Status == TopUpCredited {
		slog.Info("top-up credited",
			"shopper_id", pending.ShopperID,
			"invoice_id", pending.InvoiceID,
			"amount", credit)
	}
	return &result, nil
}
