package commands

import (
	"context"

	"storefront-engine/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// PaymentGateway is the external crypto invoice issuer. It is never
// called inside a store transaction.
type PaymentGateway interface {
	CreateInvoice(ctx context.Context, asset string, amount decimal.Decimal) (*payment.Invoice, error)
	GetInvoiceStatus(ctx context.Context, invoiceID int64) (*payment.StatusReport, error)
	// ExchangeRate returns the fiat value of one unit of asset.
	ExchangeRate(ctx context.Context, asset, fiat string) (decimal.Decimal, error)
}
