package fake

import (
	"context"
	"time"

	"storefront-engine/internal/domain/payment"

	"github.com/shopspring/decimal"
)

// Gateway is a scripted payment gateway. Tests set the next invoice id,
// the rate table and per-invoice status reports up front.
type Gateway struct {
	NextInvoiceID int64
	Rates         map[string]decimal.Decimal
	Reports       map[int64]payment.StatusReport
	Err           error

	CreatedInvoices []payment.Invoice
}

func NewGateway() *Gateway {
	return &Gateway{
		NextInvoiceID: 1000,
		Rates:         make(map[string]decimal.Decimal),
		Reports:       make(map[int64]payment.StatusReport),
	}
}

func (g *Gateway) CreateInvoice(_ context.Context, asset string, amount decimal.Decimal) (*payment.Invoice, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	g.NextInvoiceID++
	inv := payment.Invoice{
		ID:        g.NextInvoiceID,
		PayURL:    "https://pay.example/" + asset,
		Asset:     asset,
		Amount:    amount,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}
	g.CreatedInvoices = append(g.CreatedInvoices, inv)
	return &inv, nil
}

func (g *Gateway) GetInvoiceStatus(_ context.Context, invoiceID int64) (*payment.StatusReport, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	report, ok := g.Reports[invoiceID]
	if !ok {
		report = payment.StatusReport{Status: payment.StatusActive}
	}
	return &report, nil
}

func (g *Gateway) ExchangeRate(_ context.Context, asset, _ string) (decimal.Decimal, error) {
	if g.Err != nil {
		return decimal.Zero, g.Err
	}
	rate, ok := g.Rates[asset]
	if !ok {
		rate = decimal.NewFromInt(1)
	}
	return rate, nil
}
