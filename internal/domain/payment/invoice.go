package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	StatusPaid    InvoiceStatus = "paid"
	StatusActive  InvoiceStatus = "active"
	StatusExpired InvoiceStatus = "expired"
	StatusUnknown InvoiceStatus = "unknown"
)

type Purpose string

const (
	PurposePurchase Purpose = "purchase"
	PurposeTopUp    Purpose = "topup"
)

// Invoice is an externally tracked payment request issued by the gateway.
type Invoice struct {
	ID        int64
	PayURL    string
	Asset     string
	Amount    decimal.Decimal
	ExpiresAt time.Time
}

// StatusReport is what the gateway answers on a status poll. PaidAmount is
// the confirmed fiat amount and only meaningful for StatusPaid.
type StatusReport struct {
	Status     InvoiceStatus
	PaidAmount decimal.Decimal
}

// PendingInvoice is the local staging record for an initiated payment.
// It is not authoritative: balances, lots and holds are.
type PendingInvoice struct {
	InvoiceID    int64
	ShopperID    uuid.UUID
	TargetAmount decimal.Decimal
	Asset        string
	Purpose      Purpose
	CreatedAt    time.Time
}
