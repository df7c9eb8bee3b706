package shared

import (
	"context"
	"time"

	"storefront-engine/internal/domain/basket"
	"storefront-engine/internal/domain/discount"
	"storefront-engine/internal/domain/lot"
	"storefront-engine/internal/domain/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotSnapshot is a read model of a lot row for command-side decisions.
type LotSnapshot struct {
	ID          uuid.UUID
	City        string
	District    string
	ProductType string
	Size        string
	Name        string
	Price       decimal.Decimal
	Available   int32
	Reserved    int32
}

// SaleRecord is one immutable line of the append-only sales log.
type SaleRecord struct {
	ID          uuid.UUID
	ShopperID   uuid.UUID
	LotID       uuid.UUID
	Name        string
	ProductType string
	Size        string
	City        string
	District    string
	PricePaid   decimal.Decimal
	SoldAt      time.Time
}

type ShopperProfile struct {
	ID             uuid.UUID
	Balance        decimal.Decimal
	TotalPurchases int32
	CreatedAt      time.Time
}

// LotRepository is the inventory store contract. TryReserve, Release and
// FinalizeSale must each be a single atomic statement against the row.
type LotRepository interface {
	// TryReserve succeeds only while available > reserved; no partial effect.
	TryReserve(ctx context.Context, lotID uuid.UUID) (bool, error)
	// Release is idempotent; releasing an unreserved lot is a no-op.
	Release(ctx context.Context, lotID uuid.UUID) error
	// FinalizeSale deletes the reserved lot row and returns its last state,
	// or nil when a concurrent settlement already took it.
	FinalizeSale(ctx context.Context, lotID uuid.UUID) (*LotSnapshot, error)
	// Delete removes a lot unconditionally (external withdrawal) and
	// reports whether the row existed.
	Delete(ctx context.Context, lotID uuid.UUID) (bool, error)
	// FindByID rebuilds the domain entity from the row; KindNotFound when
	// the lot does not exist.
	FindByID(ctx context.Context, lotID uuid.UUID) (*lot.Lot, error)
	FindByIDs(ctx context.Context, lotIDs []uuid.UUID) (map[uuid.UUID]LotSnapshot, error)
	FreeStock(ctx context.Context, filter lot.Filter) ([]LotSnapshot, error)
}

type HoldRepository interface {
	Insert(ctx context.Context, h basket.Hold) error
	ListByShopper(ctx context.Context, shopperID uuid.UUID) ([]basket.Hold, error)
	// DeleteOldestForLot removes the first matching hold and reports whether
	// one existed; inventory is released only when it did.
	DeleteOldestForLot(ctx context.Context, shopperID, lotID uuid.UUID) (bool, error)
	Delete(ctx context.Context, holdID uuid.UUID) (bool, error)
	// DeleteByShopper clears the basket and returns the lot ids that were held.
	DeleteByShopper(ctx context.Context, shopperID uuid.UUID) ([]uuid.UUID, error)
	// DeleteExpired atomically claims every hold created before cutoff and
	// returns their lot ids; a hold can be swept exactly once.
	DeleteExpired(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
	// DeleteByLot removes every hold referencing a lot (external deletion)
	// and returns the affected shopper ids.
	DeleteByLot(ctx context.Context, lotID uuid.UUID) ([]uuid.UUID, error)
}

type DiscountRepository interface {
	// FindByCode returns KindNotFound when the code does not exist.
	FindByCode(ctx context.Context, code string) (*discount.Code, error)
	IncrementUses(ctx context.Context, code string) error
}

type ShopperRepository interface {
	EnsureExists(ctx context.Context, shopperID uuid.UUID) error
	// BalanceForUpdate locks the shopper row for the rest of the transaction.
	BalanceForUpdate(ctx context.Context, shopperID uuid.UUID) (decimal.Decimal, error)
	Debit(ctx context.Context, shopperID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, shopperID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
	AppliedDiscountCode(ctx context.Context, shopperID uuid.UUID) (*string, error)
	SetDiscountCode(ctx context.Context, shopperID uuid.UUID, code *string) error
	BumpPurchases(ctx context.Context, shopperID uuid.UUID, n int32) error
	Profile(ctx context.Context, shopperID uuid.UUID) (*ShopperProfile, error)
}

type SaleRepository interface {
	Insert(ctx context.Context, rec SaleRecord) error
	ListRecent(ctx context.Context, shopperID uuid.UUID, limit int32) ([]SaleRecord, error)
}

type InvoiceRepository interface {
	InsertPending(ctx context.Context, inv payment.PendingInvoice) error
	FindPending(ctx context.Context, shopperID uuid.UUID, invoiceID int64) (*payment.PendingInvoice, error)
	DeletePending(ctx context.Context, invoiceID int64) error
	// MarkProcessed is the durable double-credit guard: it returns false
	// without side effect when the invoice id was already recorded.
	MarkProcessed(ctx context.Context, invoiceID int64, shopperID uuid.UUID, amount decimal.Decimal) (bool, error)
}
