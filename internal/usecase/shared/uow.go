package shared

import (
	"context"
)

// UnitOfWork scopes repository access to a database transaction.
// Every state-changing engine operation runs inside Within so that two
// shoppers racing for the last unit of a lot are serialized by the store.
type UnitOfWork interface {
	// Within: serializable transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Lots() LotRepository
	Holds() HoldRepository
	Discounts() DiscountRepository
	Shoppers() ShopperRepository
	Sales() SaleRepository
	Invoices() InvoiceRepository
}
