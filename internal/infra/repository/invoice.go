package repository

import (
	"context"
	"errors"

	"storefront-engine/internal/domain/payment"
	"storefront-engine/internal/infra"
	"storefront-engine/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// InvoiceRepository keeps the pending-invoice staging records and the
// processed-payments ledger. The primary key on processed_payments is the
// gateway invoice id, which is what makes top-up crediting idempotent.
type InvoiceRepository struct {
	db db.DBTX
}

func NewInvoiceRepository(db db.DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) InsertPending(ctx context.Context, inv payment.PendingInvoice) error {
	const stmt = `
INSERT INTO pending_invoices (invoice_id, shopper_id, target_amount, asset, purpose, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, stmt,
		inv.InvoiceID, inv.ShopperID, inv.TargetAmount, inv.Asset, string(inv.Purpose), inv.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert pending invoice", err)
	}
	return nil
}

func (r *InvoiceRepository) FindPending(ctx context.Context, shopperID uuid.UUID, invoiceID int64) (*payment.PendingInvoice, error) {
	const query = `
SELECT invoice_id, shopper_id, target_amount, asset, purpose, created_at
FROM pending_invoices
WHERE invoice_id = $1 AND shopper_id = $2`

	var (
		inv     payment.PendingInvoice
		purpose string
	)
	err := r.db.QueryRow(ctx, query, invoiceID, shopperID).Scan(
		&inv.InvoiceID, &inv.ShopperID, &inv.TargetAmount, &inv.Asset, &purpose, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("pending invoice not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find pending invoice", err)
	}
	inv.Purpose = payment.Purpose(purpose)
	return &inv, nil
}

func (r *InvoiceRepository) DeletePending(ctx context.Context, invoiceID int64) error {
	const stmt = `DELETE FROM pending_invoices WHERE invoice_id = $1`

	if _, err := r.db.Exec(ctx, stmt, invoiceID); err != nil {
		return infra.WrapRepoErr("failed to delete pending invoice", err)
	}
	return nil
}

func (r *InvoiceRepository) MarkProcessed(ctx context.Context, invoiceID int64, shopperID uuid.UUID, amount decimal.Decimal) (bool, error) {
	const stmt = `
INSERT INTO processed_payments (invoice_id, shopper_id, amount, processed_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (invoice_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, stmt, invoiceID, shopperID, amount)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark payment processed", err)
	}
	return tag.RowsAffected() > 0, nil
}
