package repository

import (
	"context"
	"errors"

	"storefront-engine/internal/infra"
	"storefront-engine/internal/infra/db"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ShopperRepository owns the shopper row: balance, purchase counter and
// the currently applied discount code. Balance is mutated only through
// Debit/Credit inside a settlement transaction.
type ShopperRepository struct {
	db db.DBTX
}

func NewShopperRepository(db db.DBTX) *ShopperRepository {
	return &ShopperRepository{db: db}
}

func (r *ShopperRepository) EnsureExists(ctx context.Context, shopperID uuid.UUID) error {
	const stmt = `
INSERT INTO shoppers (id, balance, total_purchases, created_at)
VALUES ($1, 0, 0, now())
ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.Exec(ctx, stmt, shopperID); err != nil {
		return infra.WrapRepoErr("failed to ensure shopper exists", err)
	}
	return nil
}

func (r *ShopperRepository) BalanceForUpdate(ctx context.Context, shopperID uuid.UUID) (decimal.Decimal, error) {
	const query = `SELECT balance FROM shoppers WHERE id = $1 FOR UPDATE`

	var balance decimal.Decimal
	if err := r.db.QueryRow(ctx, query, shopperID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, infra.WrapRepoErr("shopper not found", err, infra.KindNotFound)
		}
		return decimal.Zero, infra.WrapRepoErr("failed to read balance", err)
	}
	return balance, nil
}

func (r *ShopperRepository) Debit(ctx context.Context, shopperID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	const stmt = `
UPDATE shoppers SET balance = balance - $2
WHERE id = $1 AND balance >= $2
RETURNING balance`

	var newBalance decimal.Decimal
	if err := r.db.QueryRow(ctx, stmt, shopperID, amount).Scan(&newBalance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, infra.WrapRepoErr("balance would go negative", err, infra.KindNotFound)
		}
		return decimal.Zero, infra.WrapRepoErr("failed to debit balance", err)
	}
	return newBalance, nil
}

func (r *ShopperRepository) Credit(ctx context.Context, shopperID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	const stmt = `
UPDATE shoppers SET balance = balance + $2
WHERE id = $1
RETURNING balance`

	var newBalance decimal.Decimal
	if err := r.db.QueryRow(ctx, stmt, shopperID, amount).Scan(&newBalance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, infra.WrapRepoErr("shopper not found", err, infra.KindNotFound)
		}
		return decimal.Zero, infra.WrapRepoErr("failed to credit balance", err)
	}
	return newBalance, nil
}

func (r *ShopperRepository) AppliedDiscountCode(ctx context.Context, shopperID uuid.UUID) (*string, error) {
	const query = `SELECT discount_code FROM shoppers WHERE id = $1`

	var code *string
	if err := r.db.QueryRow(ctx, query, shopperID).Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to read applied discount", err)
	}
	return code, nil
}

func (r *ShopperRepository) SetDiscountCode(ctx context.Context, shopperID uuid.UUID, code *string) error {
	const stmt = `UPDATE shoppers SET discount_code = $2 WHERE id = $1`

	if _, err := r.db.Exec(ctx, stmt, shopperID, code); err != nil {
		return infra.WrapRepoErr("failed to set applied discount", err)
	}
	return nil
}

func (r *ShopperRepository) BumpPurchases(ctx context.Context, shopperID uuid.UUID, n int32) error {
	const stmt = `
UPDATE shoppers SET total_purchases = total_purchases + $2
WHERE id = $1`

	if _, err := r.db.Exec(ctx, stmt, shopperID, n); err != nil {
		return infra.WrapRepoErr("failed to bump purchase count", err)
	}
	return nil
}

func (r *ShopperRepository) Profile(ctx context.Context, shopperID uuid.UUID) (*shared.ShopperProfile, error) {
	const query = `
SELECT id, balance, total_purchases, created_at
FROM shoppers WHERE id = $1`

	var p shared.ShopperProfile
	err := r.db.QueryRow(ctx, query, shopperID).Scan(&p.ID, &p.Balance, &p.TotalPurchases, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("shopper not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to read shopper profile", err)
	}
	return &p, nil
}
