package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront-engine/internal/domain/discount"
	"storefront-engine/internal/infra"
	"storefront-engine/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type DiscountRepository struct {
	db db.DBTX
}

func NewDiscountRepository(db db.DBTX) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Code, error) {
	const query = `
SELECT id, code, discount_type, value, is_active, max_uses, uses_count, expires_at
FROM discount_codes
WHERE code = $1`

	var (
		id        uuid.UUID
		codeStr   string
		dtype     string
		value     decimal.Decimal
		active    bool
		maxUses   *int32
		usesCount int32
		expiresAt *time.Time
	)
	err := r.db.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))).Scan(
		&id, &codeStr, &dtype, &value, &active, &maxUses, &usesCount, &expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("discount code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find discount code", err)
	}

	entity, err := discount.NewCode(id, codeStr, discount.Type(dtype), value, active, maxUses, usesCount, expiresAt)
	if err != nil {
		return nil, infra.WrapRepoErr("stored discount code is malformed", err)
	}
	return entity, nil
}

func (r *DiscountRepository) IncrementUses(ctx context.Context, code string) error {
	const stmt = `
UPDATE discount_codes SET uses_count = uses_count + 1
WHERE code = $1`

	if _, err := r.db.Exec(ctx, stmt, code); err != nil {
		return infra.WrapRepoErr("failed to increment discount uses", err)
	}
	return nil
}
