package repository

import (
	"context"

	"storefront-engine/internal/infra"
	"storefront-engine/internal/infra/db"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// SaleRepository writes the append-only sales log. Rows are never updated
// or deleted.
type SaleRepository struct {
	db db.DBTX
}

func NewSaleRepository(db db.DBTX) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) Insert(ctx context.Context, rec shared.SaleRecord) error {
	const stmt = `
INSERT INTO sale_records (id, shopper_id, lot_id, name, product_type, size, city, district, price_paid, sold_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, stmt,
		rec.ID, rec.ShopperID, rec.LotID, rec.Name, rec.ProductType,
		rec.Size, rec.City, rec.District, rec.PricePaid, rec.SoldAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert sale record", err)
	}
	return nil
}

func (r *SaleRepository) ListRecent(ctx context.Context, shopperID uuid.UUID, limit int32) ([]shared.SaleRecord, error) {
	const query = `
SELECT id, shopper_id, lot_id, name, product_type, size, city, district, price_paid, sold_at
FROM sale_records
WHERE shopper_id = $1
ORDER BY sold_at DESC, id DESC
LIMIT $2`

	rows, err := r.db.Query(ctx, query, shopperID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list sale records", err)
	}
	defer rows.Close()

	var records []shared.SaleRecord
	for rows.Next() {
		var rec shared.SaleRecord
		err := rows.Scan(
			&rec.ID, &rec.ShopperID, &rec.LotID, &rec.Name, &rec.ProductType,
			&rec.Size, &rec.City, &rec.District, &rec.PricePaid, &rec.SoldAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan sale record", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read sale records", err)
	}
	return records, nil
}
