package repository

import (
	"context"
	"errors"
	"time"

	"storefront-engine/internal/domain/lot"
	"storefront-engine/internal/infra"
	"storefront-engine/internal/infra/db"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LotRepository owns every mutation of the lots table. Reserve, release
// and finalize are single guarded statements so the row transition is
// atomic even before transaction isolation is considered.
type LotRepository struct {
	db db.DBTX
}

func NewLotRepository(db db.DBTX) *LotRepository {
	return &LotRepository{db: db}
}

func (r *LotRepository) TryReserve(ctx context.Context, lotID uuid.UUID) (bool, error) {
	const stmt = `
UPDATE lots SET reserved = reserved + 1
WHERE id = $1 AND available > reserved`

	tag, err := r.db.Exec(ctx, stmt, lotID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to reserve lot", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *LotRepository) Release(ctx context.Context, lotID uuid.UUID) error {
	const stmt = `
UPDATE lots SET reserved = GREATEST(0, reserved - 1)
WHERE id = $1`

	if _, err := r.db.Exec(ctx, stmt, lotID); err != nil {
		return infra.WrapRepoErr("failed to release lot", err)
	}
	return nil
}

func (r *LotRepository) FinalizeSale(ctx context.Context, lotID uuid.UUID) (*shared.LotSnapshot, error) {
	const stmt = `
DELETE FROM lots
WHERE id = $1 AND reserved >= 1
RETURNING id, city, district, product_type, size, name, price, available, reserved`

	snap, err := scanLot(r.db.QueryRow(ctx, stmt, lotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to finalize lot sale", err)
	}
	return snap, nil
}

func (r *LotRepository) Delete(ctx context.Context, lotID uuid.UUID) (bool, error) {
	const stmt = `DELETE FROM lots WHERE id = $1`

	tag, err := r.db.Exec(ctx, stmt, lotID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete lot", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *LotRepository) FindByID(ctx context.Context, lotID uuid.UUID) (*lot.Lot, error) {
	const query = `
SELECT id, city, district, product_type, size, name, price, available, reserved, created_at
FROM lots WHERE id = $1`

	var (
		id                                      uuid.UUID
		city, district, productType, size, name string
		price                                   decimal.Decimal
		available, reserved                     int32
		createdAt                               time.Time
	)
	err := r.db.QueryRow(ctx, query, lotID).Scan(
		&id, &city, &district, &productType, &size, &name,
		&price, &available, &reserved, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("lot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find lot", err)
	}
	entity, err := lot.New(id, city, district, productType, size, name, price, available, reserved, createdAt)
	if err != nil {
		return nil, infra.WrapRepoErr("lot row violates invariants", err)
	}
	return entity, nil
}

func (r *LotRepository) FindByIDs(ctx context.Context, lotIDs []uuid.UUID) (map[uuid.UUID]shared.LotSnapshot, error) {
	const query = `
SELECT id, city, district, product_type, size, name, price, available, reserved
FROM lots WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, lotIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find lots", err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]shared.LotSnapshot, len(lotIDs))
	for rows.Next() {
		snap, err := scanLot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan lot row", err)
		}
		found[snap.ID] = *snap
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read lot rows", err)
	}
	return found, nil
}

func (r *LotRepository) FreeStock(ctx context.Context, filter lot.Filter) ([]shared.LotSnapshot, error) {
	const query = `
SELECT id, city, district, product_type, size, name, price, available, reserved
FROM lots
WHERE available > reserved
  AND ($1 = '' OR city = $1)
  AND ($2 = '' OR district = $2)
  AND ($3 = '' OR product_type = $3)
  AND ($4 = '' OR size = $4)
ORDER BY city, district, product_type, size, price, created_at`

	rows, err := r.db.Query(ctx, query, filter.City, filter.District, filter.ProductType, filter.Size)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list free stock", err)
	}
	defer rows.Close()

	var lots []shared.LotSnapshot
	for rows.Next() {
		snap, err := scanLot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan lot row", err)
		}
		lots = append(lots, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read lot rows", err)
	}
	return lots, nil
}

func scanLot(row pgx.Row) (*shared.LotSnapshot, error) {
	var snap shared.LotSnapshot
	err := row.Scan(
		&snap.ID, &snap.City, &snap.District, &snap.ProductType,
		&snap.Size, &snap.Name, &snap.Price, &snap.Available, &snap.Reserved,
	)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
