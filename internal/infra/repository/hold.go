package repository

import (
	"context"
	"time"

	"storefront-engine/internal/domain/basket"
	"storefront-engine/internal/infra"
	"storefront-engine/internal/infra/db"

	"github.com/google/uuid"
)

// HoldRepository stores basket holds as a proper child table keyed by
// shopper and lot. Sweeping works by deleting hold rows first: the delete
// is the atomic claim, so a hold can be released at most once no matter
// how lazy and global sweeps interleave.
type HoldRepository struct {
	db db.DBTX
}

func NewHoldRepository(db db.DBTX) *HoldRepository {
	return &HoldRepository{db: db}
}

func (r *HoldRepository) Insert(ctx context.Context, h basket.Hold) error {
	const stmt = `
INSERT INTO holds (id, shopper_id, lot_id, created_at)
VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, stmt, h.ID, h.ShopperID, h.LotID, h.CreatedAt); err != nil {
		return infra.WrapRepoErr("failed to insert hold", err)
	}
	return nil
}

func (r *HoldRepository) ListByShopper(ctx context.Context, shopperID uuid.UUID) ([]basket.Hold, error) {
	const query = `
SELECT id, shopper_id, lot_id, created_at
FROM holds
WHERE shopper_id = $1
ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, shopperID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list holds", err)
	}
	defer rows.Close()

	var holds []basket.Hold
	for rows.Next() {
		var h basket.Hold
		if err := rows.Scan(&h.ID, &h.ShopperID, &h.LotID, &h.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan hold row", err)
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read hold rows", err)
	}
	return holds, nil
}

func (r *HoldRepository) DeleteOldestForLot(ctx context.Context, shopperID, lotID uuid.UUID) (bool, error) {
	const stmt = `
DELETE FROM holds
WHERE id = (
	SELECT id FROM holds
	WHERE shopper_id = $1 AND lot_id = $2
	ORDER BY created_at, id
	LIMIT 1
)`

	tag, err := r.db.Exec(ctx, stmt, shopperID, lotID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete hold", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *HoldRepository) Delete(ctx context.Context, holdID uuid.UUID) (bool, error) {
	const stmt = `DELETE FROM holds WHERE id = $1`

	tag, err := r.db.Exec(ctx, stmt, holdID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete hold", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *HoldRepository) DeleteByShopper(ctx context.Context, shopperID uuid.UUID) ([]uuid.UUID, error) {
	const stmt = `
DELETE FROM holds
WHERE shopper_id = $1
RETURNING lot_id`

	return r.deleteReturningLots(ctx, stmt, shopperID)
}

func (r *HoldRepository) DeleteExpired(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	const stmt = `
DELETE FROM holds
WHERE created_at < $1
RETURNING lot_id`

	return r.deleteReturningLots(ctx, stmt, cutoff)
}

func (r *HoldRepository) DeleteByLot(ctx context.Context, lotID uuid.UUID) ([]uuid.UUID, error) {
	const stmt = `
DELETE FROM holds
WHERE lot_id = $1
RETURNING shopper_id`

	return r.deleteReturningLots(ctx, stmt, lotID)
}

func (r *HoldRepository) deleteReturningLots(ctx context.Context, stmt string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to delete holds", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan deleted hold", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read deleted holds", err)
	}
	return ids, nil
}
