package queries

import (
	"context"

	"storefront-engine/internal/domain/lot"
	"storefront-engine/internal/usecase/shared"

	"github.com/shopspring/decimal"
)

// LotListItem is the public view of a purchasable lot. Counters stay
// internal; the storefront only ever shows what can be bought right now.
type LotListItem struct {
	ID          string          `json:"id"`
	City        string          `json:"city"`
	District    string          `json:"district"`
	ProductType string          `json:"product_type"`
	Size        string          `json:"size"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
}

type CatalogReadStore interface {
	FreeStock(ctx context.Context, filter lot.Filter) ([]shared.LotSnapshot, error)
}

type CatalogQueries interface {
	// ListFreeStock returns lots with at least one unreserved unit,
	// narrowed by the optional filter fields.
	ListFreeStock(ctx context.Context, filter lot.Filter) ([]LotListItem, error)
}

type catalogQueriesImpl struct {
	store CatalogReadStore
}

func NewCatalogQueries(store CatalogReadStore) CatalogQueries {
	return &catalogQueriesImpl{store: store}
}

func (q *catalogQueriesImpl) ListFreeStock(ctx context.Context, filter lot.Filter) ([]LotListItem, error) {
	snaps, err := q.store.FreeStock(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]LotListItem, 0, len(snaps))
	for _, s := range snaps {
		items = append(items, LotListItem{
			ID:          s.ID.String(),
			City:        s.City,
			District:    s.District,
			ProductType: s.ProductType,
			Size:        s.Size,
			Name:        s.Name,
			Price:       s.Price,
		})
	}
	return items, nil
}
