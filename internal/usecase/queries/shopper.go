package queries

import (
	"context"
	"time"

	"storefront-engine/internal/infra"
	"storefront-engine/internal/pkg/errs"
	"storefront-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrShopperNotFound = errs.New("shopper not found")

const recentPurchaseLimit = 10

type PurchaseView struct {
	Name        string          `json:"name"`
	ProductType string          `json:"product_type"`
	Size        string          `json:"size"`
	City        string          `json:"city"`
	District    string          `json:"district"`
	PricePaid   decimal.Decimal `json:"price_paid"`
	SoldAt      time.Time       `json:"sold_at"`
}

type ShopperView struct {
	ID              uuid.UUID       `json:"id"`
	Balance         decimal.Decimal `json:"balance"`
	TotalPurchases  int32           `json:"total_purchases"`
	RegisteredAt    time.Time       `json:"registered_at"`
	RecentPurchases []PurchaseView  `json:"recent_purchases"`
}

type ShopperReadStore interface {
	Profile(ctx context.Context, shopperID uuid.UUID) (*shared.ShopperProfile, error)
}

type SaleReadStore interface {
	ListRecent(ctx context.Context, shopperID uuid.UUID, limit int32) ([]shared.SaleRecord, error)
}

type ShopperQueries interface {
	GetProfile(ctx context.Context, shopperID uuid.UUID) (*ShopperView, error)
}

type shopperQueriesImpl struct {
	shoppers ShopperReadStore
	sales    SaleReadStore
}

func NewShopperQueries(shoppers ShopperReadStore, sales SaleReadStore) ShopperQueries {
	return &shopperQueriesImpl{shoppers: shoppers, sales: sales}
}

func (q *shopperQueriesImpl) GetProfile(ctx context.Context, shopperID uuid.UUID) (*ShopperView, error) {
	profile, err := q.shoppers.Profile(ctx, shopperID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrShopperNotFound
		}
		return nil, err
	}

	records, err := q.sales.ListRecent(ctx, shopperID, recentPurchaseLimit)
	if err != nil {
		return nil, err
	}

	purchases := make([]PurchaseView, 0, len(records))
	for _, rec := range records {
		purchases = append(purchases, PurchaseView{
			Name:        rec.Name,
			ProductType: rec.ProductType,
			Size:        rec.Size,
			City:        rec.City,
			District:    rec.District,
			PricePaid:   rec.PricePaid,
			SoldAt:      rec.SoldAt,
		})
	}

	return &ShopperView{
		ID:              profile.ID,
		Balance:         profile.Balance,
		TotalPurchases:  profile.TotalPurchases,
		RegisteredAt:    profile.CreatedAt,
		RecentPurchases: purchases,
	}, nil
}
