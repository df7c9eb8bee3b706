package response

import (
	"time"

	"storefront-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseResponse struct {
	Name        string          `json:"name"`
	ProductType string          `json:"productType"`
	Size        string          `json:"size"`
	City        string          `json:"city"`
	District    string          `json:"district"`
	PricePaid   decimal.Decimal `json:"pricePaid"`
	SoldAt      time.Time       `json:"soldAt"`
}

type ShopperResponse struct {
	ID              uuid.UUID          `json:"id"`
	Balance         decimal.Decimal    `json:"balance"`
	TotalPurchases  int32              `json:"totalPurchases"`
	RegisteredAt    time.Time          `json:"registeredAt"`
	RecentPurchases []PurchaseResponse `json:"recentPurchases"`
}

func FromShopperView(view *queries.ShopperView) *ShopperResponse {
	purchases := make([]PurchaseResponse, 0, len(view.RecentPurchases))
	for _, p := range view.RecentPurchases {
		purchases = append(purchases, PurchaseResponse{
			Name:        p.Name,
			ProductType: p.ProductType,
			Size:        p.Size,
			City:        p.City,
			District:    p.District,
			PricePaid:   p.PricePaid,
			SoldAt:      p.SoldAt,
		})
	}
	return &ShopperResponse{
		ID:              view.ID,
		Balance:         view.Balance,
		TotalPurchases:  view.TotalPurchases,
		RegisteredAt:    view.RegisteredAt,
		RecentPurchases: purchases,
	}
}
