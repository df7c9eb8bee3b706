package response

import (
	"storefront-engine/internal/usecase/queries"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type LotResponse struct {
	ID          string          `json:"id"`
	City        string          `json:"city"`
	District    string          `json:"district"`
	ProductType string          `json:"productType"`
	Size        string          `json:"size"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
}

type CatalogResponse struct {
	Lots []LotResponse `json:"lots"`
}

func FromLotList(items []queries.LotListItem) (*CatalogResponse, error) {
	lots := make([]LotResponse, 0, len(items))
	if err := copier.Copy(&lots, &items); err != nil {
		return nil, err
	}
	return &CatalogResponse{Lots: lots}, nil
}
