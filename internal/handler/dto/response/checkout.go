package response

import (
	"storefront-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettledLineResponse struct {
	LotID uuid.UUID       `json:"lotId"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CheckoutResponse struct {
	Status          string                `json:"status"`
	Settled         []SettledLineResponse `json:"settled,omitempty"`
	UnsettledCount  int                   `json:"unsettledCount,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	DiscountAmount  decimal.Decimal       `json:"discountAmount"`
	Charged         decimal.Decimal       `json:"charged"`
	NewBalance      decimal.Decimal       `json:"newBalance"`
	DiscountDropped bool                  `json:"discountDropped,omitempty"`
	Required        decimal.Decimal       `json:"required,omitempty"`
	Balance         decimal.Decimal       `json:"balance,omitempty"`
}

func FromCheckout(result *commands.CheckoutResult) *CheckoutResponse {
	resp := &CheckoutResponse{
		Status:          string(result.Status),
		UnsettledCount:  result.UnsettledCount,
		Subtotal:        result.Subtotal,
		DiscountAmount:  result.DiscountAmount,
		Charged:         result.Charged,
		NewBalance:      result.NewBalance,
		DiscountDropped: result.DiscountDropped,
		Required:        result.Required,
		Balance:         result.Balance,
	}
	for _, line := range result.Settled {
		resp.Settled = append(resp.Settled, SettledLineResponse{
			LotID: line.LotID,
			Name:  line.Name,
			Price: line.Price,
		})
	}
	return resp
}
