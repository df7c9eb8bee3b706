package response

import (
	"time"

	"storefront-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BasketItemResponse struct {
	LotID       uuid.UUID       `json:"lotId"`
	Name        string          `json:"name"`
	ProductType string          `json:"productType"`
	Size        string          `json:"size"`
	City        string          `json:"city"`
	District    string          `json:"district"`
	Price       decimal.Decimal `json:"price"`
	ExpiresAt   time.Time       `json:"expiresAt"`
}

type AppliedDiscountResponse struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
}

type BasketResponse struct {
	Items    []BasketItemResponse     `json:"items"`
	Subtotal decimal.Decimal          `json:"subtotal"`
	Discount *AppliedDiscountResponse `json:"discount,omitempty"`
}

func FromBasketView(view *commands.BasketView) *BasketResponse {
	resp := &BasketResponse{
		Items:    make([]BasketItemResponse, 0, len(view.Lines)),
		Subtotal: view.Subtotal,
	}
	for _, line := range view.Lines {
		resp.Items = append(resp.Items, fromBasketLine(line))
	}
	if view.Discount != nil {
		resp.Discount = &AppliedDiscountResponse{
			Code:           view.Discount.Code,
			DiscountAmount: view.Discount.DiscountAmount,
			FinalTotal:     view.Discount.FinalTotal,
		}
	}
	return resp
}

type AddBasketItemResponse struct {
	Item BasketItemResponse `json:"item"`
}

func FromAddToBasket(result *commands.AddToBasketResult) *AddBasketItemResponse {
	return &AddBasketItemResponse{Item: fromBasketLine(result.Line)}
}

func fromBasketLine(line commands.BasketLine) BasketItemResponse {
	return BasketItemResponse{
		LotID:       line.LotID,
		Name:        line.Name,
		ProductType: line.ProductType,
		Size:        line.Size,
		City:        line.City,
		District:    line.District,
		Price:       line.Price,
		ExpiresAt:   line.ExpiresAt,
	}
}

type DiscountValidationResponse struct {
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
}

func FromApplyDiscount(result *commands.ApplyDiscountResult) *DiscountValidationResponse {
	return &DiscountValidationResponse{
		Code:           result.Code,
		DiscountAmount: result.Validation.DiscountAmount,
		FinalTotal:     result.Validation.FinalTotal,
	}
}
