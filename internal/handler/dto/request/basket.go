package request

import (
	"strings"

	"github.com/google/uuid"
)

type AddBasketItemRequest struct {
	LotID uuid.UUID `json:"lot_id" binding:"required"`
}

type ApplyDiscountRequest struct {
	Code string `json:"code" binding:"required"`
}

func (r ApplyDiscountRequest) NormalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(r.Code))
}
