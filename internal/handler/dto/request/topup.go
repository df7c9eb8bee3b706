package request

import (
	"strings"

	"github.com/shopspring/decimal"
)

type InitiateTopUpRequest struct {
	// Amount is the fiat amount to credit, in the store currency.
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Asset  string          `json:"asset" binding:"required"`
}

func (r InitiateTopUpRequest) NormalizedAsset() string {
	return strings.ToUpper(strings.TrimSpace(r.Asset))
}
