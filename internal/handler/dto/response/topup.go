package response

import (
	"storefront-engine/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

type InitiateTopUpResponse struct {
	InvoiceID    int64           `json:"invoiceId"`
	PayURL       string          `json:"payUrl"`
	Asset        string          `json:"asset"`
	CryptoAmount decimal.Decimal `json:"cryptoAmount"`
	FiatAmount   decimal.Decimal `json:"fiatAmount"`
}

func FromInitiateTopUp(result *commands.InitiateTopUpResult) *InitiateTopUpResponse {
	return &InitiateTopUpResponse{
		InvoiceID:    result.InvoiceID,
		PayURL:       result.PayURL,
		Asset:        result.Asset,
		CryptoAmount: result.CryptoAmount,
		FiatAmount:   result.FiatAmount,
	}
}

type TopUpStatusResponse struct {
	Status     string          `json:"status"`
	Credited   decimal.Decimal `json:"credited,omitempty"`
	NewBalance decimal.Decimal `json:"newBalance,omitempty"`
}

func FromTopUpStatus(result *commands.TopUpStatusResult) *TopUpStatusResponse {
	return &TopUpStatusResponse{
		Status:     string(result.Status),
		Credited:   result.Credited,
		NewBalance: result.NewBalance,
	}
}
