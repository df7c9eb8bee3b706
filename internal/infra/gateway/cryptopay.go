package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-engine/internal/domain/payment"
	"storefront-engine/internal/pkg/config"
	"storefront-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrGatewayUnavailable marks transport and API-level failures. Callers
// treat it as retryable and never assume an invoice was paid.
var ErrGatewayUnavailable = errs.New("payment gateway unavailable")

const tokenHeader = "Crypto-Pay-API-Token"

// CryptoPayClient talks to the Crypto Pay (CryptoBot) HTTP API. It holds
// no state beyond configuration; pending invoices live in the store.
type CryptoPayClient struct {
	baseURL    string
	token      string
	invoiceTTL time.Duration
	httpClient *http.Client
}

func NewCryptoPayClient(cfg config.GatewayConfig) *CryptoPayClient {
	return &CryptoPayClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.APIToken,
		invoiceTTL: cfg.InvoiceTTL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type apiEnvelope struct {
	Ok     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code int    `json:"code"`
		Name string `json:"name"`
	} `json:"error"`
}

type apiInvoice struct {
	InvoiceID      int64           `json:"invoice_id"`
	Status         string          `json:"status"`
	Asset          string          `json:"asset"`
	Amount         decimal.Decimal `json:"amount"`
	BotInvoiceURL  string          `json:"bot_invoice_url"`
	PaidFiatAmount decimal.Decimal `json:"paid_fiat_amount"`
	ExpirationDate string          `json:"expiration_date"`
}

type apiExchangeRate struct {
	Source  string          `json:"source"`
	Target  string          `json:"target"`
	Rate    decimal.Decimal `json:"rate"`
	IsValid bool            `json:"is_valid"`
}

func (c *CryptoPayClient) CreateInvoice(ctx context.Context, asset string, amount decimal.Decimal) (*payment.Invoice, error) {
	params := url.Values{
		"asset":      {asset},
		"amount":     {amount.String()},
		"expires_in": {strconv.Itoa(int(c.invoiceTTL.Seconds()))},
	}

	var inv apiInvoice
	if err := c.call(ctx, "createInvoice", params, &inv); err != nil {
		return nil, err
	}
	if inv.InvoiceID == 0 || inv.BotInvoiceURL == "" {
		return nil, errs.Mark(errs.New("gateway returned malformed invoice"), ErrGatewayUnavailable)
	}

	expiresAt := time.Now().Add(c.invoiceTTL)
	if t, err := time.Parse(time.RFC3339, inv.ExpirationDate); err == nil {
		expiresAt = t
	}

	return &payment.Invoice{
		ID:        inv.InvoiceID,
		PayURL:    inv.BotInvoiceURL,
		Asset:     inv.Asset,
		Amount:    inv.Amount,
		ExpiresAt: expiresAt,
	}, nil
}

func (c *CryptoPayClient) GetInvoiceStatus(ctx context.Context, invoiceID int64) (*payment.StatusReport, error) {
	params := url.Values{
		"invoice_ids": {strconv.FormatInt(invoiceID, 10)},
	}

	var result struct {
		Items []apiInvoice `json:"items"`
	}
	if err := c.call(ctx, "getInvoices", params, &result); err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return &payment.StatusReport{Status: payment.StatusUnknown}, nil
	}

	inv := result.Items[0]
	switch strings.ToLower(inv.Status) {
	case "paid":
		return &payment.StatusReport{Status: payment.StatusPaid, PaidAmount: inv.PaidFiatAmount}, nil
	case "active":
		return &payment.StatusReport{Status: payment.StatusActive}, nil
	case "expired":
		return &payment.StatusReport{Status: payment.StatusExpired}, nil
	default:
		return &payment.StatusReport{Status: payment.StatusUnknown}, nil
	}
}

// ExchangeRate returns how much fiat one unit of asset is worth, so a
// fiat top-up target can be converted to a crypto invoice amount.
func (c *CryptoPayClient) ExchangeRate(ctx context.Context, asset, fiat string) (decimal.Decimal, error) {
	var rates []apiExchangeRate
	if err := c.call(ctx, "getExchangeRates", nil, &rates); err != nil {
		return decimal.Zero, err
	}

	for _, r := range rates {
		if r.Source == asset && r.Target == fiat && r.IsValid {
			return r.Rate, nil
		}
	}
	return decimal.Zero, errs.Mark(
		errs.New(fmt.Sprintf("no valid exchange rate for %s/%s", asset, fiat)),
		ErrGatewayUnavailable,
	)
}

func (c *CryptoPayClient) call(ctx context.Context, method string, params url.Values, out any) error {
	endpoint := c.baseURL + "/api/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errs.Mark(err, ErrGatewayUnavailable)
	}
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Mark(err, ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errs.Mark(
			errs.New(fmt.Sprintf("gateway responded with status %d", resp.StatusCode)),
			ErrGatewayUnavailable,
		)
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errs.Mark(err, ErrGatewayUnavailable)
	}
	if !envelope.Ok {
		name := "unknown error"
		if envelope.Error != nil {
			name = envelope.Error.Name
		}
		return errs.Mark(errs.New("gateway error: "+name), ErrGatewayUnavailable)
	}

	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return errs.Mark(err, ErrGatewayUnavailable)
	}
	return nil
}
