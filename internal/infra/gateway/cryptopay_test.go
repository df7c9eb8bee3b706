//go:build unit

package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-engine/internal/domain/payment"
	"storefront-engine/internal/infra/gateway"
	"storefront-engine/internal/pkg/config"
	"storefront-engine/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *gateway.CryptoPayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return gateway.NewCryptoPayClient(config.GatewayConfig{
		APIToken:       "test-token",
		BaseURL:        srv.URL,
		RequestTimeout: 2 * time.Second,
		InvoiceTTL:     15 * time.Minute,
	})
}

func TestCreateInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/createInvoice", r.URL.Path)
			assert.Equal(t, "test-token", r.Header.Get("Crypto-Pay-API-Token"))
			assert.Equal(t, "TON", r.URL.Query().Get("asset"))
			assert.Equal(t, "2.5", r.URL.Query().Get("amount"))
			assert.Equal(t, "900", r.URL.Query().Get("expires_in"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ok":true,"result":{
				"invoice_id":42,
				"status":"active",
				"asset":"TON",
				"amount":"2.5",
				"bot_invoice_url":"https://t.me/CryptoBot?start=inv42"
			}}`))
		})

		inv, err := client.CreateInvoice(ctx, "TON", decimal.RequireFromString("2.5"))
		require.NoError(t, err)
		assert.Equal(t, int64(42), inv.ID)
		assert.Equal(t, "https://t.me/CryptoBot?start=inv42", inv.PayURL)
		assert.True(t, inv.Amount.Equal(decimal.RequireFromString("2.5")))
	})

	t.Run("api error envelope", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"ok":false,"error":{"code":400,"name":"ASSET_INVALID"}}`))
		})

		_, err := client.CreateInvoice(ctx, "BOGUS", decimal.NewFromInt(1))
		assert.True(t, errs.Is(err, gateway.ErrGatewayUnavailable))
	})

	t.Run("http failure", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.CreateInvoice(ctx, "TON", decimal.NewFromInt(1))
		assert.True(t, errs.Is(err, gateway.ErrGatewayUnavailable))
	})
}

func TestGetInvoiceStatus(t *testing.T) {
	ctx := context.Background()

	statusBody := func(status, paidFiat string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/getInvoices", r.URL.Path)
			assert.Equal(t, "42", r.URL.Query().Get("invoice_ids"))
			_, _ = w.Write([]byte(`{"ok":true,"result":{"items":[{
				"invoice_id":42,
				"status":"` + status + `",
				"paid_fiat_amount":"` + paidFiat + `"
			}]}}`))
		}
	}

	t.Run("paid carries the fiat amount", func(t *testing.T) {
		client := newTestClient(t, statusBody("paid", "10.00"))
		report, err := client.GetInvoiceStatus(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPaid, report.Status)
		assert.True(t, report.PaidAmount.Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("active", func(t *testing.T) {
		client := newTestClient(t, statusBody("active", "0"))
		report, err := client.GetInvoiceStatus(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusActive, report.Status)
	})

	t.Run("expired", func(t *testing.T) {
		client := newTestClient(t, statusBody("expired", "0"))
		report, err := client.GetInvoiceStatus(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusExpired, report.Status)
	})

	t.Run("unknown invoice id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true,"result":{"items":[]}}`))
		})
		report, err := client.GetInvoiceStatus(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusUnknown, report.Status)
	})
}

func TestExchangeRate(t *testing.T) {
	ctx := context.Background()

	ratesBody := `{"ok":true,"result":[
		{"source":"BTC","target":"EUR","rate":"60000.00","is_valid":true},
		{"source":"TON","target":"USD","rate":"5.50","is_valid":true},
		{"source":"TON","target":"EUR","rate":"4.80","is_valid":false},
		{"source":"TON","target":"EUR","rate":"5.00","is_valid":true}
	]}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/getExchangeRates", r.URL.Path)
		_, _ = w.Write([]byte(ratesBody))
	})

	t.Run("first valid matching pair wins", func(t *testing.T) {
		rate, err := client.ExchangeRate(ctx, "TON", "EUR")
		require.NoError(t, err)
		assert.True(t, rate.Equal(decimal.RequireFromString("5.00")), "invalid quotes are skipped")
	})

	t.Run("missing pair", func(t *testing.T) {
		_, err := client.ExchangeRate(ctx, "DOGE", "EUR")
		assert.True(t, errs.Is(err, gateway.ErrGatewayUnavailable))
	})
}
