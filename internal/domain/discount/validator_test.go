//go:build unit

package discount_test

import (
	"testing"
	"time"

	"storefront-engine/internal/domain/discount"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCode(t *testing.T, dtype discount.Type, value string, mutate ...func(*codeParams)) *discount.Code {
	t.Helper()
	p := codeParams{active: true}
	for _, m := range mutate {
		m(&p)
	}
	code, err := discount.NewCode(
		uuid.New(), "SAVE10", dtype, decimal.RequireFromString(value),
		p.active, p.maxUses, p.usesCount, p.expiresAt,
	)
	require.NoError(t, err)
	return code
}

type codeParams struct {
	active    bool
	maxUses   *int32
	usesCount int32
	expiresAt *time.Time
}

func TestValidate_ChecksRunInOrder(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	subtotal := decimal.RequireFromString("100.00")
	past := now.Add(-time.Hour)
	limit := int32(5)

	t.Run("nil code is not found", func(t *testing.T) {
		result := discount.Validate(nil, subtotal, now)
		assert.False(t, result.Valid)
		assert.Equal(t, discount.ReasonNotFound, result.Reason)
		assert.True(t, result.FinalTotal.Equal(subtotal))
	})

	t.Run("inactive wins over expiry", func(t *testing.T) {
		code := mustCode(t, discount.TypePercentage, "10", func(p *codeParams) {
			p.active = false
			p.expiresAt = &past
		})
		result := discount.Validate(code, subtotal, now)
		assert.Equal(t, discount.ReasonInactive, result.Reason)
	})

	t.Run("expiry wins over usage limit", func(t *testing.T) {
		code := mustCode(t, discount.TypePercentage, "10", func(p *codeParams) {
			p.expiresAt = &past
			p.maxUses = &limit
			p.usesCount = 5
		})
		result := discount.Validate(code, subtotal, now)
		assert.Equal(t, discount.ReasonExpired, result.Reason)
	})

	t.Run("usage limit reached", func(t *testing.T) {
		code := mustCode(t, discount.TypePercentage, "10", func(p *codeParams) {
			p.maxUses = &limit
			p.usesCount = 5
		})
		result := discount.Validate(code, subtotal, now)
		assert.Equal(t, discount.ReasonUsageLimitReached, result.Reason)
	})

	t.Run("one use left still validates", func(t *testing.T) {
		code := mustCode(t, discount.TypePercentage, "10", func(p *codeParams) {
			p.maxUses = &limit
			p.usesCount = 4
		})
		result := discount.Validate(code, subtotal, now)
		assert.True(t, result.Valid)
	})

	t.Run("expiry boundary is exclusive", func(t *testing.T) {
		exact := now
		code := mustCode(t, discount.TypePercentage, "10", func(p *codeParams) {
			p.expiresAt = &exact
		})
		result := discount.Validate(code, subtotal, now)
		assert.Equal(t, discount.ReasonExpired, result.Reason)
	})
}

func TestValidate_Amounts(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		dtype        discount.Type
		value        string
		subtotal     string
		wantDiscount string
		wantFinal    string
	}{
		{"percentage of subtotal", discount.TypePercentage, "10", "250.00", "25.00", "225.00"},
		{"percentage rounds to cents", discount.TypePercentage, "15", "33.33", "5.00", "28.33"},
		{"fixed amount", discount.TypeFixed, "20", "100.00", "20.00", "80.00"},
		{"fixed clamped to subtotal", discount.TypeFixed, "150", "100.00", "100.00", "0.00"},
		{"full percentage", discount.TypePercentage, "100", "42.50", "42.50", "0.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := mustCode(t, tc.dtype, tc.value)
			result := discount.Validate(code, decimal.RequireFromString(tc.subtotal), now)
			require.True(t, result.Valid)
			assert.True(t, result.DiscountAmount.Equal(decimal.RequireFromString(tc.wantDiscount)),
				"discount: got %s want %s", result.DiscountAmount, tc.wantDiscount)
			assert.True(t, result.FinalTotal.Equal(decimal.RequireFromString(tc.wantFinal)),
				"final: got %s want %s", result.FinalTotal, tc.wantFinal)
		})
	}
}

func TestNewCode_RejectsUnknownType(t *testing.T) {
	_, err := discount.NewCode(
		uuid.New(), "X", discount.Type("bogus"), decimal.NewFromInt(1), true, nil, 0, nil,
	)
	assert.ErrorIs(t, err, discount.ErrUnknownType)
}
