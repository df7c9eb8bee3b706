//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"storefront-engine/internal/pkg/config"
	"storefront-engine/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.AuthConfig
}

func NewJWTHelper(cfg config.AuthConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, shopperID uuid.UUID) string {
	t.Helper()
	service := jwt.NewService(h.cfg.JWTSecret, h.cfg.TokenTTL)
	token, err := service.GenerateToken(shopperID)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, shopperID uuid.UUID) string {
	t.Helper()
	service := jwt.NewService(h.cfg.JWTSecret, 1*time.Millisecond)
	token, err := service.GenerateToken(shopperID)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
