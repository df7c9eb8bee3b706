package bootstrap

import (
	"storefront-engine/internal/pkg/config"
	"storefront-engine/internal/pkg/jwt"

	"go.uber.org/fx"
)

var AuthModule = fx.Module("auth",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}
