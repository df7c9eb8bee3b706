package bootstrap

import (
	"storefront-engine/internal/infra/gateway"
	"storefront-engine/internal/pkg/config"
	"storefront-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewPaymentGateway,
			fx.As(new(commands.PaymentGateway)),
		),
	),
)

func NewPaymentGateway(cfg config.Config) *gateway.CryptoPayClient {
	return gateway.NewCryptoPayClient(cfg.Gateway)
}
