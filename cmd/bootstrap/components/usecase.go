package components

import (
	"storefront-engine/internal/pkg/clock"
	"storefront-engine/internal/pkg/config"
	"storefront-engine/internal/usecase/commands"
	"storefront-engine/internal/usecase/queries"
	"storefront-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) commands.BasketCommands {
			return commands.NewBasketCommands(uow, clk, cfg.Basket.HoldTTL)
		},
		func(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) commands.SweepCommands {
			return commands.NewSweepCommands(uow, clk, cfg.Basket.HoldTTL)
		},
		func(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) commands.CheckoutCommands {
			return commands.NewCheckoutCommands(uow, clk, cfg.Basket.HoldTTL)
		},
		commands.NewTopUpCommands,
		commands.NewCatalogCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCatalogQueries,
		queries.NewShopperQueries,
	),
)
