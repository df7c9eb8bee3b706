package components

import (
	"storefront-engine/internal/handler"
	"storefront-engine/internal/handler/api"
	"storefront-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBasketHandler,
		api.NewCheckoutHandler,
		api.NewTopUpHandler,
		api.NewCatalogHandler,
		api.NewShopperHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
