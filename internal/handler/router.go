package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront-engine/internal/handler/api"
	"storefront-engine/internal/handler/middleware"
	"storefront-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	basketHandler *api.BasketHandler,
	checkoutHandler *api.CheckoutHandler,
	topUpHandler *api.TopUpHandler,
	catalogHandler *api.CatalogHandler,
	shopperHandler *api.ShopperHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, basketHandler, checkoutHandler, topUpHandler, catalogHandler, shopperHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	basketHandler *api.BasketHandler,
	checkoutHandler *api.CheckoutHandler,
	topUpHandler *api.TopUpHandler,
	catalogHandler *api.CatalogHandler,
	shopperHandler *api.ShopperHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/healthz", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireShopper())
	{
		basket := apiGroup.Group("/basket")
		{
			addRoutes(basket, []route{
				{Method: http.MethodPost, Path: "/items", Handler: basketHandler.AddItem},
				{Method: http.MethodDelete, Path: "/items/:lotID", Handler: basketHandler.RemoveItem},
				{Method: http.MethodDelete, Path: "", Handler: basketHandler.Clear},
				{Method: http.MethodGet, Path: "", Handler: basketHandler.View},
				{Method: http.MethodPost, Path: "/discount", Handler: basketHandler.ApplyDiscount},
				{Method: http.MethodDelete, Path: "/discount", Handler: basketHandler.RemoveDiscount},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/checkout", Handler: checkoutHandler.Checkout},
			{Method: http.MethodPost, Path: "/topups", Handler: topUpHandler.Initiate},
			{Method: http.MethodGet, Path: "/topups/:invoiceID", Handler: topUpHandler.Status},
			{Method: http.MethodGet, Path: "/catalog/lots", Handler: catalogHandler.ListLots},
			{Method: http.MethodDelete, Path: "/catalog/lots/:lotID", Handler: catalogHandler.WithdrawLot},
			{Method: http.MethodGet, Path: "/shoppers/me", Handler: shopperHandler.Me},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
