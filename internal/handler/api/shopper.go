package api

import (
	"errors"
	"net/http"

	resdto "storefront-engine/internal/handler/dto/response"
	"storefront-engine/internal/handler/httperr"
	"storefront-engine/internal/handler/middleware"
	"storefront-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ShopperHandler struct {
	q queries.ShopperQueries
}

func NewShopperHandler(q queries.ShopperQueries) *ShopperHandler {
	return &ShopperHandler{q: q}
}

// @Summary Get own profile
// @Description Balance, purchase count and recent purchases
// @Tags shoppers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.ShopperResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /shoppers/me [get]
func (h *ShopperHandler) Me(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}

	view, err := h.q.GetProfile(c.Request.Context(), shopperID)
	if err != nil {
		if errors.Is(err, queries.ErrShopperNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Shopper not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load profile", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromShopperView(view))
}
