package api

import (
	"net/http"

	resdto "storefront-engine/internal/handler/dto/response"
	"storefront-engine/internal/handler/httperr"
	"storefront-engine/internal/handler/middleware"
	"storefront-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	cmds commands.CheckoutCommands
}

func NewCheckoutHandler(cmds commands.CheckoutCommands) *CheckoutHandler {
	return &CheckoutHandler{cmds: cmds}
}

// @Summary Checkout
// @Description Settle the basket: charge the balance and finalize each held lot
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CheckoutResponse
// @Failure 401 {object} httperr.Response
// @Failure 402 {object} resdto.CheckoutResponse
// @Failure 409 {object} resdto.CheckoutResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}

	result, err := h.cmds.Checkout(c.Request.Context(), shopperID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Checkout failed", nil)
		return
	}

	resp := resdto.FromCheckout(result)
	switch result.Status {
	case commands.CheckoutSettled:
		c.JSON(http.StatusOK, resp)
	case commands.CheckoutEmptyBasket:
		c.JSON(http.StatusConflict, resp)
	case commands.CheckoutInsufficientBalance:
		c.JSON(http.StatusPaymentRequired, resp)
	case commands.CheckoutNothingSettleable:
		c.JSON(http.StatusConflict, resp)
	default:
		c.JSON(http.StatusOK, resp)
	}
}
