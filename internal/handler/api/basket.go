package api

import (
	"errors"
	"net/http"

	reqdto "storefront-engine/internal/handler/dto/request"
	resdto "storefront-engine/internal/handler/dto/response"
	"storefront-engine/internal/handler/httperr"
	"storefront-engine/internal/handler/middleware"
	"storefront-engine/internal/pkg/errs"
	"storefront-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errNoShopperInContext = errs.New("no shopper id in request context")

type BasketHandler struct {
	cmds commands.BasketCommands
}

func NewBasketHandler(cmds commands.BasketCommands) *BasketHandler {
	return &BasketHandler{cmds: cmds}
}

// @Summary Add item to basket
// @Description Reserve one unit of a lot and hold it in the basket
// @Tags basket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AddBasketItemRequest true "Lot to hold"
// @Success 201 {object} resdto.AddBasketItemResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /basket/items [post]
func (h *BasketHandler) AddItem(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}
	var req reqdto.AddBasketItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.AddToBasket(c.Request.Context(), shopperID, req.LotID)
	if err != nil {
		if errors.Is(err, commands.ErrLotNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Lot not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to add item", nil)
		return
	}
	if result.OutOfStock {
		httperr.AbortWithError(c, http.StatusConflict, errs.New("lot out of stock"), "Lot is sold out or fully reserved", nil)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromAddToBasket(result))
}

// @Summary Remove item from basket
// @Description Release the oldest hold on the given lot
// @Tags basket
// @Produce json
// @Security BearerAuth
// @Param lotID path string true "Lot ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /basket/items/{lotID} [delete]
func (h *BasketHandler) RemoveItem(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}
	lotID, err := uuid.Parse(c.Param("lotID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid lot ID format", nil)
		return
	}

	if err := h.cmds.RemoveFromBasket(c.Request.Context(), shopperID, lotID); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to remove item", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Clear basket
// @Description Release every hold and the applied discount
// @Tags basket
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} httperr.Response
// @Router /basket [delete]
func (h *BasketHandler) Clear(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}
	if err := h.cmds.ClearBasket(c.Request.Context(), shopperID); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to clear basket", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary View basket
// @Description Current holds, subtotal and applied discount after expiry sweep
// @Tags basket
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BasketResponse
// @Failure 401 {object} httperr.Response
// @Router /basket [get]
func (h *BasketHandler) View(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}
	view, err := h.cmds.ViewBasket(c.Request.Context(), shopperID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load basket", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBasketView(view))
}

// @Summary Apply discount code
// @Description Validate a code against the current basket and apply it
// @Tags basket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ApplyDiscountRequest true "Discount code"
// @Success 200 {object} resdto.DiscountValidationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /basket/discount [post]
func (h *BasketHandler) ApplyDiscount(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}
	var req reqdto.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.ApplyDiscount(c.Request.Context(), shopperID, req.NormalizedCode())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to apply discount", nil)
		return
	}
	if result.EmptyBasket {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.New("basket is empty"), "Basket is empty", nil)
		return
	}
	if !result.Validation.Valid {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, errs.New("discount rejected"),
			"Discount code rejected", gin.H{"reason": string(result.Validation.Reason)})
		return
	}
	c.JSON(http.StatusOK, resdto.FromApplyDiscount(result))
}

// @Summary Remove discount code
// @Description Drop the applied discount selection
// @Tags basket
// @Produce json
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} httperr.Response
// @Router /basket/discount [delete]
func (h *BasketHandler) RemoveDiscount(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}
	if err := h.cmds.RemoveDiscount(c.Request.Context(), shopperID); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to remove discount", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
