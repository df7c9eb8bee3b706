package api

import (
	"net/http"
	"strconv"

	reqdto "storefront-engine/internal/handler/dto/request"
	resdto "storefront-engine/internal/handler/dto/response"
	"storefront-engine/internal/handler/httperr"
	"storefront-engine/internal/handler/middleware"
	"storefront-engine/internal/pkg/errs"
	"storefront-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type TopUpHandler struct {
	cmds commands.TopUpCommands
}

func NewTopUpHandler(cmds commands.TopUpCommands) *TopUpHandler {
	return &TopUpHandler{cmds: cmds}
}

// @Summary Initiate top-up
// @Description Create a crypto invoice to credit the shopper balance
// @Tags topups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.InitiateTopUpRequest true "Top-up request"
// @Success 201 {object} resdto.InitiateTopUpResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /topups [post]
func (h *TopUpHandler) Initiate(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}
	var req reqdto.InitiateTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.InitiateTopUp(c.Request.Context(), shopperID, req.Amount, req.NormalizedAsset())
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrTopUpBelowMinimum):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Amount below minimum top-up", nil)
		case errs.Is(err, commands.ErrGatewayFailure):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to initiate top-up", nil)
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromInitiateTopUp(result))
}

// @Summary Check top-up status
// @Description Poll the invoice and credit the balance when paid
// @Tags topups
// @Produce json
// @Security BearerAuth
// @Param invoiceID path int true "Invoice ID"
// @Success 200 {object} resdto.TopUpStatusResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /topups/{invoiceID} [get]
func (h *TopUpHandler) Status(c *gin.Context) {
	shopperID, ok := middleware.GetShopperID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoShopperInContext, "Unauthorized", nil)
		return
	}
	invoiceID, err := strconv.ParseInt(c.Param("invoiceID"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid invoice ID format", nil)
		return
	}

	result, err := h.cmds.CheckTopUpStatus(c.Request.Context(), shopperID, invoiceID)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInvoiceNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Pending invoice not found", nil)
		case errs.Is(err, commands.ErrGatewayFailure):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to check top-up", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromTopUpStatus(result))
}
