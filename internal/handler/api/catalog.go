package api

import (
	"net/http"

	resdto "storefront-engine/internal/handler/dto/response"
	"storefront-engine/internal/handler/httperr"
	"storefront-engine/internal/usecase/commands"
	"storefront-engine/internal/usecase/queries"

	"storefront-engine/internal/domain/lot"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	cmds commands.CatalogCommands
	q    queries.CatalogQueries
}

func NewCatalogHandler(cmds commands.CatalogCommands, q queries.CatalogQueries) *CatalogHandler {
	return &CatalogHandler{cmds: cmds, q: q}
}

// @Summary List free stock
// @Description Lots with at least one unreserved unit, filterable by location and product
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param city query string false "City filter"
// @Param district query string false "District filter"
// @Param product_type query string false "Product type filter"
// @Param size query string false "Size filter"
// @Success 200 {object} resdto.CatalogResponse
// @Failure 401 {object} httperr.Response
// @Router /catalog/lots [get]
func (h *CatalogHandler) ListLots(c *gin.Context) {
	filter := lot.Filter{
		City:        c.Query("city"),
		District:    c.Query("district"),
		ProductType: c.Query("product_type"),
		Size:        c.Query("size"),
	}

	items, err := h.q.ListFreeStock(c.Request.Context(), filter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to list lots", nil)
		return
	}
	resp, err := resdto.FromLotList(items)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to render lots", nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Withdraw lot
// @Description Remove a lot from sale along with every hold on it
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param lotID path string true "Lot ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /catalog/lots/{lotID} [delete]
func (h *CatalogHandler) WithdrawLot(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("lotID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid lot ID format", nil)
		return
	}

	result, err := h.cmds.WithdrawLot(c.Request.Context(), lotID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to withdraw lot", nil)
		return
	}
	if !result.Found {
		httperr.AbortWithError(c, http.StatusNotFound, commands.ErrLotNotFound, "Lot not found", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
