package api

import (
	"net/http"

	resdto "checkout-service/internal/handler/dto/response"
	"checkout-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryQueries queries.InventoryQueries
}

func NewInventoryHandler(inventoryQueries queries.InventoryQueries) *InventoryHandler {
	return &InventoryHandler{inventoryQueries: inventoryQueries}
}

// @Summary List inventory
// @Description Get the stock ledger for all products
// @Tags inventory
// @Produce json
// @Success 200 {array} resdto.InventoryResponse
// @Router /inventory [get]
func (h *InventoryHandler) GetAllInventory(c *gin.Context) {
	records, err := h.inventoryQueries.GetAllInventory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromInventoryRecords(records))
}
