package api

import (
	"net/http"

	resdto "checkout-service/internal/handler/dto/response"
	"checkout-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventQueries queries.EventQueries
}

func NewEventHandler(eventQueries queries.EventQueries) *EventHandler {
	return &EventHandler{eventQueries: eventQueries}
}

// @Summary List events
// @Description Get the audit trail, optionally filtered by aggregate, ordered by event timestamp
// @Tags events
// @Produce json
// @Param aggregateId query string false "Aggregate ID filter"
// @Success 200 {array} resdto.EventResponse
// @Router /events [get]
func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.eventQueries.GetEvents(c.Request.Context(), c.Query("aggregateId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromEvents(events))
}
