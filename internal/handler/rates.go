package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetRates godoc
// @Summary      Get the current rate snapshot
// @Description  Returns crypto prices (USD) and fiat rates (per USD) from the latest resolution cycle
// @Tags         rates
// @Produce      json
// @Success      200  {object}  domain.RateSnapshot
// @Failure      503  {object}  map[string]string
// @Router       /api/rates [get]
func (h *Handler) GetRates(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-rates")
	defer span.End()

	snapshot, err := h.rateService.GetSnapshot(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rates unavailable: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
