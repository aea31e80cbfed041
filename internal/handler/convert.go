package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"coinrates/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// convertRequest takes the amount as json.Number so both `"amount": 100`
// and `"amount": "100"` are accepted.
type convertRequest struct {
	Amount json.Number `json:"amount"`
	From   string      `json:"from"`
	To     string      `json:"to"`
}

// Convert godoc
// @Summary      Convert between two currencies
// @Description  Converts an amount between any two known crypto or fiat currencies via USD
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        request  body  convertRequest  true  "Conversion request"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/convert [post]
func (h *Handler) Convert(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.convert")
	defer span.End()

	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	amount, err := req.Amount.Float64()
	if err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	if req.From == "" || req.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}
	span.SetAttributes(attribute.String("from", req.From), attribute.String("to", req.To))

	result, err := h.rateService.Convert(ctx, amount, req.From, req.To)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCurrency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rates unavailable: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"amount": amount,
		"from":   req.From,
		"to":     req.To,
		"result": result,
	})
}
