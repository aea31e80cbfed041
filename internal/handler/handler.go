package handler

import (
	"coinrates/internal/service"
	"coinrates/internal/web"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer      trace.Tracer
	rateService *service.RateService
	renderer    *web.Renderer
}

func New(tracer trace.Tracer, rateService *service.RateService, renderer *web.Renderer) *Handler {
	return &Handler{
		tracer:      tracer,
		rateService: rateService,
		renderer:    renderer,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Page)
	r.GET("/health", h.Health)
	r.GET("/api/rates", h.GetRates)
	r.POST("/api/convert", h.Convert)
}
