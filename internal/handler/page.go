package handler

import (
	"net/http"

	"coinrates/internal/i18n"
	"coinrates/internal/web"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Page renders the converter page. The locale comes from ?lang=; the
// default is Traditional Chinese, matching the primary audience.
func (h *Handler) Page(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.page")
	defer span.End()

	locale := i18n.Normalize(c.Query("lang"))
	span.SetAttributes(attribute.String("locale", locale))

	snapshot, err := h.rateService.GetSnapshot(ctx)
	if err != nil {
		c.Status(http.StatusServiceUnavailable)
		c.Header("Content-Type", "text/html; charset=utf-8")
		_ = h.renderer.RenderError(c.Writer, &web.ErrorData{
			Locale:  locale,
			T:       i18n.Table(locale),
			Message: i18n.T(locale, "error_try_later"),
		})
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderPage(c.Writer, web.BuildPageData(snapshot, locale)); err != nil {
		span.RecordError(err)
	}
}
