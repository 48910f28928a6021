package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hms-analytics/internal/http/middleware"
	"hms-analytics/internal/model"
	"hms-analytics/internal/service"
)

type Handler struct {
	dashboards *service.DashboardService
	exports    *service.ExportService
	log        zerolog.Logger
}

func NewHandler(dashboards *service.DashboardService, exports *service.ExportService, log zerolog.Logger) *Handler {
	return &Handler{dashboards: dashboards, exports: exports, log: log}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/analytics")
	protected.Use(authMiddleware)

	protected.GET("/dashboard", h.getDashboard)
	protected.GET("/export/research", h.getResearchExport)
}

func (h *Handler) getDashboard(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	from, to, preset := parseWindowQuery(c)

	dashboard, err := h.dashboards.GetDashboard(c.Request.Context(), principal, from, to, preset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(dashboard))
}

func (h *Handler) getResearchExport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	from, to, preset := parseWindowQuery(c)

	workbook, win, err := h.exports.BuildResearchExport(c.Request.Context(), principal, from, to, preset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename(win)+`"`)
	c.Status(http.StatusOK)
	if err := workbook.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Msg("failed to stream export workbook")
	}
}

func parseWindowQuery(c *gin.Context) (from, to string, preset model.Preset) {
	from = strings.TrimSpace(c.Query("from"))
	to = strings.TrimSpace(c.Query("to"))
	preset = model.ParsePreset(c.Query("range"))
	return from, to, preset
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{"data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
