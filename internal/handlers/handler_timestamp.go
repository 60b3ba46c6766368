package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/peerpay-app/peerpay_backend/internal/core/ports/services"
	"github.com/peerpay-app/peerpay_backend/internal/middleware"
)

// timestampHandler surfaces the external clock service value for diagnostics.
type timestampHandler struct {
	clock portssvc.ClockSourceSvc
}

// registerTimestampRoutes registers the timestamp diagnostic route.
func registerTimestampRoutes(rg *gin.RouterGroup, clock portssvc.ClockSourceSvc) {
	h := &timestampHandler{clock: clock}
	rg.GET("/timestamp", h.getTimestamp)
}

// getTimestamp returns the current external timestamp, or 502 when the clock
// service is unreachable.
func (h *timestampHandler) getTimestamp(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if h.clock == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no clock service configured"})
		return
	}

	ts, err := h.clock.Now(c.Request.Context())
	if err != nil {
		logger.Warn("Clock service unavailable", "error", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "clock service unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"timestamp": ts})
}
