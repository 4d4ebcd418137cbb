package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

// HealthCheck reports service health including database reachability
func (h *Handler) HealthCheck(c echo.Context) error {
	status := "healthy"
	code := http.StatusOK

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		logger.FromEcho(c).Error("Database ping failed", zap.Error(err))
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, echo.Map{
		"status":  status,
		"service": h.ServiceName,
	})
}

// MetricsHandler serves the Prometheus scrape endpoint
func MetricsHandler(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
