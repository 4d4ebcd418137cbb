package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"theater-portal/internal/model"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

// ListTheaters lists theaters for review, optionally filtered by ?status=
func (h *Handler) ListTheaters(c echo.Context) error {
	status := model.TheaterStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return badRequest(c, "unknown status")
	}

	theaters, err := h.Theaters.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, theaters)
}

// UpdateTheaterStatus approves, rejects or suspends a theater
func (h *Handler) UpdateTheaterStatus(c echo.Context) error {
	log := logger.FromEcho(c)

	theaterID, ok := uintParam(c, "id")
	if !ok {
		return badRequest(c, "invalid theater id")
	}

	var req struct {
		Status model.TheaterStatus `json:"status" validate:"required,oneof=pending approved rejected suspended"`
	}
	if err := c.Bind(&req); err != nil || c.Validate(&req) != nil {
		return badRequest(c, "status must be pending, approved, rejected or suspended")
	}

	theater, err := h.Theaters.UpdateStatus(c.Request().Context(), theaterID, req.Status)
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("status_" + string(req.Status))
	log.Info("Theater status changed",
		zap.Uint("theater_id", theaterID),
		zap.String("status", string(req.Status)))
	return c.JSON(http.StatusOK, theater)
}
