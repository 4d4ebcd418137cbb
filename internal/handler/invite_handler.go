package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"theater-portal/internal/middleware"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

// ListInvites lists pending and accepted invites of the active theater
func (h *Handler) ListInvites(c echo.Context) error {
	theaterID, _ := middleware.ActiveTheaterID(c)

	invites, err := h.Invites.List(c.Request().Context(), theaterID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, invites)
}

// CreateInvite invites an email address to the active theater.
// Over capacity the request fails with 409 LIMIT_REACHED.
func (h *Handler) CreateInvite(c echo.Context) error {
	log := logger.FromEcho(c)
	theaterID, _ := middleware.ActiveTheaterID(c)
	id, _ := middleware.CurrentIdentity(c)

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse invite request", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	inv, err := h.Invites.Create(c.Request().Context(), theaterID, id.UserID, id.Email, req.Email)
	if err != nil {
		log.Warn("Invite rejected", zap.Error(err))
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("invite_create")
	return c.JSON(http.StatusCreated, inv)
}

// DeleteInvite removes an invite, freeing its seat if it was still pending
func (h *Handler) DeleteInvite(c echo.Context) error {
	theaterID, _ := middleware.ActiveTheaterID(c)

	inviteID, ok := uintParam(c, "id")
	if !ok {
		return badRequest(c, "invalid invite id")
	}

	if err := h.Invites.Delete(c.Request().Context(), theaterID, inviteID); err != nil {
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("invite_delete")
	return c.NoContent(http.StatusNoContent)
}
