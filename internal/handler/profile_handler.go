package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"theater-portal/internal/middleware"
	"theater-portal/internal/tenancy"
	"theater-portal/pkg/logger"
)

type profileResponse struct {
	UserID uint                  `json:"user_id"`
	Email  string                `json:"email"`
	Invite tenancy.AcceptOutcome `json:"invite"`
	*tenancy.Resolution
}

// GetMe is the current-user read path. A pending invite for the caller's
// email is converted first, then the active theater is resolved.
func (h *Handler) GetMe(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	res, outcome := h.Profile.Load(c.Request().Context(), id)
	if outcome == tenancy.AcceptAccepted {
		logger.FromEcho(c).Info("Pending invite converted on profile read",
			zap.Uintp("active_theater_id", res.ActiveTheaterID))
	}

	return c.JSON(http.StatusOK, profileResponse{
		UserID:     id.UserID,
		Email:      id.Email,
		Invite:     outcome,
		Resolution: res,
	})
}
