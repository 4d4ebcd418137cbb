package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"theater-portal/internal/tenancy"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

// ResolutionKey holds the *tenancy.Resolution of the current request
const ResolutionKey = "theater_resolution"

// Resolver selects the caller's active theater
type Resolver interface {
	Resolve(ctx context.Context, userID uint) *tenancy.Resolution
}

// RequireActiveTheater resolves the caller's active theater on every request
// and rejects callers that belong to no theater.
func RequireActiveTheater(resolver Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			id, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			res := resolver.Resolve(c.Request().Context(), id.UserID)
			if !res.HasActive() {
				log.Warn("Missing theater context")
				prometheus.RecordError("no_theater")
				return c.JSON(http.StatusForbidden, echo.Map{
					"error":   "theater context required",
					"message": "Create a theater or accept an invite before accessing this resource",
				})
			}

			c.Set(ResolutionKey, res)
			logger.SetEcho(c, log.With(
				zap.Uint("theater_id", *res.ActiveTheaterID),
				zap.String("role", string(res.ActiveMembership.Role)),
			))

			return next(c)
		}
	}
}

// RequireOwner allows only owners of the active theater. It must run after RequireActiveTheater.
func RequireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, ok := ActiveResolution(c)
		if !ok || !res.IsOwner() {
			logger.FromEcho(c).Warn("Owner role required")
			prometheus.RecordError("forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "owner role required"})
		}
		return next(c)
	}
}

// ActiveResolution returns the resolution stored by RequireActiveTheater
func ActiveResolution(c echo.Context) (*tenancy.Resolution, bool) {
	res, ok := c.Get(ResolutionKey).(*tenancy.Resolution)
	if !ok || !res.HasActive() {
		return nil, false
	}
	return res, true
}

// ActiveTheaterID returns the active theater id stored by RequireActiveTheater
func ActiveTheaterID(c echo.Context) (uint, bool) {
	res, ok := ActiveResolution(c)
	if !ok {
		return 0, false
	}
	return *res.ActiveTheaterID, true
}
