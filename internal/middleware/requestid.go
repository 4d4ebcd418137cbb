package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"theater-portal/pkg/logger"
)

// RequestIDMiddleware propagates the caller's request id or assigns a new one.
// It must run before logger.Middleware so the id lands on the request logger.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logger.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(logger.RequestIDHeader, requestID)
		c.Response().Header().Set(logger.RequestIDHeader, requestID)
		return next(c)
	}
}
