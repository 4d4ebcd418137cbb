package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"theater-portal/internal/model"
	"theater-portal/internal/repository"
	"theater-portal/internal/tenancy"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates a local identity and returns a token for it
func (h *Handler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req credentials
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse registration request", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	req.Email = tenancy.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "a valid email and a password of 8 to 72 characters are required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		return fail(c, err)
	}

	user := &model.User{Email: req.Email, Password: string(hashed)}
	if err := h.Users.Create(c.Request().Context(), user); err != nil {
		log.Warn("Registration rejected", zap.Error(err))
		return fail(c, err)
	}

	token, err := h.Tokens.GenerateToken(user.Email, user.ID)
	if err != nil {
		return fail(c, err)
	}

	log.Info("User registered", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Login verifies credentials and issues a token. The token carries no theater;
// the active theater is resolved per request.
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req credentials
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login request", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	user, err := h.Users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return fail(c, err)
		}
		prometheus.RecordError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.Uint("user_id", user.ID))
		prometheus.RecordError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := h.Tokens.GenerateToken(user.Email, user.ID)
	if err != nil {
		return fail(c, err)
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}
