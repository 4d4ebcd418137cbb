package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"theater-portal/internal/middleware"
	"theater-portal/internal/model"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

type theaterRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email,max=255"`
	Website      string `json:"website" validate:"omitempty,http_url,max=255"`
	City         string `json:"city" validate:"max=100"`
}

type theaterPatch struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ContactEmail *string `json:"contact_email"`
	Website      *string `json:"website"`
	City         *string `json:"city"`
}

// CreateTheater onboards a new theater owned by the caller and makes it active.
// New theaters start pending until an admin approves them.
func (h *Handler) CreateTheater(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req theaterRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse theater request", zap.Error(err))
		return badRequest(c, "invalid request")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.ContactEmail = strings.TrimSpace(req.ContactEmail)
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "invalid theater: "+err.Error())
	}

	theater := &model.Theater{
		Name:         req.Name,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		Website:      req.Website,
		City:         strings.TrimSpace(req.City),
		Status:       model.TheaterPending,
	}
	owner, err := h.Theaters.CreateWithOwner(c.Request().Context(), theater, id.UserID)
	if err != nil {
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("create")
	log.Info("Theater created", zap.Uint("theater_id", theater.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"theater":    theater,
		"membership": owner,
	})
}

// GetActiveTheater returns the caller's resolved theater context
func (h *Handler) GetActiveTheater(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	return c.JSON(http.StatusOK, h.Resolver.Resolve(c.Request().Context(), id.UserID))
}

// SetActiveTheater switches the caller to another theater they belong to
func (h *Handler) SetActiveTheater(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		TheaterID uint `json:"theater_id"`
	}
	if err := c.Bind(&req); err != nil || req.TheaterID == 0 {
		return badRequest(c, "theater_id is required")
	}

	if err := h.Resolver.SetActive(c.Request().Context(), id.UserID, req.TheaterID); err != nil {
		log.Warn("Theater switch rejected", zap.Uint("theater_id", req.TheaterID), zap.Error(err))
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("switch")
	log.Info("Active theater switched", zap.Uint("theater_id", req.TheaterID))
	return c.JSON(http.StatusOK, echo.Map{
		"ok":                true,
		"active_theater_id": req.TheaterID,
	})
}

// GetTheater returns the active theater's profile
func (h *Handler) GetTheater(c echo.Context) error {
	theaterID, _ := middleware.ActiveTheaterID(c)

	theater, err := h.Theaters.Get(c.Request().Context(), theaterID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, theater)
}

// UpdateTheater edits the active theater's profile. Approval status is admin-only.
func (h *Handler) UpdateTheater(c echo.Context) error {
	log := logger.FromEcho(c)
	theaterID, _ := middleware.ActiveTheaterID(c)

	var req theaterPatch
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse theater update", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	theater, err := h.Theaters.Get(c.Request().Context(), theaterID)
	if err != nil {
		return fail(c, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if validate.Var(name, "required,max=150") != nil {
			return badRequest(c, "name must be 1 to 150 characters")
		}
		theater.Name = name
	}
	if req.Description != nil {
		theater.Description = *req.Description
	}
	if req.ContactEmail != nil {
		email := strings.TrimSpace(*req.ContactEmail)
		if validate.Var(email, "omitempty,email,max=255") != nil {
			return badRequest(c, "contact_email must be a valid email")
		}
		theater.ContactEmail = email
	}
	if req.Website != nil {
		if validate.Var(*req.Website, "omitempty,http_url,max=255") != nil {
			return badRequest(c, "website must be an http or https URL")
		}
		theater.Website = *req.Website
	}
	if req.City != nil {
		city := strings.TrimSpace(*req.City)
		if validate.Var(city, "max=100") != nil {
			return badRequest(c, "city must be at most 100 characters")
		}
		theater.City = city
	}

	if err := h.Theaters.UpdateProfile(c.Request().Context(), theater); err != nil {
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("profile_update")
	return c.JSON(http.StatusOK, theater)
}
