package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"theater-portal/internal/middleware"
	"theater-portal/internal/model"
	"theater-portal/internal/tenancy"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

type eventRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description"`
	Venue       string            `json:"venue" validate:"max=200"`
	StartsAt    time.Time         `json:"starts_at"`
	EndsAt      *time.Time        `json:"ends_at"`
	TicketURL   string            `json:"ticket_url" validate:"omitempty,http_url,max=500"`
	Status      model.EventStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

// apply checks the rules validate tags cannot express and copies r onto e
func (r *eventRequest) apply(e *model.Event, res *tenancy.Resolution) string {
	switch {
	case r.StartsAt.IsZero():
		return "starts_at is required"
	case r.EndsAt != nil && r.EndsAt.Before(r.StartsAt):
		return "ends_at must not precede starts_at"
	}

	status := r.Status
	if status == "" {
		status = model.EventDraft
	}
	if status == model.EventPublished && activeStatus(res) != model.TheaterApproved {
		return "theater must be approved before publishing events"
	}

	e.Title = r.Title
	e.Description = r.Description
	e.Venue = strings.TrimSpace(r.Venue)
	e.StartsAt = r.StartsAt.UTC()
	e.EndsAt = nil
	if r.EndsAt != nil {
		ends := r.EndsAt.UTC()
		e.EndsAt = &ends
	}
	e.TicketURL = r.TicketURL
	e.Status = status
	return ""
}

func activeStatus(res *tenancy.Resolution) model.TheaterStatus {
	for _, t := range res.Theaters {
		if t.ID == *res.ActiveTheaterID {
			return t.Status
		}
	}
	return ""
}

// ListEvents lists the active theater's events, drafts included
func (h *Handler) ListEvents(c echo.Context) error {
	theaterID, _ := middleware.ActiveTheaterID(c)

	events, err := h.Events.List(c.Request().Context(), theaterID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent returns one event of the active theater
func (h *Handler) GetEvent(c echo.Context) error {
	theaterID, _ := middleware.ActiveTheaterID(c)

	eventID, ok := uintParam(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	event, err := h.Events.Get(c.Request().Context(), theaterID, eventID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// CreateEvent adds an event to the active theater
func (h *Handler) CreateEvent(c echo.Context) error {
	log := logger.FromEcho(c)
	res, _ := middleware.ActiveResolution(c)

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse event request", zap.Error(err))
		return badRequest(c, "invalid request")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "invalid event: "+err.Error())
	}

	event := &model.Event{TheaterID: *res.ActiveTheaterID}
	if msg := req.apply(event, res); msg != "" {
		return badRequest(c, msg)
	}

	if err := h.Events.Create(c.Request().Context(), event); err != nil {
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("event_create")
	log.Info("Event created", zap.Uint("event_id", event.ID))
	return c.JSON(http.StatusCreated, event)
}

// UpdateEvent replaces an event of the active theater
func (h *Handler) UpdateEvent(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	res, _ := middleware.ActiveResolution(c)

	eventID, ok := uintParam(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	var req eventRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse event request", zap.Error(err))
		return badRequest(c, "invalid request")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "invalid event: "+err.Error())
	}

	event, err := h.Events.Get(ctx, *res.ActiveTheaterID, eventID)
	if err != nil {
		return fail(c, err)
	}
	if msg := req.apply(event, res); msg != "" {
		return badRequest(c, msg)
	}

	if err := h.Events.Update(ctx, event); err != nil {
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("event_update")
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event of the active theater
func (h *Handler) DeleteEvent(c echo.Context) error {
	theaterID, _ := middleware.ActiveTheaterID(c)

	eventID, ok := uintParam(c, "id")
	if !ok {
		return badRequest(c, "invalid event id")
	}

	if err := h.Events.Delete(c.Request().Context(), theaterID, eventID); err != nil {
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("event_delete")
	return c.NoContent(http.StatusNoContent)
}
