package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"theater-portal/internal/repository"
)

// ListPublicEvents lists published events of approved theaters.
// Query params: q (title or venue substring), from, to, limit.
func (h *Handler) ListPublicEvents(c echo.Context) error {
	from, err := parseTimeParam(c.QueryParam("from"), false)
	if err != nil {
		return badRequest(c, "invalid from: "+err.Error())
	}
	to, err := parseTimeParam(c.QueryParam("to"), true)
	if err != nil {
		return badRequest(c, "invalid to: "+err.Error())
	}
	if from != nil && to != nil && to.Before(*from) {
		return badRequest(c, "to must not precede from")
	}

	filter := repository.EventFilter{
		Query: c.QueryParam("q"),
		From:  from,
		To:    to,
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return badRequest(c, "limit must be a positive integer")
		}
		filter.Limit = limit
	}

	events, err := h.Events.SearchPublished(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, events)
}
