package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"theater-portal/internal/middleware"
	"theater-portal/internal/model"
	"theater-portal/internal/tenancy"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

type memberView struct {
	UserID   uint       `json:"user_id"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

// ListMembers lists the active theater's members, earliest first
func (h *Handler) ListMembers(c echo.Context) error {
	ctx := c.Request().Context()
	theaterID, _ := middleware.ActiveTheaterID(c)

	memberships, err := h.Memberships.ListByTheater(ctx, theaterID)
	if err != nil {
		return fail(c, err)
	}
	tenancy.SortEarliestFirst(memberships)

	ids := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.UserID)
	}
	users, err := h.Users.ListByIDs(ctx, ids)
	if err != nil {
		return fail(c, err)
	}
	emails := make(map[uint]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}

	members := make([]memberView, 0, len(memberships))
	for _, m := range memberships {
		members = append(members, memberView{
			UserID:   m.UserID,
			Email:    emails[m.UserID],
			Role:     m.Role,
			JoinedAt: m.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, members)
}

// RemoveMember deletes an editor's membership from the active theater.
// Owners cannot be removed, which keeps every theater owned.
func (h *Handler) RemoveMember(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()
	theaterID, _ := middleware.ActiveTheaterID(c)

	userID, ok := uintParam(c, "user_id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	m, err := h.Memberships.Get(ctx, userID, theaterID)
	if err != nil {
		return fail(c, err)
	}
	if m.Role == model.RoleOwner {
		return fail(c, tenancy.ErrOwnerRemoval)
	}

	if err := h.Memberships.Delete(ctx, userID, theaterID); err != nil {
		return fail(c, err)
	}

	prometheus.RecordTheaterOperation("member_remove")
	log.Info("Member removed", zap.Uint("member_user_id", userID))
	return c.NoContent(http.StatusNoContent)
}
