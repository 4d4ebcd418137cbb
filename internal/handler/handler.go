package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"theater-portal/internal/repository"
	"theater-portal/internal/tenancy"
	"theater-portal/pkg/jwtutil"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

// Deps are the collaborators shared by every handler
type Deps struct {
	ServiceName string
	DB          *gorm.DB
	Tokens      *jwtutil.JWTUtil
	BcryptCost  int

	Users       *repository.UserRepo
	Theaters    *repository.TheaterRepo
	Memberships *repository.MembershipRepo
	Events      *repository.EventRepo

	Resolver *tenancy.Resolver
	Invites  *tenancy.Invites
	Profile  *tenancy.Profile
}

// Handler serves the theater portal HTTP API
type Handler struct {
	Deps
}

// New creates a handler; a zero BcryptCost uses bcrypt.DefaultCost
func New(d Deps) *Handler {
	if d.BcryptCost == 0 {
		d.BcryptCost = bcrypt.DefaultCost
	}
	return &Handler{Deps: d}
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{tenancy.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{tenancy.ErrNotOwner, http.StatusForbidden, "FORBIDDEN"},
	{tenancy.ErrOwnerRemoval, http.StatusForbidden, "OWNER_REMOVAL"},
	{tenancy.ErrLimitReached, http.StatusConflict, "LIMIT_REACHED"},
	{tenancy.ErrDuplicateInvite, http.StatusConflict, "DUPLICATE_INVITE"},
	{tenancy.ErrDuplicateMembership, http.StatusConflict, "ALREADY_MEMBER"},
	{repository.ErrDuplicateUser, http.StatusConflict, "EMAIL_TAKEN"},
	{tenancy.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{tenancy.ErrMembershipNotFound, http.StatusNotFound, "NOT_FOUND"},
	{tenancy.ErrInviteNotFound, http.StatusNotFound, "NOT_FOUND"},
	{tenancy.ErrTheaterNotFound, http.StatusNotFound, "NOT_FOUND"},
	{repository.ErrEventNotFound, http.StatusNotFound, "NOT_FOUND"},
}

// fail writes the response for err. Unmapped errors are logged and hidden behind a 500.
func fail(c echo.Context, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			prometheus.RecordError(m.code)
			return c.JSON(m.status, echo.Map{"error": err.Error(), "code": m.code})
		}
	}

	logger.FromEcho(c).Error("Request failed", zap.Error(err))
	prometheus.RecordError("internal")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error", "code": "INTERNAL"})
}

func badRequest(c echo.Context, msg string) error {
	prometheus.RecordError("invalid_request")
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "code": "INVALID_INPUT"})
}

func uintParam(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
