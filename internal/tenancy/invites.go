package tenancy

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"theater-portal/internal/model"
)

// AcceptOutcome describes what happened to a pending invite on the profile read path
type AcceptOutcome string

const (
	AcceptNone          AcceptOutcome = "none"
	AcceptAccepted      AcceptOutcome = "accepted"
	AcceptAlreadyMember AcceptOutcome = "already_member"
	AcceptDeferred      AcceptOutcome = "deferred"
	AcceptFailed        AcceptOutcome = "failed"
)

// NormalizeEmail lowercases and trims an address for case-insensitive matching
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Invites manages invite creation, deletion and opportunistic acceptance
type Invites struct {
	memberships MembershipStore
	invites     InviteStore
	capacity    *Capacity
	log         *zap.Logger
}

// NewInvites creates the invite service
func NewInvites(memberships MembershipStore, invites InviteStore, capacity *Capacity, log *zap.Logger) *Invites {
	return &Invites{
		memberships: memberships,
		invites:     invites,
		capacity:    capacity,
		log:         log,
	}
}

// List returns every invite of a theater, pending and accepted
func (s *Invites) List(ctx context.Context, theaterID uint) ([]model.Invite, error) {
	return s.invites.ListByTheater(ctx, theaterID)
}

// Create invites email to the theater on behalf of invitedBy.
//
// The capacity check and the insert are separate round-trips, so two
// concurrent creations for one theater can both pass the check and exceed
// the ceiling. Acceptance re-checks capacity, which narrows the window
// without closing it.
func (s *Invites) Create(ctx context.Context, theaterID, invitedBy uint, inviterEmail, email string) (*model.Invite, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	if email == NormalizeEmail(inviterEmail) {
		return nil, fmt.Errorf("%w: cannot invite yourself", ErrInvalidInput)
	}

	member, err := s.memberships.HasMemberEmail(ctx, theaterID, email)
	if err != nil {
		return nil, fmt.Errorf("check existing members: %w", err)
	}
	if member {
		return nil, ErrDuplicateMembership
	}

	used, err := s.capacity.Used(ctx, theaterID)
	if err != nil {
		return nil, fmt.Errorf("count theater seats: %w", err)
	}
	if used >= int64(s.capacity.Limit()) {
		return nil, ErrLimitReached
	}

	inv := &model.Invite{
		TheaterID: theaterID,
		Email:     email,
		Status:    model.InvitePending,
		InvitedBy: invitedBy,
	}
	if err := s.invites.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info("Invite created",
		zap.Uint("theater_id", theaterID),
		zap.Uint("invited_by", invitedBy),
		zap.Uint("invite_id", inv.ID))
	return inv, nil
}

// Delete removes an invite of the theater before or after acceptance
func (s *Invites) Delete(ctx context.Context, theaterID, inviteID uint) error {
	return s.invites.Delete(ctx, theaterID, inviteID)
}

// AcceptPending converts at most one pending invite addressed to email into
// an editor membership. It never returns an error: an over-capacity invite
// stays pending with no user-visible failure until seats are freed, and a
// failed insert leaves the invite pending so a later call retries it.
// An invite for a theater the user already belongs to creates no membership
// but is marked accepted, so it no longer holds a seat.
func (s *Invites) AcceptPending(ctx context.Context, userID uint, email string) AcceptOutcome {
	email = NormalizeEmail(email)
	if email == "" {
		return AcceptNone
	}

	inv, err := s.invites.FirstPendingByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrInviteNotFound) {
			s.log.Warn("Pending invite lookup failed", zap.Uint("user_id", userID), zap.Error(err))
			return AcceptFailed
		}
		return AcceptNone
	}

	log := s.log.With(
		zap.Uint("user_id", userID),
		zap.Uint("theater_id", inv.TheaterID),
		zap.Uint("invite_id", inv.ID))

	if _, err := s.memberships.Get(ctx, userID, inv.TheaterID); err == nil {
		s.settle(ctx, log, inv.ID, userID)
		return AcceptAlreadyMember
	} else if !errors.Is(err, ErrMembershipNotFound) {
		log.Warn("Membership lookup failed during invite acceptance", zap.Error(err))
		return AcceptFailed
	}

	used, err := s.capacity.Used(ctx, inv.TheaterID)
	if err != nil {
		log.Warn("Capacity check failed during invite acceptance", zap.Error(err))
		return AcceptFailed
	}
	// used counts this invite itself, so converting it keeps the total unchanged
	if used > int64(s.capacity.Limit()) {
		log.Info("Invite deferred, theater is over capacity", zap.Int64("used", used))
		return AcceptDeferred
	}

	m := &model.Membership{
		UserID:    userID,
		TheaterID: inv.TheaterID,
		Role:      model.RoleEditor,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		if errors.Is(err, ErrDuplicateMembership) {
			s.settle(ctx, log, inv.ID, userID)
			return AcceptAlreadyMember
		}
		log.Warn("Failed to create membership from invite", zap.Error(err))
		return AcceptFailed
	}

	if err := s.invites.MarkAccepted(ctx, inv.ID, userID); err != nil {
		// the membership exists; the next call settles the invite
		log.Warn("Failed to mark invite accepted", zap.Error(err))
	}

	log.Info("Invite accepted")
	return AcceptAccepted
}

// settle marks the invite of an existing member accepted without touching memberships
func (s *Invites) settle(ctx context.Context, log *zap.Logger, inviteID, userID uint) {
	if err := s.invites.MarkAccepted(ctx, inviteID, userID); err != nil && !errors.Is(err, ErrInviteNotFound) {
		log.Warn("Failed to settle invite for existing member", zap.Error(err))
	}
}
