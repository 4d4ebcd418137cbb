package tenancy

import (
	"context"

	"theater-portal/internal/model"
)

// MembershipStore persists user-to-theater memberships.
// Get returns ErrMembershipNotFound and Create returns ErrDuplicateMembership
// when the (user, theater) unique constraint rejects the insert.
// HasMemberEmail matches the member's account email case-insensitively.
type MembershipStore interface {
	ListByUser(ctx context.Context, userID uint) ([]model.Membership, error)
	ListByTheater(ctx context.Context, theaterID uint) ([]model.Membership, error)
	Get(ctx context.Context, userID, theaterID uint) (*model.Membership, error)
	CountByTheater(ctx context.Context, theaterID uint) (int64, error)
	HasMemberEmail(ctx context.Context, theaterID uint, email string) (bool, error)
	Create(ctx context.Context, m *model.Membership) error
	Delete(ctx context.Context, userID, theaterID uint) error
}

// TheaterStore is the batched theater metadata lookup used during resolution
type TheaterStore interface {
	ListByIDs(ctx context.Context, ids []uint) ([]model.Theater, error)
}

// PreferenceStore holds the per-user active theater.
// Get returns ErrPreferenceNotFound when nothing is stored; Upsert is keyed by user id.
type PreferenceStore interface {
	Get(ctx context.Context, userID uint) (uint, error)
	Upsert(ctx context.Context, userID, theaterID uint) error
}

// InviteStore persists email-addressed invites.
// FirstPendingByEmail matches case-insensitively and returns the earliest
// pending invite, or ErrInviteNotFound.
type InviteStore interface {
	FirstPendingByEmail(ctx context.Context, email string) (*model.Invite, error)
	ListByTheater(ctx context.Context, theaterID uint) ([]model.Invite, error)
	CountPending(ctx context.Context, theaterID uint) (int64, error)
	Create(ctx context.Context, inv *model.Invite) error
	MarkAccepted(ctx context.Context, inviteID, userID uint) error
	Delete(ctx context.Context, theaterID, inviteID uint) error
}
