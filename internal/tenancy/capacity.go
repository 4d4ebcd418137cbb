package tenancy

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultCapacity is the combined ceiling of memberships and pending invites per theater
const DefaultCapacity = 2

// Capacity computes how much of a theater's collaborator ceiling is in use
type Capacity struct {
	memberships MembershipStore
	invites     InviteStore
	limit       int
}

// NewCapacity creates a capacity check; a non-positive limit falls back to DefaultCapacity
func NewCapacity(memberships MembershipStore, invites InviteStore, limit int) *Capacity {
	if limit <= 0 {
		limit = DefaultCapacity
	}
	return &Capacity{
		memberships: memberships,
		invites:     invites,
		limit:       limit,
	}
}

// Limit returns the ceiling
func (c *Capacity) Limit() int {
	return c.limit
}

// Used returns memberships plus pending invites for the theater. Both counts
// are read fresh on every call; nothing is cached between checks.
func (c *Capacity) Used(ctx context.Context, theaterID uint) (int64, error) {
	var members, pending int64

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		n, err := c.memberships.CountByTheater(gctx, theaterID)
		members = n
		return err
	})
	group.Go(func() error {
		n, err := c.invites.CountPending(gctx, theaterID)
		pending = n
		return err
	})
	if err := group.Wait(); err != nil {
		return 0, err
	}

	return members + pending, nil
}
