package tenancy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"theater-portal/internal/model"
)

type inviteFixture struct {
	memberships *fakeMembershipStore
	invites     *fakeInviteStore
	prefs       *fakePreferenceStore
	service     *Invites
	profile     *Profile
}

func newInviteFixture(limit int) *inviteFixture {
	c := newClock()
	f := &inviteFixture{
		memberships: newFakeMembershipStore(c),
		invites:     newFakeInviteStore(c),
		prefs:       newFakePreferenceStore(),
	}
	theaters := newFakeTheaterStore(
		model.Theater{ID: 10, Name: "Alpha Stage", Status: model.TheaterApproved},
		model.Theater{ID: 20, Name: "Beta Hall", Status: model.TheaterApproved},
	)
	f.service = NewInvites(f.memberships, f.invites, NewCapacity(f.memberships, f.invites, limit), zap.NewNop())
	f.profile = NewProfile(f.service, NewResolver(f.memberships, theaters, f.prefs, zap.NewNop()))
	return f
}

func TestCapacity_Used(t *testing.T) {
	f := newInviteFixture(2)
	f.memberships.add(1, 10, model.RoleOwner)
	f.invites.add(10, "a@example.com")
	f.invites.add(20, "b@example.com")

	used, err := f.service.capacity.Used(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), used)
}

func TestCapacity_UsedPropagatesErrors(t *testing.T) {
	f := newInviteFixture(2)
	f.invites.countErr = errors.New("timeout")

	_, err := f.service.capacity.Used(context.Background(), 10)
	assert.Error(t, err)
}

func TestNewCapacity_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewCapacity(nil, nil, 0).Limit())
	assert.Equal(t, 5, NewCapacity(nil, nil, 5).Limit())
}

func TestCreateInvite_CapacityEnforced(t *testing.T) {
	f := newInviteFixture(2)
	f.memberships.add(1, 10, model.RoleOwner)

	inv, err := f.service.Create(context.Background(), 10, 1, "owner@example.com", "first@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.InvitePending, inv.Status)
	assert.NotZero(t, inv.ID)

	_, err = f.service.Create(context.Background(), 10, 1, "owner@example.com", "second@example.com")
	assert.ErrorIs(t, err, ErrLimitReached)

	pending, _ := f.invites.CountPending(context.Background(), 10)
	assert.Equal(t, int64(1), pending)
}

func TestCreateInvite_Validation(t *testing.T) {
	f := newInviteFixture(2)
	f.memberships.add(1, 10, model.RoleOwner)

	tests := []struct {
		name  string
		email string
	}{
		{"empty", "   "},
		{"malformed", "not-an-email"},
		{"display name", "Jane <jane@example.com>"},
		{"self", " Owner@Example.com "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), 10, 1, "owner@example.com", tt.email)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateInvite_NormalizesAndRejectsDuplicates(t *testing.T) {
	f := newInviteFixture(3)
	f.memberships.add(1, 10, model.RoleOwner)

	inv, err := f.service.Create(context.Background(), 10, 1, "owner@example.com", "  Guest@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", inv.Email)

	_, err = f.service.Create(context.Background(), 10, 1, "owner@example.com", "guest@example.com")
	assert.ErrorIs(t, err, ErrDuplicateInvite)
}

func TestCreateInvite_RejectsCurrentMember(t *testing.T) {
	f := newInviteFixture(3)
	f.memberships.add(1, 10, model.RoleOwner)
	f.memberships.add(2, 10, model.RoleEditor)
	f.memberships.setEmail(2, "editor@example.com")

	_, err := f.service.Create(context.Background(), 10, 1, "owner@example.com", "Editor@Example.com")
	assert.ErrorIs(t, err, ErrDuplicateMembership)

	_, err = f.service.Create(context.Background(), 20, 1, "owner@example.com", "editor@example.com")
	assert.NoError(t, err, "membership elsewhere does not block")
}

func TestCreateInvite_AfterAcceptedInviteWasRemoved(t *testing.T) {
	f := newInviteFixture(2)
	f.memberships.add(1, 10, model.RoleOwner)
	f.memberships.setEmail(2, "guest@example.com")
	ctx := context.Background()

	_, err := f.service.Create(ctx, 10, 1, "owner@example.com", "guest@example.com")
	require.NoError(t, err)
	require.Equal(t, AcceptAccepted, f.service.AcceptPending(ctx, 2, "guest@example.com"))
	require.NoError(t, f.memberships.Delete(ctx, 2, 10))

	inv, err := f.service.Create(ctx, 10, 1, "owner@example.com", "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.InvitePending, inv.Status)
}

func TestAcceptPending_NoInvite(t *testing.T) {
	f := newInviteFixture(2)

	assert.Equal(t, AcceptNone, f.service.AcceptPending(context.Background(), 2, "nobody@example.com"))
	assert.Equal(t, AcceptNone, f.service.AcceptPending(context.Background(), 2, ""))
}

func TestAcceptPending_CreatesEditorMembership(t *testing.T) {
	f := newInviteFixture(2)
	f.memberships.add(1, 10, model.RoleOwner)
	inv := f.invites.add(10, "guest@example.com")

	outcome := f.service.AcceptPending(context.Background(), 2, "GUEST@example.com")

	assert.Equal(t, AcceptAccepted, outcome)
	m, err := f.memberships.Get(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, m.Role)
	assert.Equal(t, model.InviteAccepted, f.invites.status(inv.ID))
}

func TestAcceptPending_TwiceYieldsOneMembership(t *testing.T) {
	f := newInviteFixture(2)
	f.memberships.add(1, 10, model.RoleOwner)
	f.invites.add(10, "guest@example.com")

	first := f.service.AcceptPending(context.Background(), 2, "guest@example.com")
	second := f.service.AcceptPending(context.Background(), 2, "guest@example.com")

	assert.Equal(t, AcceptAccepted, first)
	assert.Equal(t, AcceptNone, second)
	assert.Equal(t, 1, f.memberships.countFor(2, 10))
}

func TestAcceptPending_AlreadyMemberSkipsConversion(t *testing.T) {
	f := newInviteFixture(3)
	f.memberships.add(2, 10, model.RoleEditor)
	inv := f.invites.add(10, "guest@example.com")

	outcome := f.service.AcceptPending(context.Background(), 2, "guest@example.com")

	assert.Equal(t, AcceptAlreadyMember, outcome)
	assert.Equal(t, 1, f.memberships.countFor(2, 10))
	assert.Equal(t, model.InviteAccepted, f.invites.status(inv.ID), "settled invite no longer holds a seat")

	pending, _ := f.invites.CountPending(context.Background(), 10)
	assert.Zero(t, pending)
}

func TestAcceptPending_MarkFailureIsSettledLater(t *testing.T) {
	f := newInviteFixture(2)
	f.memberships.add(1, 10, model.RoleOwner)
	f.memberships.add(5, 20, model.RoleOwner)
	first := f.invites.add(10, "guest@example.com")
	second := f.invites.add(20, "guest@example.com")
	f.invites.markErr = errors.New("connection reset")
	f.invites.markFails = 1

	ctx := context.Background()
	assert.Equal(t, AcceptAccepted, f.service.AcceptPending(ctx, 2, "guest@example.com"))
	assert.Equal(t, model.InvitePending, f.invites.status(first.ID))

	used, err := f.service.capacity.Used(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), used, "membership and stale invite both counted")

	assert.Equal(t, AcceptAlreadyMember, f.service.AcceptPending(ctx, 2, "guest@example.com"))
	assert.Equal(t, model.InviteAccepted, f.invites.status(first.ID))

	used, err = f.service.capacity.Used(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), used)

	assert.Equal(t, AcceptAccepted, f.service.AcceptPending(ctx, 2, "guest@example.com"))
	assert.Equal(t, 1, f.memberships.countFor(2, 20))
	assert.Equal(t, model.InviteAccepted, f.invites.status(second.ID))
	assert.Equal(t, 1, f.memberships.countFor(2, 10))
}

func TestAcceptPending_DuplicateInsertSettlesInvite(t *testing.T) {
	f := newInviteFixture(3)
	inv := f.invites.add(10, "guest@example.com")
	f.memberships.createErr = ErrDuplicateMembership

	assert.Equal(t, AcceptAlreadyMember, f.service.AcceptPending(context.Background(), 2, "guest@example.com"))
	assert.Equal(t, model.InviteAccepted, f.invites.status(inv.ID))
}

func TestAcceptPending_OverCapacityStaysPendingUntilFreed(t *testing.T) {
	f := newInviteFixture(2)
	f.memberships.add(1, 10, model.RoleOwner)
	f.memberships.add(3, 10, model.RoleEditor)
	// created directly in the store, past the creation-time check
	inv := f.invites.add(10, "late@example.com")
	blocker := f.invites.add(10, "other@example.com")

	for i := 0; i < 3; i++ {
		assert.Equal(t, AcceptDeferred, f.service.AcceptPending(context.Background(), 4, "late@example.com"))
	}
	assert.Equal(t, 0, f.memberships.countFor(4, 10))
	assert.Equal(t, model.InvitePending, f.invites.status(inv.ID))

	require.NoError(t, f.service.Delete(context.Background(), 10, blocker.ID))
	assert.Equal(t, AcceptDeferred, f.service.AcceptPending(context.Background(), 4, "late@example.com"))

	require.NoError(t, f.memberships.Delete(context.Background(), 3, 10))
	assert.Equal(t, AcceptAccepted, f.service.AcceptPending(context.Background(), 4, "late@example.com"))
	assert.Equal(t, 1, f.memberships.countFor(4, 10))
	assert.Equal(t, model.InviteAccepted, f.invites.status(inv.ID))
}

func TestAcceptPending_InsertFailureKeepsInvitePending(t *testing.T) {
	f := newInviteFixture(2)
	inv := f.invites.add(10, "guest@example.com")
	f.memberships.createErr = errors.New("constraint check failed")

	assert.Equal(t, AcceptFailed, f.service.AcceptPending(context.Background(), 2, "guest@example.com"))
	assert.Equal(t, model.InvitePending, f.invites.status(inv.ID))
	assert.Equal(t, 0, f.invites.markCalls)

	f.memberships.createErr = nil
	assert.Equal(t, AcceptAccepted, f.service.AcceptPending(context.Background(), 2, "guest@example.com"))
	assert.Equal(t, model.InviteAccepted, f.invites.status(inv.ID))
}

func TestAcceptPending_LookupFailureIsSwallowed(t *testing.T) {
	f := newInviteFixture(2)
	f.invites.add(10, "guest@example.com")
	f.invites.findErr = errors.New("timeout")

	assert.Equal(t, AcceptFailed, f.service.AcceptPending(context.Background(), 2, "guest@example.com"))
	assert.Equal(t, 0, f.memberships.countFor(2, 10))
}

func TestAcceptPending_EarliestInviteFirst(t *testing.T) {
	f := newInviteFixture(2)
	f.invites.add(20, "guest@example.com")
	f.invites.add(10, "guest@example.com")

	assert.Equal(t, AcceptAccepted, f.service.AcceptPending(context.Background(), 2, "guest@example.com"))
	assert.Equal(t, 1, f.memberships.countFor(2, 20))
	assert.Equal(t, 0, f.memberships.countFor(2, 10))

	assert.Equal(t, AcceptAccepted, f.service.AcceptPending(context.Background(), 2, "guest@example.com"))
	assert.Equal(t, 1, f.memberships.countFor(2, 10))
}

func TestProfileLoad_AcceptsThenResolves(t *testing.T) {
	f := newInviteFixture(2)
	f.memberships.add(1, 10, model.RoleOwner)
	f.invites.add(10, "guest@example.com")

	res, outcome := f.profile.Load(context.Background(), Identity{UserID: 2, Email: "guest@example.com"})

	assert.Equal(t, AcceptAccepted, outcome)
	require.True(t, res.HasActive())
	assert.Equal(t, uint(10), *res.ActiveTheaterID)
	assert.Equal(t, model.RoleEditor, res.ActiveMembership.Role)
	require.Len(t, res.Theaters, 1)
	assert.Equal(t, "Alpha Stage", res.Theaters[0].Name)
}

func TestProfileLoad_NewUserWithoutInvite(t *testing.T) {
	f := newInviteFixture(2)

	res, outcome := f.profile.Load(context.Background(), Identity{UserID: 9, Email: "new@example.com"})

	assert.Equal(t, AcceptNone, outcome)
	assert.False(t, res.HasActive())
	assert.Empty(t, res.Memberships)
}
