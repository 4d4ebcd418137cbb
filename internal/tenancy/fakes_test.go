package tenancy

import (
	"context"
	"strings"
	"sync"
	"time"

	"theater-portal/internal/model"
)

// clock hands out strictly increasing timestamps so creation order is deterministic
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type fakeMembershipStore struct {
	mu        sync.Mutex
	clock     *clock
	nextID    uint
	rows      []model.Membership
	emails    map[uint]string
	listErr   error
	getErr    error
	countErr  error
	createErr error
}

func newFakeMembershipStore(c *clock) *fakeMembershipStore {
	return &fakeMembershipStore{clock: c, emails: make(map[uint]string)}
}

func (f *fakeMembershipStore) setEmail(userID uint, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails[userID] = email
}

func (f *fakeMembershipStore) add(userID, theaterID uint, role model.Role) model.Membership {
	m := &model.Membership{UserID: userID, TheaterID: theaterID, Role: role}
	if err := f.Create(context.Background(), m); err != nil {
		panic(err)
	}
	return *m
}

func (f *fakeMembershipStore) ListByUser(_ context.Context, userID uint) ([]model.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	// reversed on purpose: ordering must come from EarliestFirst, not the store
	var out []model.Membership
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeMembershipStore) ListByTheater(_ context.Context, theaterID uint) ([]model.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Membership
	for _, m := range f.rows {
		if m.TheaterID == theaterID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMembershipStore) Get(_ context.Context, userID, theaterID uint) (*model.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, m := range f.rows {
		if m.UserID == userID && m.TheaterID == theaterID {
			found := m
			return &found, nil
		}
	}
	return nil, ErrMembershipNotFound
}

func (f *fakeMembershipStore) CountByTheater(_ context.Context, theaterID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for _, m := range f.rows {
		if m.TheaterID == theaterID {
			n++
		}
	}
	return n, nil
}

func (f *fakeMembershipStore) HasMemberEmail(_ context.Context, theaterID uint, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.TheaterID == theaterID && strings.EqualFold(f.emails[m.UserID], email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMembershipStore) Create(_ context.Context, m *model.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.rows {
		if existing.UserID == m.UserID && existing.TheaterID == m.TheaterID {
			return ErrDuplicateMembership
		}
	}
	f.nextID++
	m.ID = f.nextID
	m.CreatedAt = f.clock.tick()
	m.UpdatedAt = m.CreatedAt
	f.rows = append(f.rows, *m)
	return nil
}

func (f *fakeMembershipStore) Delete(_ context.Context, userID, theaterID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.rows {
		if m.UserID == userID && m.TheaterID == theaterID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrMembershipNotFound
}

func (f *fakeMembershipStore) countFor(userID, theaterID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.rows {
		if m.UserID == userID && m.TheaterID == theaterID {
			n++
		}
	}
	return n
}

type fakeTheaterStore struct {
	mu       sync.Mutex
	theaters map[uint]model.Theater
	err      error
	calls    [][]uint
}

func newFakeTheaterStore(theaters ...model.Theater) *fakeTheaterStore {
	f := &fakeTheaterStore{theaters: make(map[uint]model.Theater)}
	for _, t := range theaters {
		f.theaters[t.ID] = t
	}
	return f
}

func (f *fakeTheaterStore) ListByIDs(_ context.Context, ids []uint) ([]model.Theater, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]uint(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Theater
	for _, id := range ids {
		if t, ok := f.theaters[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakePreferenceStore struct {
	mu        sync.Mutex
	prefs     map[uint]uint
	getErr    error
	upsertErr error
	writes    int
}

func newFakePreferenceStore() *fakePreferenceStore {
	return &fakePreferenceStore{prefs: make(map[uint]uint)}
}

func (f *fakePreferenceStore) Get(_ context.Context, userID uint) (uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return 0, f.getErr
	}
	id, ok := f.prefs[userID]
	if !ok {
		return 0, ErrPreferenceNotFound
	}
	return id, nil
}

func (f *fakePreferenceStore) Upsert(_ context.Context, userID, theaterID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.writes++
	f.prefs[userID] = theaterID
	return nil
}

func (f *fakePreferenceStore) stored(userID uint) (uint, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.prefs[userID]
	return id, ok
}

func (f *fakePreferenceStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

type fakeInviteStore struct {
	mu        sync.Mutex
	clock     *clock
	nextID    uint
	rows      []model.Invite
	findErr   error
	markErr   error
	markFails int
	countErr  error
	markCalls int
}

func newFakeInviteStore(c *clock) *fakeInviteStore {
	return &fakeInviteStore{clock: c}
}

func (f *fakeInviteStore) add(theaterID uint, email string) model.Invite {
	inv := &model.Invite{TheaterID: theaterID, Email: email, Status: model.InvitePending}
	if err := f.Create(context.Background(), inv); err != nil {
		panic(err)
	}
	return *inv
}

func (f *fakeInviteStore) FirstPendingByEmail(_ context.Context, email string) (*model.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, inv := range f.rows {
		if inv.Status == model.InvitePending && strings.EqualFold(inv.Email, email) {
			found := inv
			return &found, nil
		}
	}
	return nil, ErrInviteNotFound
}

func (f *fakeInviteStore) ListByTheater(_ context.Context, theaterID uint) ([]model.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Invite
	for _, inv := range f.rows {
		if inv.TheaterID == theaterID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInviteStore) CountPending(_ context.Context, theaterID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	var n int64
	for _, inv := range f.rows {
		if inv.TheaterID == theaterID && inv.Status == model.InvitePending {
			n++
		}
	}
	return n, nil
}

func (f *fakeInviteStore) Create(_ context.Context, inv *model.Invite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Status == model.InvitePending && existing.TheaterID == inv.TheaterID &&
			strings.EqualFold(existing.Email, inv.Email) {
			return ErrDuplicateInvite
		}
	}
	f.nextID++
	inv.ID = f.nextID
	inv.CreatedAt = f.clock.tick()
	inv.UpdatedAt = inv.CreatedAt
	f.rows = append(f.rows, *inv)
	return nil
}

func (f *fakeInviteStore) MarkAccepted(_ context.Context, inviteID, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	if f.markErr != nil && f.markFails > 0 {
		f.markFails--
		return f.markErr
	}
	for i := range f.rows {
		if f.rows[i].ID == inviteID && f.rows[i].Status == model.InvitePending {
			now := f.clock.tick()
			f.rows[i].Status = model.InviteAccepted
			f.rows[i].AcceptedBy = &userID
			f.rows[i].AcceptedAt = &now
			return nil
		}
	}
	return ErrInviteNotFound
}

func (f *fakeInviteStore) Delete(_ context.Context, theaterID, inviteID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, inv := range f.rows {
		if inv.ID == inviteID && inv.TheaterID == theaterID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrInviteNotFound
}

func (f *fakeInviteStore) status(inviteID uint) model.InviteStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.rows {
		if inv.ID == inviteID {
			return inv.Status
		}
	}
	return ""
}

var (
	_ MembershipStore = (*fakeMembershipStore)(nil)
	_ TheaterStore    = (*fakeTheaterStore)(nil)
	_ PreferenceStore = (*fakePreferenceStore)(nil)
	_ InviteStore     = (*fakeInviteStore)(nil)
)
