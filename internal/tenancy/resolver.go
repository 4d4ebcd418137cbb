package tenancy

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"theater-portal/internal/model"
	"theater-portal/prometheus"
)

// TheaterSummary is one entry of the theater switcher
type TheaterSummary struct {
	ID     uint                `json:"id"`
	Name   string              `json:"name"`
	Status model.TheaterStatus `json:"status"`
	Role   model.Role          `json:"role"`
}

// Resolution is the outcome of resolving a user's active theater.
// ActiveTheaterID is nil only when the user has no memberships.
type Resolution struct {
	ActiveTheaterID  *uint              `json:"active_theater_id"`
	ActiveMembership *model.Membership  `json:"active_membership"`
	Theaters         []TheaterSummary   `json:"theaters"`
	Memberships      []model.Membership `json:"memberships"`
}

// HasActive reports whether an active theater was selected
func (r *Resolution) HasActive() bool {
	return r != nil && r.ActiveTheaterID != nil
}

// IsOwner reports whether the user owns the active theater
func (r *Resolution) IsOwner() bool {
	return r.HasActive() && r.ActiveMembership.Role == model.RoleOwner
}

// Resolver selects exactly one active theater per user and persists the choice
type Resolver struct {
	memberships MembershipStore
	theaters    TheaterStore
	prefs       PreferenceStore
	log         *zap.Logger
}

// NewResolver creates a resolver over the given stores
func NewResolver(memberships MembershipStore, theaters TheaterStore, prefs PreferenceStore, log *zap.Logger) *Resolver {
	return &Resolver{
		memberships: memberships,
		theaters:    theaters,
		prefs:       prefs,
		log:         log,
	}
}

// Resolve determines the user's active theater. It never fails: storage
// errors collapse to the "no active theater" result or to the fallback rule.
//
// The stored preference wins when it names a current membership; otherwise
// the earliest-created membership is selected. The selection is written back
// whenever it differs from what was stored.
func (r *Resolver) Resolve(ctx context.Context, userID uint) *Resolution {
	res := &Resolution{
		Theaters:    []TheaterSummary{},
		Memberships: []model.Membership{},
	}

	memberships, err := r.memberships.ListByUser(ctx, userID)
	if err != nil {
		r.log.Warn("Failed to load memberships, resolving to no theater",
			zap.Uint("user_id", userID), zap.Error(err))
	}
	if len(memberships) == 0 {
		prometheus.RecordResolution("none")
		return res
	}
	SortEarliestFirst(memberships)

	theaters := r.theaterIndex(ctx, memberships)

	active := memberships[0]
	source := "fallback"
	stored, hasStored := r.preferenceOf(ctx, userID)
	if hasStored {
		for _, m := range memberships {
			if m.TheaterID == stored {
				active = m
				source = "preference"
				break
			}
		}
	}
	prometheus.RecordResolution(source)

	if !hasStored || stored != active.TheaterID {
		r.persist(ctx, userID, active.TheaterID)
	}

	for _, m := range memberships {
		t := theaters[m.TheaterID]
		res.Theaters = append(res.Theaters, TheaterSummary{
			ID:     m.TheaterID,
			Name:   t.Name,
			Status: t.Status,
			Role:   m.Role,
		})
	}
	res.Memberships = memberships
	activeID := active.TheaterID
	res.ActiveTheaterID = &activeID
	res.ActiveMembership = &active

	return res
}

// SetActive makes theaterID the user's active theater. It never creates a
// membership: ErrForbidden is returned when the user is not already a member.
// Last writer wins when two calls race for the same user.
func (r *Resolver) SetActive(ctx context.Context, userID, theaterID uint) error {
	if _, err := r.memberships.Get(ctx, userID, theaterID); err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("check membership: %w", err)
	}

	if err := r.prefs.Upsert(ctx, userID, theaterID); err != nil {
		prometheus.RecordPreferenceWrite(false)
		return fmt.Errorf("store active theater: %w", err)
	}
	prometheus.RecordPreferenceWrite(true)
	return nil
}

// preferenceOf returns the stored active theater, if any. Lookup failures
// are reported as "no preference" and never surface to the caller.
func (r *Resolver) preferenceOf(ctx context.Context, userID uint) (uint, bool) {
	theaterID, err := r.prefs.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrPreferenceNotFound) {
			r.log.Warn("Active theater lookup failed, using fallback",
				zap.Uint("user_id", userID), zap.Error(err))
		}
		return 0, false
	}
	return theaterID, true
}

// persist stores the selection best-effort; the in-memory result stays valid on failure
func (r *Resolver) persist(ctx context.Context, userID, theaterID uint) {
	if err := r.prefs.Upsert(ctx, userID, theaterID); err != nil {
		prometheus.RecordPreferenceWrite(false)
		r.log.Warn("Failed to persist active theater",
			zap.Uint("user_id", userID),
			zap.Uint("theater_id", theaterID),
			zap.Error(err))
		return
	}
	prometheus.RecordPreferenceWrite(true)
}

// theaterIndex loads metadata for the distinct theaters referenced by memberships
func (r *Resolver) theaterIndex(ctx context.Context, memberships []model.Membership) map[uint]model.Theater {
	index := make(map[uint]model.Theater, len(memberships))

	ids := make([]uint, 0, len(memberships))
	seen := make(map[uint]struct{}, len(memberships))
	for _, m := range memberships {
		if _, ok := seen[m.TheaterID]; ok {
			continue
		}
		seen[m.TheaterID] = struct{}{}
		ids = append(ids, m.TheaterID)
	}

	theaters, err := r.theaters.ListByIDs(ctx, ids)
	if err != nil {
		r.log.Warn("Failed to load theater metadata", zap.Uints("theater_ids", ids), zap.Error(err))
		return index
	}
	for _, t := range theaters {
		index[t.ID] = t
	}
	return index
}
