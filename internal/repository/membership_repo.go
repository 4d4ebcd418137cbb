package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"theater-portal/internal/model"
	"theater-portal/internal/tenancy"
	"theater-portal/prometheus"
)

// MembershipRepo stores theater memberships in theater_memberships
type MembershipRepo struct {
	db *gorm.DB
}

var _ tenancy.MembershipStore = (*MembershipRepo)(nil)

// NewMembershipRepo creates a membership repository
func NewMembershipRepo(db *gorm.DB) *MembershipRepo {
	return &MembershipRepo{db: db}
}

// ListByUser returns a user's memberships, oldest first
func (r *MembershipRepo) ListByUser(ctx context.Context, userID uint) ([]model.Membership, error) {
	defer prometheus.TrackDBOperation("membership_list")()

	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&memberships).Error
	return memberships, err
}

// ListByTheater returns a theater's memberships, oldest first
func (r *MembershipRepo) ListByTheater(ctx context.Context, theaterID uint) ([]model.Membership, error) {
	defer prometheus.TrackDBOperation("membership_list")()

	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Where("theater_id = ?", theaterID).
		Order("created_at ASC, id ASC").
		Find(&memberships).Error
	return memberships, err
}

// Get returns the membership of a user in a theater, or ErrMembershipNotFound
func (r *MembershipRepo) Get(ctx context.Context, userID, theaterID uint) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("membership_get")()

	var m model.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND theater_id = ?", userID, theaterID).
		First(&m).Error
	if err != nil {
		return nil, translate(err, tenancy.ErrMembershipNotFound, nil)
	}
	return &m, nil
}

// CountByTheater counts the members of a theater
func (r *MembershipRepo) CountByTheater(ctx context.Context, theaterID uint) (int64, error) {
	defer prometheus.TrackDBOperation("membership_count")()

	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Membership{}).
		Where("theater_id = ?", theaterID).
		Count(&n).Error
	return n, err
}

// HasMemberEmail reports whether a member of the theater has this account email
func (r *MembershipRepo) HasMemberEmail(ctx context.Context, theaterID uint, email string) (bool, error) {
	defer prometheus.TrackDBOperation("membership_count")()

	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Membership{}).
		Joins("JOIN users ON users.id = theater_memberships.user_id").
		Where("theater_memberships.theater_id = ? AND LOWER(users.email) = ?", theaterID, strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	return n > 0, err
}

// Create inserts the membership; the (user, theater) unique index reports duplicates
func (r *MembershipRepo) Create(ctx context.Context, m *model.Membership) error {
	defer prometheus.TrackDBOperation("membership_insert")()

	return translate(r.db.WithContext(ctx).Create(m).Error, nil, tenancy.ErrDuplicateMembership)
}

// Delete removes a user from a theater, or returns ErrMembershipNotFound
func (r *MembershipRepo) Delete(ctx context.Context, userID, theaterID uint) error {
	defer prometheus.TrackDBOperation("membership_delete")()

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND theater_id = ?", userID, theaterID).
		Delete(&model.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tenancy.ErrMembershipNotFound
	}
	return nil
}
