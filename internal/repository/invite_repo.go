package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"theater-portal/internal/model"
	"theater-portal/internal/tenancy"
	"theater-portal/prometheus"
)

// InviteRepo stores email invites in theater_invites
type InviteRepo struct {
	db *gorm.DB
}

var _ tenancy.InviteStore = (*InviteRepo)(nil)

// NewInviteRepo creates an invite repository
func NewInviteRepo(db *gorm.DB) *InviteRepo {
	return &InviteRepo{db: db}
}

// FirstPendingByEmail returns the earliest pending invite across all theaters
func (r *InviteRepo) FirstPendingByEmail(ctx context.Context, email string) (*model.Invite, error) {
	defer prometheus.TrackDBOperation("invite_get")()

	var inv model.Invite
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ? AND status = ?", strings.ToLower(strings.TrimSpace(email)), model.InvitePending).
		Order("created_at ASC, id ASC").
		First(&inv).Error
	if err != nil {
		return nil, translate(err, tenancy.ErrInviteNotFound, nil)
	}
	return &inv, nil
}

// ListByTheater returns pending and accepted invites of a theater, oldest first
func (r *InviteRepo) ListByTheater(ctx context.Context, theaterID uint) ([]model.Invite, error) {
	defer prometheus.TrackDBOperation("invite_list")()

	var invites []model.Invite
	err := r.db.WithContext(ctx).
		Where("theater_id = ?", theaterID).
		Order("created_at ASC, id ASC").
		Find(&invites).Error
	return invites, err
}

// CountPending counts invites of a theater that still hold a seat
func (r *InviteRepo) CountPending(ctx context.Context, theaterID uint) (int64, error) {
	defer prometheus.TrackDBOperation("invite_count")()

	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Invite{}).
		Where("theater_id = ? AND status = ?", theaterID, model.InvitePending).
		Count(&n).Error
	return n, err
}

// Create inserts the invite; a second pending invite for the same theater and email is ErrDuplicateInvite
func (r *InviteRepo) Create(ctx context.Context, inv *model.Invite) error {
	defer prometheus.TrackDBOperation("invite_insert")()

	return translate(r.db.WithContext(ctx).Create(inv).Error, nil, tenancy.ErrDuplicateInvite)
}

// MarkAccepted moves a pending invite to accepted; it never touches an accepted row
func (r *InviteRepo) MarkAccepted(ctx context.Context, inviteID, userID uint) error {
	defer prometheus.TrackDBOperation("invite_update")()

	result := r.db.WithContext(ctx).
		Model(&model.Invite{}).
		Where("id = ? AND status = ?", inviteID, model.InvitePending).
		Updates(map[string]interface{}{
			"status":      model.InviteAccepted,
			"accepted_by": userID,
			"accepted_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tenancy.ErrInviteNotFound
	}
	return nil
}

// Delete removes an invite scoped to its theater, or returns ErrInviteNotFound
func (r *InviteRepo) Delete(ctx context.Context, theaterID, inviteID uint) error {
	defer prometheus.TrackDBOperation("invite_delete")()

	result := r.db.WithContext(ctx).
		Where("id = ? AND theater_id = ?", inviteID, theaterID).
		Delete(&model.Invite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tenancy.ErrInviteNotFound
	}
	return nil
}
