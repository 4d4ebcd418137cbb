package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"theater-portal/internal/model"
	"theater-portal/internal/tenancy"
	"theater-portal/prometheus"
)

// TheaterRepo stores theater profiles and their approval state
type TheaterRepo struct {
	db *gorm.DB
}

var _ tenancy.TheaterStore = (*TheaterRepo)(nil)

// NewTheaterRepo creates a theater repository
func NewTheaterRepo(db *gorm.DB) *TheaterRepo {
	return &TheaterRepo{db: db}
}

// ListByIDs loads the given theaters in one query
func (r *TheaterRepo) ListByIDs(ctx context.Context, ids []uint) ([]model.Theater, error) {
	if len(ids) == 0 {
		return []model.Theater{}, nil
	}
	defer prometheus.TrackDBOperation("theater_list")()

	var theaters []model.Theater
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&theaters).Error
	return theaters, err
}

// Get returns a theater by id, or ErrTheaterNotFound
func (r *TheaterRepo) Get(ctx context.Context, id uint) (*model.Theater, error) {
	defer prometheus.TrackDBOperation("theater_get")()

	var t model.Theater
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err, tenancy.ErrTheaterNotFound, nil)
	}
	return &t, nil
}

// CreateWithOwner inserts the theater, its owner membership and the owner's
// active theater preference in one transaction.
func (r *TheaterRepo) CreateWithOwner(ctx context.Context, t *model.Theater, ownerID uint) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("theater_insert")()

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}

	if t.Status == "" {
		t.Status = model.TheaterPending
	}
	if err := tx.Create(t).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("create theater: %w", err)
	}

	owner := &model.Membership{
		UserID:    ownerID,
		TheaterID: t.ID,
		Role:      model.RoleOwner,
	}
	if err := tx.Create(owner).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("create owner membership: %w", err)
	}

	pref := &model.ActiveTheater{UserID: ownerID, TheaterID: t.ID, UpdatedAt: time.Now().UTC()}
	if err := upsertPreference(tx, pref); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("set active theater: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return owner, nil
}

// UpdateProfile writes the editable profile columns; status is admin-only
func (r *TheaterRepo) UpdateProfile(ctx context.Context, t *model.Theater) error {
	defer prometheus.TrackDBOperation("theater_update")()

	result := r.db.WithContext(ctx).
		Model(t).
		Select("name", "description", "contact_email", "website", "city").
		Updates(t)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return tenancy.ErrTheaterNotFound
	}
	return nil
}

// ListByStatus returns theaters newest first; an empty status lists all of them
func (r *TheaterRepo) ListByStatus(ctx context.Context, status model.TheaterStatus) ([]model.Theater, error) {
	defer prometheus.TrackDBOperation("theater_list")()

	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var theaters []model.Theater
	err := query.Find(&theaters).Error
	return theaters, err
}

// UpdateStatus sets the approval status and returns the updated theater
func (r *TheaterRepo) UpdateStatus(ctx context.Context, id uint, status model.TheaterStatus) (*model.Theater, error) {
	defer prometheus.TrackDBOperation("theater_update")()

	result := r.db.WithContext(ctx).
		Model(&model.Theater{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, tenancy.ErrTheaterNotFound
	}
	return r.Get(ctx, id)
}
