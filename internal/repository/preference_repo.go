package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"theater-portal/internal/model"
	"theater-portal/internal/tenancy"
	"theater-portal/prometheus"
)

// PreferenceRepo stores the per-user active theater in user_active_theaters
type PreferenceRepo struct {
	db *gorm.DB
}

var _ tenancy.PreferenceStore = (*PreferenceRepo)(nil)

// NewPreferenceRepo creates a preference repository
func NewPreferenceRepo(db *gorm.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// Get returns the stored active theater of a user, or ErrPreferenceNotFound
func (r *PreferenceRepo) Get(ctx context.Context, userID uint) (uint, error) {
	defer prometheus.TrackDBOperation("preference_get")()

	var pref model.ActiveTheater
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error; err != nil {
		return 0, translate(err, tenancy.ErrPreferenceNotFound, nil)
	}
	return pref.TheaterID, nil
}

// Upsert overwrites the stored theater in a single statement keyed on user_id
func (r *PreferenceRepo) Upsert(ctx context.Context, userID, theaterID uint) error {
	defer prometheus.TrackDBOperation("preference_upsert")()

	pref := model.ActiveTheater{
		UserID:    userID,
		TheaterID: theaterID,
		UpdatedAt: time.Now().UTC(),
	}
	return upsertPreference(r.db.WithContext(ctx), &pref)
}

func upsertPreference(tx *gorm.DB, pref *model.ActiveTheater) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"theater_id", "updated_at"}),
	}).Create(pref).Error
}
