package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"theater-portal/internal/model"
	"theater-portal/prometheus"
)

// UserRepo stores locally registered identities
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a user repository
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user; a taken email is ErrDuplicateUser
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	defer prometheus.TrackDBOperation("user_insert")()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(r.db.WithContext(ctx).Create(u).Error, nil, ErrDuplicateUser)
}

// GetByEmail looks a user up by normalized email, or returns ErrUserNotFound
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_get")()

	var u model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, translate(err, ErrUserNotFound, nil)
	}
	return &u, nil
}

// ListByIDs returns the users with the given ids in no particular order
func (r *UserRepo) ListByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	defer prometheus.TrackDBOperation("user_list")()

	var users []model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}
