package gorm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"github.com/fridgechef/api/internal/domain/user"
	"github.com/fridgechef/api/internal/ports/outbound"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gormlib.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gormlib.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := UserToModel(u)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByEmail finds a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var model UserModel
	result := r.db.WithContext(ctx).First(&model, "email = ?", email)
	if result.Error != nil {
		if result.Error == gormlib.ErrRecordNotFound {
			return nil, user.ErrUserNotFound
		}
		return nil, result.Error
	}
	return ModelToUser(&model), nil
}

// FindByID finds a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var model UserModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if result.Error == gormlib.ErrRecordNotFound {
			return nil, user.ErrUserNotFound
		}
		return nil, result.Error
	}
	return ModelToUser(&model), nil
}

// ExistsByEmail reports whether an account with the email exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("email = ?", email).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}
