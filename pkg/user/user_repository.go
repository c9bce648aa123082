package user

import (
	"context"

	"freshlens-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		Create(ctx context.Context, user *entities.User) error
		GetByID(ctx context.Context, id string) (*entities.User, error)
		GetByEmail(ctx context.Context, email string) (*entities.User, error)
		Update(ctx context.Context, user *entities.User) error
		UpdateFCMToken(ctx context.Context, id uuid.UUID, token string) error
		MarkVerified(ctx context.Context, email string) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateFCMToken(ctx context.Context, id uuid.UUID, token string) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", id).
		Update("fcm_token", token).Error
}

func (r *userRepository) MarkVerified(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).
		Where("email = ?", email).
		Update("is_verified", true).Error
}
