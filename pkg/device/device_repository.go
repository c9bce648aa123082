package device

import (
	"context"

	"freshlens-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DeviceRepository interface {
		GetByID(ctx context.Context, id string) (*entities.Device, error)

		// Bind and Unbind update both halves of the user<->device link in one
		// transaction; a reader never sees only one side written.
		Bind(ctx context.Context, deviceID string, userID uuid.UUID) error
		Unbind(ctx context.Context, deviceID string, userID uuid.UUID) error
	}

	deviceRepository struct {
		db *gorm.DB
	}
)

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	var dev entities.Device
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&dev).Error; err != nil {
		return nil, err
	}
	return &dev, nil
}

func (r *deviceRepository) Bind(ctx context.Context, deviceID string, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Device{}).
			Where("id = ?", deviceID).
			Update("owner_uid", userID).Error; err != nil {
			return err
		}
		return tx.Model(&entities.User{}).
			Where("id = ?", userID).
			Update("linked_device_id", deviceID).Error
	})
}

func (r *deviceRepository) Unbind(ctx context.Context, deviceID string, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Device{}).
			Where("id = ? AND owner_uid = ?", deviceID, userID).
			Update("owner_uid", nil).Error; err != nil {
			return err
		}
		return tx.Model(&entities.User{}).
			Where("id = ?", userID).
			Update("linked_device_id", nil).Error
	})
}
