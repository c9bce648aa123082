package item

import (
	"context"
	"time"

	"freshlens-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ItemRepository interface {
		Add(ctx context.Context, item *entities.Item) error
		GetByID(ctx context.Context, id string) (*entities.Item, error)
		GetByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Item, error)
		Update(ctx context.Context, item *entities.Item) error
		Delete(ctx context.Context, id string) error

		// GetStale returns the user's items whose prediction is older than
		// cutoff, or that have never been predicted at all.
		GetStale(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]*entities.Item, error)

		// GetExpiring queries across all users for items at or below the
		// shelf-life threshold.
		GetExpiring(ctx context.Context, maxDays int) ([]*entities.Item, error)

		// ListUserIDs returns every user currently owning at least one item.
		ListUserIDs(ctx context.Context) ([]uuid.UUID, error)

		UpdatePrediction(ctx context.Context, id uuid.UUID, days int, status string, at time.Time) error
		UpdatePredictionStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Add(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*entities.Item, error) {
	var item entities.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Item, error) {
	var items []*entities.Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Update(ctx context.Context, item *entities.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Item{}).Error
}

func (r *itemRepository) GetStale(ctx context.Context, userID uuid.UUID, cutoff time.Time) ([]*entities.Item, error) {
	var items []*entities.Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND (prediction_updated_at IS NULL OR prediction_updated_at < ?)", userID, cutoff).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) GetExpiring(ctx context.Context, maxDays int) ([]*entities.Item, error) {
	var items []*entities.Item
	if err := r.db.WithContext(ctx).
		Where("predicted_shelf_life IS NOT NULL AND predicted_shelf_life <= ?", maxDays).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) ListUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&entities.Item{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *itemRepository) UpdatePrediction(ctx context.Context, id uuid.UUID, days int, status string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"predicted_shelf_life":  days,
			"prediction_status":     status,
			"prediction_updated_at": at,
		}).Error
}

// UpdatePredictionStatus records a failure without touching the last good
// predicted value.
func (r *itemRepository) UpdatePredictionStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"prediction_status":     status,
			"prediction_updated_at": at,
		}).Error
}
