package sensor

import (
	"context"
	"time"

	"freshlens-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	SensorRepository interface {
		GetLatest(ctx context.Context, userID uuid.UUID) (*entities.SensorLatest, error)
		UpsertLatest(ctx context.Context, latest *entities.SensorLatest) error
		GetHistorySince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entities.SensorHistoryEntry, error)
		AddHistoryEntry(ctx context.Context, entry *entities.SensorHistoryEntry) error
		TrimHistory(ctx context.Context, userID uuid.UUID, keep int) (int64, error)
	}

	sensorRepository struct {
		db *gorm.DB
	}
)

func NewSensorRepository(db *gorm.DB) SensorRepository {
	return &sensorRepository{db: db}
}

func (r *sensorRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*entities.SensorLatest, error) {
	var latest entities.SensorLatest
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&latest).Error; err != nil {
		return nil, err
	}
	return &latest, nil
}

func (r *sensorRepository) UpsertLatest(ctx context.Context, latest *entities.SensorLatest) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"temperature", "humidity", "updated_at"}),
	}).Create(latest).Error
}

func (r *sensorRepository) GetHistorySince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entities.SensorHistoryEntry, error) {
	var entries []*entities.SensorHistoryEntry
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at desc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *sensorRepository) AddHistoryEntry(ctx context.Context, entry *entities.SensorHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// TrimHistory deletes everything beyond the most recent keep entries for the
// user and returns how many rows went away.
func (r *sensorRepository) TrimHistory(ctx context.Context, userID uuid.UUID, keep int) (int64, error) {
	sub := r.db.Model(&entities.SensorHistoryEntry{}).
		Select("id").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(keep)

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id NOT IN (?)", userID, sub).
		Delete(&entities.SensorHistoryEntry{})
	return res.RowsAffected, res.Error
}
