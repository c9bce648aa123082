package entities

import (
	"time"

	"github.com/google/uuid"
)

// SensorLatest holds the single most recent reading per user, overwritten on
// every device callback.
type SensorLatest struct {
	UserID      uuid.UUID `gorm:"type:uuid;primary_key" json:"user_id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	UpdatedAt   time.Time `gorm:"type:timestamp;autoUpdateTime" json:"updated_at"`
}

// SensorHistoryEntry is the append-only log behind SensorLatest, used for the
// windowed averages. Old entries are trimmed best-effort.
type SensorHistoryEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index:idx_sensor_history_user_created" json:"user_id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `gorm:"type:timestamp;autoCreateTime;index:idx_sensor_history_user_created" json:"created_at"`
}
