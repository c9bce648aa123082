package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	StorageModeRefrigerated = "refrigerated"
	StorageModeAmbient      = "ambient"
)

// Prediction status values written by the refresh pipeline.
const (
	PredictionStatusOK    = "ok"
	PredictionStatusDaily = "repredicted_daily"
)

type Item struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID           uuid.UUID `gorm:"index" json:"user_id"`
	Name             string    `json:"name"`              // e.g. "Apel", "Pisang"
	InitialCondition string    `json:"initial_condition"` // e.g. "Segar", "Matang"
	StorageMode      string    `json:"storage_mode"`      // "refrigerated" or "ambient"
	EntryDate        time.Time `json:"entry_date"`
	ImageURL         string    `json:"image_url,omitempty"`

	// Filled by the prediction pipeline; never edited by the user.
	PredictedShelfLife  *int       `json:"predicted_shelf_life,omitempty"`
	PredictionStatus    string     `json:"prediction_status,omitempty"`
	PredictionUpdatedAt *time.Time `gorm:"index" json:"prediction_updated_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
