package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name       string    `json:"name"`
	Email      string    `gorm:"uniqueIndex" json:"email"`
	Password   string    `json:"-"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`

	// FCMToken is the push destination for expiry reminders. Empty means the
	// user never granted notification permission on the mobile client.
	FCMToken string `json:"fcm_token,omitempty"`

	// LinkedDeviceID mirrors Device.OwnerUID; both sides are always written in
	// the same transaction.
	LinkedDeviceID *string `json:"linked_device_id,omitempty"`

	Timestamp
}
