package entities

import (
	"github.com/google/uuid"
)

// Device is one IoT sensor unit. A device belongs to at most one user at a
// time; OwnerUID is nil while the device sits unclaimed in a box.
type Device struct {
	ID       string     `gorm:"primary_key" json:"id"` // hardware id printed on the unit
	OwnerUID *uuid.UUID `gorm:"type:uuid;index" json:"owner_uid,omitempty"`

	Owner *User `gorm:"foreignKey:OwnerUID"`
	Timestamp
}
