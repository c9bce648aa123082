package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessAddItem         = "item added successfully"
	MessageSuccessGetItems        = "items retrieved successfully"
	MessageSuccessDeleteItem      = "item deleted successfully"
	MessageSuccessUploadItemImage = "item image uploaded successfully"

	MessageFailedAddItem         = "failed to add item"
	MessageFailedGetItems        = "failed to retrieve items"
	MessageFailedDeleteItem      = "failed to delete item"
	MessageFailedUploadItemImage = "failed to upload item image"

	ErrItemNotFound     = errors.New("item not found")
	ErrInvalidEntryDate = errors.New("invalid entry date")
	ErrInvalidStorage   = errors.New("storage mode must be refrigerated or ambient")
	ErrUnauthorizedItem = errors.New("unauthorized access to item")
)

type (
	AddItemRequest struct {
		Name             string `json:"name" validate:"required"`
		InitialCondition string `json:"initial_condition" validate:"required"`
		StorageMode      string `json:"storage_mode" validate:"required,oneof=refrigerated ambient"`
		EntryDate        string `json:"entry_date" validate:"omitempty"` // RFC3339; defaults to now
	}

	ItemResponse struct {
		ID                  string     `json:"id"`
		Name                string     `json:"name"`
		InitialCondition    string     `json:"initial_condition"`
		StorageMode         string     `json:"storage_mode"`
		EntryDate           time.Time  `json:"entry_date"`
		ImageURL            string     `json:"image_url,omitempty"`
		PredictedShelfLife  *int       `json:"predicted_shelf_life,omitempty"`
		PredictionStatus    string     `json:"prediction_status,omitempty"`
		PredictionUpdatedAt *time.Time `json:"prediction_updated_at,omitempty"`
		CreatedAt           time.Time  `json:"created_at"`
	}

	UploadItemImageRequest struct {
		ItemID string                `json:"item_id" form:"item_id" validate:"required,uuid"`
		Image  *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}
)
