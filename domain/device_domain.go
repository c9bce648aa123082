package domain

import "errors"

var (
	MessageSuccessRegisterDevice   = "device registered successfully"
	MessageSuccessUnregisterDevice = "device unregistered successfully"
	MessageSuccessIngestSensor     = "sensor data ingested"

	MessageFailedRegisterDevice   = "failed to register device"
	MessageFailedUnregisterDevice = "failed to unregister device"
	MessageFailedIngestSensor     = "failed to ingest sensor data"

	ErrDeviceNotFound     = errors.New("device not found")
	ErrDeviceAlreadyOwned = errors.New("device already registered to another user")
	ErrDeviceUnclaimed    = errors.New("device not registered to any user")
	ErrNoLinkedDevice     = errors.New("user has no linked device")
)

type (
	RegisterDeviceRequest struct {
		DeviceID string `json:"device_id" validate:"required"`
	}

	RegisterDeviceResponse struct {
		DeviceID string `json:"device_id"`
	}

	// IngestSensorRequest is posted by the device itself, without auth; the
	// device id acts as the capability.
	IngestSensorRequest struct {
		DeviceID    string   `json:"device_id" validate:"required"`
		Temperature *float64 `json:"temperature" validate:"required"`
		Humidity    *float64 `json:"humidity" validate:"required"`
	}
)
