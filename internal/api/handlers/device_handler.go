package handlers

import (
	"context"
	"errors"

	"freshlens-backend/domain"
	"freshlens-backend/internal/api/presenters"
	"freshlens-backend/pkg/device"
	"freshlens-backend/pkg/refresh"
	"freshlens-backend/pkg/sensor"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DeviceHandler interface {
		RegisterDevice(c *fiber.Ctx) error
		UnregisterDevice(c *fiber.Ctx) error
		IngestSensor(c *fiber.Ctx) error
	}

	deviceHandler struct {
		deviceService  device.DeviceService
		sensorService  sensor.SensorService
		refreshService refresh.RefreshService
		validator      *validator.Validate
	}
)

func NewDeviceHandler(
	deviceService device.DeviceService,
	sensorService sensor.SensorService,
	refreshService refresh.RefreshService,
	validator *validator.Validate,
) DeviceHandler {
	return &deviceHandler{
		deviceService:  deviceService,
		sensorService:  sensorService,
		refreshService: refreshService,
		validator:      validator,
	}
}

func (h *deviceHandler) RegisterDevice(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RegisterDeviceRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegisterDevice, err)
	}

	res, err := h.deviceService.Register(c.Context(), *req, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDeviceNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRegisterDevice, err)
		case errors.Is(err, domain.ErrDeviceAlreadyOwned):
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedRegisterDevice, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRegisterDevice, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRegisterDevice)
}

func (h *deviceHandler) UnregisterDevice(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.deviceService.Unregister(c.Context(), userID); err != nil {
		if errors.Is(err, domain.ErrNoLinkedDevice) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedUnregisterDevice, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnregisterDevice, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUnregisterDevice)
}

// IngestSensor is the unauthenticated callback the device posts readings to.
// A value change kicks off re-prediction for the owner in the background so
// the device gets its 200 immediately.
func (h *deviceHandler) IngestSensor(c *fiber.Ctx) error {
	req := new(domain.IngestSensorRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedIngestSensor, err)
	}

	userID, changed, err := h.sensorService.Ingest(c.Context(), *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDeviceNotFound):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedIngestSensor, err)
		case errors.Is(err, domain.ErrDeviceUnclaimed):
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedIngestSensor, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedIngestSensor, err)
	}

	if changed {
		go h.refreshService.RepredictUser(context.Background(), userID)
	}

	return presenters.SuccessResponse(c, fiber.Map{"changed": changed}, fiber.StatusOK, domain.MessageSuccessIngestSensor)
}
