package device

import (
	"context"
	"errors"

	"freshlens-backend/domain"
	"freshlens-backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	DeviceService interface {
		Register(ctx context.Context, req domain.RegisterDeviceRequest, userID string) (domain.RegisterDeviceResponse, error)
		Unregister(ctx context.Context, userID string) error
	}

	deviceService struct {
		deviceRepository DeviceRepository
		userRepository   user.UserRepository
	}
)

func NewDeviceService(deviceRepository DeviceRepository, userRepository user.UserRepository) DeviceService {
	return &deviceService{
		deviceRepository: deviceRepository,
		userRepository:   userRepository,
	}
}

func (s *deviceService) Register(ctx context.Context, req domain.RegisterDeviceRequest, userID string) (domain.RegisterDeviceResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RegisterDeviceResponse{}, domain.ErrParseUUID
	}

	dev, err := s.deviceRepository.GetByID(ctx, req.DeviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RegisterDeviceResponse{}, domain.ErrDeviceNotFound
		}
		return domain.RegisterDeviceResponse{}, err
	}

	if dev.OwnerUID != nil && *dev.OwnerUID != userUUID {
		return domain.RegisterDeviceResponse{}, domain.ErrDeviceAlreadyOwned
	}

	u, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RegisterDeviceResponse{}, domain.ErrUserNotFound
		}
		return domain.RegisterDeviceResponse{}, err
	}

	// Switching units: release the previous device first so its owner_uid
	// never keeps pointing at a user linked elsewhere.
	if u.LinkedDeviceID != nil && *u.LinkedDeviceID != dev.ID {
		if err := s.deviceRepository.Unbind(ctx, *u.LinkedDeviceID, userUUID); err != nil {
			return domain.RegisterDeviceResponse{}, err
		}
	}

	if err := s.deviceRepository.Bind(ctx, dev.ID, userUUID); err != nil {
		return domain.RegisterDeviceResponse{}, err
	}

	return domain.RegisterDeviceResponse{DeviceID: dev.ID}, nil
}

func (s *deviceService) Unregister(ctx context.Context, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	u, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if u.LinkedDeviceID == nil || *u.LinkedDeviceID == "" {
		return domain.ErrNoLinkedDevice
	}

	return s.deviceRepository.Unbind(ctx, *u.LinkedDeviceID, userUUID)
}
