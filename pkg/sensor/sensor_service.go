package sensor

import (
	"context"
	"errors"
	"time"

	"freshlens-backend/domain"
	"freshlens-backend/entities"
	"freshlens-backend/pkg/device"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Defaults used when a user has neither history nor a latest reading, e.g. a
// brand-new account whose device never phoned home. Chosen to match typical
// ambient conditions the model was trained around.
const (
	DefaultTemperature = 25.0
	DefaultHumidity    = 80.0

	// historyRetention bounds the append-only log per user; trimming beyond it
	// is best-effort.
	historyRetention = 1000
)

type (
	// Summary is the aggregate the feature encoder consumes.
	Summary struct {
		AvgTemp  float64
		AvgHumid float64
	}

	SensorService interface {
		// Summary never fails; see the fallback chain on getSummary.
		Summary(ctx context.Context, userID uuid.UUID, window time.Duration) Summary

		// Ingest validates the device, overwrites the owner's latest reading
		// and logs it to history. It reports the owner and whether the values
		// actually changed, so the caller can decide to re-predict.
		Ingest(ctx context.Context, req domain.IngestSensorRequest) (uuid.UUID, bool, error)
	}

	sensorService struct {
		sensorRepository SensorRepository
		deviceRepository device.DeviceRepository
	}
)

func NewSensorService(sensorRepository SensorRepository, deviceRepository device.DeviceRepository) SensorService {
	return &sensorService{
		sensorRepository: sensorRepository,
		deviceRepository: deviceRepository,
	}
}

// Summary computes the mean temperature and humidity over the trailing window
// of history. Fallback chain: windowed history -> latest reading -> fixed
// defaults. Each field falls back independently, so a prediction is always
// computable even for inactive users.
func (s *sensorService) Summary(ctx context.Context, userID uuid.UUID, window time.Duration) Summary {
	summary := Summary{AvgTemp: DefaultTemperature, AvgHumid: DefaultHumidity}

	entries, err := s.sensorRepository.GetHistorySince(ctx, userID, time.Now().UTC().Add(-window))
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("sensor summary: history query failed")
	}
	if len(entries) > 0 {
		var sumTemp, sumHumid float64
		for _, e := range entries {
			sumTemp += e.Temperature
			sumHumid += e.Humidity
		}
		summary.AvgTemp = sumTemp / float64(len(entries))
		summary.AvgHumid = sumHumid / float64(len(entries))
		return summary
	}

	latest, err := s.sensorRepository.GetLatest(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("sensor summary: latest query failed")
		}
		return summary
	}

	summary.AvgTemp = latest.Temperature
	summary.AvgHumid = latest.Humidity
	return summary
}

func (s *sensorService) Ingest(ctx context.Context, req domain.IngestSensorRequest) (uuid.UUID, bool, error) {
	dev, err := s.deviceRepository.GetByID(ctx, req.DeviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, false, domain.ErrDeviceNotFound
		}
		return uuid.Nil, false, err
	}
	if dev.OwnerUID == nil {
		return uuid.Nil, false, domain.ErrDeviceUnclaimed
	}

	userID := *dev.OwnerUID
	temperature := *req.Temperature
	humidity := *req.Humidity

	changed := true
	old, err := s.sensorRepository.GetLatest(ctx, userID)
	switch {
	case err == nil:
		changed = old.Temperature != temperature || old.Humidity != humidity
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First reading for this user; everything downstream is new.
	default:
		// With the previous reading unreadable there is no basis to skip, so
		// err on the side of re-predicting.
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("sensor ingest: latest read failed, assuming changed")
	}

	if err := s.sensorRepository.UpsertLatest(ctx, &entities.SensorLatest{
		UserID:      userID,
		Temperature: temperature,
		Humidity:    humidity,
	}); err != nil {
		return uuid.Nil, false, err
	}

	// History logging mirrors the latest document; its failure must never fail
	// the device callback.
	if err := s.sensorRepository.AddHistoryEntry(ctx, &entities.SensorHistoryEntry{
		UserID:      userID,
		Temperature: temperature,
		Humidity:    humidity,
		Source:      "iot-latest",
	}); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("sensor ingest: history append failed")
	}

	go func() {
		deleted, err := s.sensorRepository.TrimHistory(context.Background(), userID, historyRetention)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("sensor ingest: history trim failed")
			return
		}
		if deleted > 0 {
			log.Debug().Int64("deleted", deleted).Str("user_id", userID.String()).Msg("sensor ingest: history trimmed")
		}
	}()

	return userID, changed, nil
}
