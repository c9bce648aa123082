package sensor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"freshlens-backend/domain"
	"freshlens-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSensorRepo struct {
	mu      sync.Mutex
	latest  *entities.SensorLatest
	history []*entities.SensorHistoryEntry

	latestErr  error
	historyErr error
}

func (f *fakeSensorRepo) GetLatest(_ context.Context, _ uuid.UUID) (*entities.SensorLatest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	if f.latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.latest, nil
}

func (f *fakeSensorRepo) UpsertLatest(_ context.Context, latest *entities.SensorLatest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = latest
	return nil
}

func (f *fakeSensorRepo) GetHistorySince(_ context.Context, _ uuid.UUID, _ time.Time) ([]*entities.SensorHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeSensorRepo) AddHistoryEntry(_ context.Context, entry *entities.SensorHistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeSensorRepo) TrimHistory(_ context.Context, _ uuid.UUID, _ int) (int64, error) {
	return 0, nil
}

type fakeDeviceRepo struct {
	devices map[string]*entities.Device
}

func (f *fakeDeviceRepo) GetByID(_ context.Context, id string) (*entities.Device, error) {
	dev, ok := f.devices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return dev, nil
}

func (f *fakeDeviceRepo) Bind(_ context.Context, _ string, _ uuid.UUID) error   { return nil }
func (f *fakeDeviceRepo) Unbind(_ context.Context, _ string, _ uuid.UUID) error { return nil }

func TestSummary_DefaultsWhenNoData(t *testing.T) {
	svc := NewSensorService(&fakeSensorRepo{}, &fakeDeviceRepo{})

	summary := svc.Summary(context.Background(), uuid.New(), 24*time.Hour)

	assert.Equal(t, DefaultTemperature, summary.AvgTemp)
	assert.Equal(t, DefaultHumidity, summary.AvgHumid)
}

func TestSummary_AveragesHistory(t *testing.T) {
	repo := &fakeSensorRepo{
		history: []*entities.SensorHistoryEntry{
			{Temperature: 4, Humidity: 60},
			{Temperature: 8, Humidity: 80},
		},
	}
	svc := NewSensorService(repo, &fakeDeviceRepo{})

	summary := svc.Summary(context.Background(), uuid.New(), 24*time.Hour)

	assert.Equal(t, 6.0, summary.AvgTemp)
	assert.Equal(t, 70.0, summary.AvgHumid)
}

func TestSummary_FallsBackToLatestReading(t *testing.T) {
	repo := &fakeSensorRepo{
		latest: &entities.SensorLatest{Temperature: 10, Humidity: 55},
	}
	svc := NewSensorService(repo, &fakeDeviceRepo{})

	summary := svc.Summary(context.Background(), uuid.New(), 24*time.Hour)

	assert.Equal(t, 10.0, summary.AvgTemp)
	assert.Equal(t, 55.0, summary.AvgHumid)
}

func ingestRequest(deviceID string, temp, humid float64) domain.IngestSensorRequest {
	return domain.IngestSensorRequest{
		DeviceID:    deviceID,
		Temperature: &temp,
		Humidity:    &humid,
	}
}

func TestIngest_UnknownDevice(t *testing.T) {
	svc := NewSensorService(&fakeSensorRepo{}, &fakeDeviceRepo{devices: map[string]*entities.Device{}})

	_, _, err := svc.Ingest(context.Background(), ingestRequest("nope", 5, 70))
	assert.ErrorIs(t, err, domain.ErrDeviceNotFound)
}

func TestIngest_UnclaimedDevice(t *testing.T) {
	devices := map[string]*entities.Device{
		"dev-1": {ID: "dev-1", OwnerUID: nil},
	}
	svc := NewSensorService(&fakeSensorRepo{}, &fakeDeviceRepo{devices: devices})

	_, _, err := svc.Ingest(context.Background(), ingestRequest("dev-1", 5, 70))
	assert.ErrorIs(t, err, domain.ErrDeviceUnclaimed)
}

func TestIngest_WritesLatestAndHistory(t *testing.T) {
	owner := uuid.New()
	repo := &fakeSensorRepo{}
	devices := map[string]*entities.Device{
		"dev-1": {ID: "dev-1", OwnerUID: &owner},
	}
	svc := NewSensorService(repo, &fakeDeviceRepo{devices: devices})

	userID, changed, err := svc.Ingest(context.Background(), ingestRequest("dev-1", 5.5, 71))
	require.NoError(t, err)

	assert.Equal(t, owner, userID)
	assert.True(t, changed)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.NotNil(t, repo.latest)
	assert.Equal(t, 5.5, repo.latest.Temperature)
	assert.Equal(t, 71.0, repo.latest.Humidity)
	require.Len(t, repo.history, 1)
	assert.Equal(t, "iot-latest", repo.history[0].Source)
}

func TestIngest_LatestReadFailureStillIngestsAndAssumesChange(t *testing.T) {
	owner := uuid.New()
	repo := &fakeSensorRepo{latestErr: errors.New("connection reset")}
	devices := map[string]*entities.Device{
		"dev-1": {ID: "dev-1", OwnerUID: &owner},
	}
	svc := NewSensorService(repo, &fakeDeviceRepo{devices: devices})

	userID, changed, err := svc.Ingest(context.Background(), ingestRequest("dev-1", 5.5, 71))
	require.NoError(t, err)

	assert.Equal(t, owner, userID)
	assert.True(t, changed)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.NotNil(t, repo.latest)
	assert.Equal(t, 5.5, repo.latest.Temperature)
}

func TestIngest_UnchangedValuesReportNoChange(t *testing.T) {
	owner := uuid.New()
	repo := &fakeSensorRepo{
		latest: &entities.SensorLatest{UserID: owner, Temperature: 5.5, Humidity: 71},
	}
	devices := map[string]*entities.Device{
		"dev-1": {ID: "dev-1", OwnerUID: &owner},
	}
	svc := NewSensorService(repo, &fakeDeviceRepo{devices: devices})

	_, changed, err := svc.Ingest(context.Background(), ingestRequest("dev-1", 5.5, 71))
	require.NoError(t, err)
	assert.False(t, changed)
}
