package refresh

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"freshlens-backend/entities"
	"freshlens-backend/pkg/mlmodel"
	"freshlens-backend/pkg/sensor"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type predictionWrite struct {
	days   int
	status string
}

type fakeItemRepo struct {
	items []*entities.Item

	predictions  map[uuid.UUID]predictionWrite
	statusWrites map[uuid.UUID]string
	failPredict  map[uuid.UUID]bool
	staleErr     error
}

func newFakeItemRepo(items ...*entities.Item) *fakeItemRepo {
	return &fakeItemRepo{
		items:        items,
		predictions:  make(map[uuid.UUID]predictionWrite),
		statusWrites: make(map[uuid.UUID]string),
		failPredict:  make(map[uuid.UUID]bool),
	}
}

func (f *fakeItemRepo) Add(_ context.Context, _ *entities.Item) error { return nil }

func (f *fakeItemRepo) GetByID(_ context.Context, id string) (*entities.Item, error) {
	for _, it := range f.items {
		if it.ID.String() == id {
			return it, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeItemRepo) GetByUser(_ context.Context, userID uuid.UUID) ([]*entities.Item, error) {
	var out []*entities.Item
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) Update(_ context.Context, _ *entities.Item) error { return nil }
func (f *fakeItemRepo) Delete(_ context.Context, _ string) error         { return nil }

func (f *fakeItemRepo) GetStale(ctx context.Context, userID uuid.UUID, _ time.Time) ([]*entities.Item, error) {
	if f.staleErr != nil {
		return nil, f.staleErr
	}
	return f.GetByUser(ctx, userID)
}

func (f *fakeItemRepo) GetExpiring(_ context.Context, maxDays int) ([]*entities.Item, error) {
	var out []*entities.Item
	for _, it := range f.items {
		if it.PredictedShelfLife != nil && *it.PredictedShelfLife <= maxDays {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) ListUserIDs(_ context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, it := range f.items {
		if !seen[it.UserID] {
			seen[it.UserID] = true
			ids = append(ids, it.UserID)
		}
	}
	return ids, nil
}

func (f *fakeItemRepo) UpdatePrediction(_ context.Context, id uuid.UUID, days int, status string, _ time.Time) error {
	if f.failPredict[id] {
		return errors.New("write refused")
	}
	f.predictions[id] = predictionWrite{days: days, status: status}
	return nil
}

func (f *fakeItemRepo) UpdatePredictionStatus(_ context.Context, id uuid.UUID, status string, _ time.Time) error {
	f.statusWrites[id] = status
	return nil
}

type fakeOwnerRepo struct {
	users   map[uuid.UUID]*entities.User
	lookups map[uuid.UUID]int
}

func (f *fakeOwnerRepo) Create(_ context.Context, _ *entities.User) error { return nil }

func (f *fakeOwnerRepo) GetByID(_ context.Context, id string) (*entities.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	if f.lookups == nil {
		f.lookups = make(map[uuid.UUID]int)
	}
	f.lookups[userID]++
	u, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeOwnerRepo) GetByEmail(_ context.Context, _ string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOwnerRepo) Update(_ context.Context, _ *entities.User) error              { return nil }
func (f *fakeOwnerRepo) UpdateFCMToken(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (f *fakeOwnerRepo) MarkVerified(_ context.Context, _ string) error                { return nil }

type fixedModel struct {
	out float64
}

func (m *fixedModel) NumFeatures() int                  { return 22 }
func (m *fixedModel) PredictSingle(_ []float64) float64 { return m.out }

type fakeModelSource struct {
	model mlmodel.Model
	err   error
}

func (f *fakeModelSource) Get(_ context.Context) (mlmodel.Model, error) {
	return f.model, f.err
}

type fakeSummarizer struct{}

func (f *fakeSummarizer) Summary(_ context.Context, _ uuid.UUID, _ time.Duration) sensor.Summary {
	return sensor.Summary{AvgTemp: 6, AvgHumid: 70}
}

type sentPush struct {
	token string
	body  string
}

type fakeNotifier struct {
	sent    []sentPush
	failFor map[string]bool
}

func (f *fakeNotifier) Send(_ context.Context, token string, _ string, body string) error {
	if f.failFor[token] {
		return errors.New("unregistered token")
	}
	f.sent = append(f.sent, sentPush{token: token, body: body})
	return nil
}

func newTestItem(userID uuid.UUID, name string) *entities.Item {
	return &entities.Item{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		StorageMode: entities.StorageModeAmbient,
		EntryDate:   time.Now().UTC().Add(-24 * time.Hour),
	}
}

func newTestService(repo *fakeItemRepo, owners *fakeOwnerRepo, models ModelSource, notifier *fakeNotifier) RefreshService {
	if owners == nil {
		owners = &fakeOwnerRepo{}
	}
	if notifier == nil {
		notifier = &fakeNotifier{}
	}
	return NewRefreshService(repo, owners, &fakeSummarizer{}, models, notifier)
}

func TestOnItemCreated_WritesPrediction(t *testing.T) {
	it := newTestItem(uuid.New(), "Apel")
	repo := newFakeItemRepo(it)
	svc := newTestService(repo, nil, &fakeModelSource{model: &fixedModel{out: 4.2}}, nil)

	svc.OnItemCreated(context.Background(), it)

	write, ok := repo.predictions[it.ID]
	require.True(t, ok)
	assert.Equal(t, 4, write.days)
	assert.Equal(t, entities.PredictionStatusOK, write.status)
}

func TestOnItemCreated_ModelFailureWritesErrorStatus(t *testing.T) {
	it := newTestItem(uuid.New(), "Apel")
	repo := newFakeItemRepo(it)
	svc := newTestService(repo, nil, &fakeModelSource{err: errors.New("bucket unreachable")}, nil)

	svc.OnItemCreated(context.Background(), it)

	assert.Empty(t, repo.predictions)
	status, ok := repo.statusWrites[it.ID]
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(status, "error: "), "status = %q", status)
}

func TestRepredictUser_IsolatesItemFailures(t *testing.T) {
	userID := uuid.New()
	items := []*entities.Item{
		newTestItem(userID, "Apel"),
		newTestItem(userID, "Pisang"),
		newTestItem(userID, "Mangga"),
		newTestItem(userID, "Jeruk"),
		newTestItem(userID, "Anggur"),
	}
	repo := newFakeItemRepo(items...)
	repo.failPredict[items[2].ID] = true

	svc := newTestService(repo, nil, &fakeModelSource{model: &fixedModel{out: 3}}, nil)
	svc.RepredictUser(context.Background(), userID)

	assert.Len(t, repo.predictions, 4)
	for i, it := range items {
		if i == 2 {
			continue
		}
		assert.Contains(t, repo.predictions, it.ID)
	}

	status, ok := repo.statusWrites[items[2].ID]
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(status, "error: "))
}

func TestDailySweep_TagsSweepStatus(t *testing.T) {
	userID := uuid.New()
	it := newTestItem(userID, "Tomat")
	repo := newFakeItemRepo(it)

	svc := newTestService(repo, nil, &fakeModelSource{model: &fixedModel{out: 5}}, nil)
	svc.DailySweep(context.Background())

	write, ok := repo.predictions[it.ID]
	require.True(t, ok)
	assert.Equal(t, entities.PredictionStatusDaily, write.status)
}

func TestPeriodicSweep_StaleQueryFailureSweepsAllItems(t *testing.T) {
	userID := uuid.New()
	items := []*entities.Item{
		newTestItem(userID, "Apel"),
		newTestItem(userID, "Pisang"),
		newTestItem(userID, "Tomat"),
	}
	repo := newFakeItemRepo(items...)
	repo.staleErr = errors.New("index unavailable")

	svc := newTestService(repo, nil, &fakeModelSource{model: &fixedModel{out: 3}}, nil)
	svc.PeriodicSweep(context.Background())

	// Degraded but correct: with the stale filter broken, every item of the
	// user still gets a fresh prediction.
	require.Len(t, repo.predictions, len(items))
	for _, it := range items {
		write, ok := repo.predictions[it.ID]
		require.True(t, ok)
		assert.Equal(t, entities.PredictionStatusOK, write.status)
	}
}

func TestSweeps_ModelFailureAbortsWithoutWrites(t *testing.T) {
	userID := uuid.New()
	repo := newFakeItemRepo(newTestItem(userID, "Apel"), newTestItem(userID, "Pisang"))

	svc := newTestService(repo, nil, &fakeModelSource{err: errors.New("bucket unreachable")}, nil)
	svc.PeriodicSweep(context.Background())
	svc.DailySweep(context.Background())

	assert.Empty(t, repo.predictions)
	assert.Empty(t, repo.statusWrites)
}

func TestExpirySweep_NotifiesOwnersOnce(t *testing.T) {
	userID := uuid.New()
	one := 1
	first := newTestItem(userID, "Apel")
	first.PredictedShelfLife = &one
	second := newTestItem(userID, "Pisang")
	second.PredictedShelfLife = &one

	repo := newFakeItemRepo(first, second)
	owners := &fakeOwnerRepo{users: map[uuid.UUID]*entities.User{
		userID: {ID: userID, FCMToken: "token-1"},
	}}
	notifier := &fakeNotifier{}

	svc := newTestService(repo, owners, &fakeModelSource{model: &fixedModel{out: 1}}, notifier)
	svc.ExpirySweep(context.Background())

	// One push per expiring item, but only one owner lookup.
	assert.Len(t, notifier.sent, 2)
	assert.Equal(t, 1, owners.lookups[userID])
	assert.Contains(t, notifier.sent[0].body, "Apel")
}

func TestExpirySweep_SkipsUsersWithoutToken(t *testing.T) {
	userID := uuid.New()
	one := 1
	it := newTestItem(userID, "Apel")
	it.PredictedShelfLife = &one

	repo := newFakeItemRepo(it)
	owners := &fakeOwnerRepo{users: map[uuid.UUID]*entities.User{
		userID: {ID: userID, FCMToken: ""},
	}}
	notifier := &fakeNotifier{}

	svc := newTestService(repo, owners, &fakeModelSource{model: &fixedModel{out: 1}}, notifier)
	svc.ExpirySweep(context.Background())

	assert.Empty(t, notifier.sent)
}

func TestExpirySweep_SendFailureDoesNotStopSweep(t *testing.T) {
	badUser, goodUser := uuid.New(), uuid.New()
	one := 1
	bad := newTestItem(badUser, "Apel")
	bad.PredictedShelfLife = &one
	good := newTestItem(goodUser, "Pisang")
	good.PredictedShelfLife = &one

	repo := newFakeItemRepo(bad, good)
	owners := &fakeOwnerRepo{users: map[uuid.UUID]*entities.User{
		badUser:  {ID: badUser, FCMToken: "dead-token"},
		goodUser: {ID: goodUser, FCMToken: "live-token"},
	}}
	notifier := &fakeNotifier{failFor: map[string]bool{"dead-token": true}}

	svc := newTestService(repo, owners, &fakeModelSource{model: &fixedModel{out: 1}}, notifier)
	svc.ExpirySweep(context.Background())

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "live-token", notifier.sent[0].token)
}
