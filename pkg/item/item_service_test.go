package item

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"freshlens-backend/domain"
	"freshlens-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeItemRepo struct {
	items map[string]*entities.Item

	deleted []string
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*entities.Item)}
}

func (f *fakeItemRepo) Add(_ context.Context, item *entities.Item) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakeItemRepo) GetByID(_ context.Context, id string) (*entities.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeItemRepo) GetByUser(_ context.Context, userID uuid.UUID) ([]*entities.Item, error) {
	var out []*entities.Item
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) Update(_ context.Context, item *entities.Item) error {
	f.items[item.ID.String()] = item
	return nil
}

func (f *fakeItemRepo) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeItemRepo) GetStale(_ context.Context, _ uuid.UUID, _ time.Time) ([]*entities.Item, error) {
	return nil, nil
}

func (f *fakeItemRepo) GetExpiring(_ context.Context, _ int) ([]*entities.Item, error) {
	return nil, nil
}

func (f *fakeItemRepo) ListUserIDs(_ context.Context) ([]uuid.UUID, error) { return nil, nil }

func (f *fakeItemRepo) UpdatePrediction(_ context.Context, id uuid.UUID, days int, status string, at time.Time) error {
	item, ok := f.items[id.String()]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.PredictedShelfLife = &days
	item.PredictionStatus = status
	item.PredictionUpdatedAt = &at
	return nil
}

func (f *fakeItemRepo) UpdatePredictionStatus(_ context.Context, id uuid.UUID, status string, at time.Time) error {
	item, ok := f.items[id.String()]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.PredictionStatus = status
	item.PredictionUpdatedAt = &at
	return nil
}

type fakePredictor struct {
	days int

	scored []*entities.Item
}

func (f *fakePredictor) OnItemCreated(ctx context.Context, item *entities.Item) {
	f.scored = append(f.scored, item)
	days := f.days
	now := time.Now().UTC()
	item.PredictedShelfLife = &days
	item.PredictionStatus = entities.PredictionStatusOK
	item.PredictionUpdatedAt = &now
}

type fakeS3 struct {
	deletedKeys []string
}

func (f *fakeS3) UploadFile(fileName string, _ *multipart.FileHeader, dir string, _ ...string) (string, error) {
	return dir + "/" + fileName + ".jpg", nil
}

func (f *fakeS3) UpdateFile(objectKey string, _ *multipart.FileHeader, _ ...string) (string, error) {
	return objectKey, nil
}

func (f *fakeS3) DeleteFile(objectKey string) error {
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.example.com/" + objectKey
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	const prefix = "https://bucket.example.com/"
	if len(link) <= len(prefix) || link[:len(prefix)] != prefix {
		return ""
	}
	return link[len(prefix):]
}

func (f *fakeS3) Exists(_ context.Context, _ string) (bool, error)          { return false, nil }
func (f *fakeS3) DownloadFile(_ context.Context, _ string, _ string) error { return nil }
func (f *fakeS3) BucketName() string                                        { return "bucket" }

func addRequest() domain.AddItemRequest {
	return domain.AddItemRequest{
		Name:             "Apel",
		InitialCondition: "Segar",
		StorageMode:      entities.StorageModeRefrigerated,
	}
}

func TestAddItem_ScoresImmediately(t *testing.T) {
	repo := newFakeItemRepo()
	predictor := &fakePredictor{days: 6}
	svc := NewItemService(repo, &fakeS3{}, predictor)
	userID := uuid.New()

	res, err := svc.AddItem(context.Background(), addRequest(), userID.String())
	require.NoError(t, err)

	require.Len(t, predictor.scored, 1)
	require.NotNil(t, res.PredictedShelfLife)
	assert.Equal(t, 6, *res.PredictedShelfLife)
	assert.Equal(t, entities.PredictionStatusOK, res.PredictionStatus)
	assert.Equal(t, "Apel", res.Name)
}

func TestAddItem_DefaultsEntryDateToNow(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewItemService(repo, &fakeS3{}, &fakePredictor{})

	before := time.Now().UTC()
	res, err := svc.AddItem(context.Background(), addRequest(), uuid.NewString())
	require.NoError(t, err)

	assert.False(t, res.EntryDate.Before(before))
	assert.False(t, res.EntryDate.After(time.Now().UTC()))
}

func TestAddItem_ParsesExplicitEntryDate(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewItemService(repo, &fakeS3{}, &fakePredictor{})

	req := addRequest()
	req.EntryDate = "2026-02-01T08:00:00Z"

	res, err := svc.AddItem(context.Background(), req, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC), res.EntryDate)
}

func TestAddItem_RejectsBadEntryDate(t *testing.T) {
	svc := NewItemService(newFakeItemRepo(), &fakeS3{}, &fakePredictor{})

	req := addRequest()
	req.EntryDate = "01-02-2026"

	_, err := svc.AddItem(context.Background(), req, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrInvalidEntryDate)
}

func TestAddItem_RejectsUnknownStorageMode(t *testing.T) {
	svc := NewItemService(newFakeItemRepo(), &fakeS3{}, &fakePredictor{})

	req := addRequest()
	req.StorageMode = "freezer"

	_, err := svc.AddItem(context.Background(), req, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrInvalidStorage)
}

func TestGetItemByID_EnforcesOwnership(t *testing.T) {
	repo := newFakeItemRepo()
	svc := NewItemService(repo, &fakeS3{}, &fakePredictor{})
	owner := uuid.New()

	res, err := svc.AddItem(context.Background(), addRequest(), owner.String())
	require.NoError(t, err)

	_, err = svc.GetItemByID(context.Background(), res.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedItem)

	got, err := svc.GetItemByID(context.Background(), res.ID, owner.String())
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)
}

func TestDeleteItem_RemovesStoredImage(t *testing.T) {
	repo := newFakeItemRepo()
	s3 := &fakeS3{}
	svc := NewItemService(repo, s3, &fakePredictor{})
	owner := uuid.New()

	res, err := svc.AddItem(context.Background(), addRequest(), owner.String())
	require.NoError(t, err)

	stored := repo.items[res.ID]
	stored.ImageURL = "https://bucket.example.com/items/item-" + res.ID + ".jpg"

	require.NoError(t, svc.DeleteItem(context.Background(), res.ID, owner.String()))

	assert.Equal(t, []string{res.ID}, repo.deleted)
	require.Len(t, s3.deletedKeys, 1)
	assert.Equal(t, "items/item-"+res.ID+".jpg", s3.deletedKeys[0])
}

func TestDeleteItem_UnknownItem(t *testing.T) {
	svc := NewItemService(newFakeItemRepo(), &fakeS3{}, &fakePredictor{})

	err := svc.DeleteItem(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}
