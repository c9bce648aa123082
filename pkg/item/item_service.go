package item

import (
	"context"
	"errors"
	"fmt"
	"time"

	"freshlens-backend/domain"
	"freshlens-backend/entities"
	"freshlens-backend/internal/utils/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// ShelfLifePredictor is implemented by the refresh orchestrator; the item
	// service only knows that a freshly created item must be scored.
	ShelfLifePredictor interface {
		OnItemCreated(ctx context.Context, item *entities.Item)
	}

	ItemService interface {
		AddItem(ctx context.Context, req domain.AddItemRequest, userID string) (domain.ItemResponse, error)
		GetItems(ctx context.Context, userID string) ([]domain.ItemResponse, error)
		GetItemByID(ctx context.Context, id string, userID string) (domain.ItemResponse, error)
		DeleteItem(ctx context.Context, id string, userID string) error
		UploadItemImage(ctx context.Context, req domain.UploadItemImageRequest, userID string) (string, error)
	}

	itemService struct {
		itemRepository ItemRepository
		s3             storage.AwsS3
		predictor      ShelfLifePredictor
	}
)

func NewItemService(itemRepository ItemRepository, s3 storage.AwsS3, predictor ShelfLifePredictor) ItemService {
	return &itemService{
		itemRepository: itemRepository,
		s3:             s3,
		predictor:      predictor,
	}
}

func (s *itemService) AddItem(ctx context.Context, req domain.AddItemRequest, userID string) (domain.ItemResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ItemResponse{}, domain.ErrParseUUID
	}

	entryDate := time.Now().UTC()
	if req.EntryDate != "" {
		entryDate, err = time.Parse(time.RFC3339, req.EntryDate)
		if err != nil {
			return domain.ItemResponse{}, domain.ErrInvalidEntryDate
		}
	}

	if req.StorageMode != entities.StorageModeRefrigerated && req.StorageMode != entities.StorageModeAmbient {
		return domain.ItemResponse{}, domain.ErrInvalidStorage
	}

	item := &entities.Item{
		ID:               uuid.New(),
		UserID:           userUUID,
		Name:             req.Name,
		InitialCondition: req.InitialCondition,
		StorageMode:      req.StorageMode,
		EntryDate:        entryDate,
	}

	if err := s.itemRepository.Add(ctx, item); err != nil {
		return domain.ItemResponse{}, err
	}

	// Initial prediction runs inline so the item is never left without a
	// status; failures are written as an error status, not returned.
	s.predictor.OnItemCreated(ctx, item)

	stored, err := s.itemRepository.GetByID(ctx, item.ID.String())
	if err == nil {
		item = stored
	}

	return toItemResponse(item), nil
}

func (s *itemService) GetItems(ctx context.Context, userID string) ([]domain.ItemResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	items, err := s.itemRepository.GetByUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toItemResponse(item))
	}
	return response, nil
}

func (s *itemService) GetItemByID(ctx context.Context, id string, userID string) (domain.ItemResponse, error) {
	item, err := s.getOwnedItem(ctx, id, userID)
	if err != nil {
		return domain.ItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func (s *itemService) DeleteItem(ctx context.Context, id string, userID string) error {
	item, err := s.getOwnedItem(ctx, id, userID)
	if err != nil {
		return err
	}

	if item.ImageURL != "" {
		if objectKey := s.s3.GetObjectKeyFromLink(item.ImageURL); objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}

	return s.itemRepository.Delete(ctx, id)
}

func (s *itemService) UploadItemImage(ctx context.Context, req domain.UploadItemImageRequest, userID string) (string, error) {
	item, err := s.getOwnedItem(ctx, req.ItemID, userID)
	if err != nil {
		return "", err
	}

	fileName := fmt.Sprintf("item-%s", item.ID.String())
	var objectKey string
	if item.ImageURL != "" {
		if existingKey := s.s3.GetObjectKeyFromLink(item.ImageURL); existingKey != "" {
			objectKey, err = s.s3.UpdateFile(existingKey, req.Image, storage.AllowImage...)
		} else {
			objectKey, err = s.s3.UploadFile(fileName, req.Image, "items", storage.AllowImage...)
		}
	} else {
		objectKey, err = s.s3.UploadFile(fileName, req.Image, "items", storage.AllowImage...)
	}
	if err != nil {
		return "", err
	}

	item.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.itemRepository.Update(ctx, item); err != nil {
		return "", err
	}

	return item.ImageURL, nil
}

func (s *itemService) getOwnedItem(ctx context.Context, id string, userID string) (*entities.Item, error) {
	item, err := s.itemRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedItem
	}
	return item, nil
}

func toItemResponse(item *entities.Item) domain.ItemResponse {
	return domain.ItemResponse{
		ID:                  item.ID.String(),
		Name:                item.Name,
		InitialCondition:    item.InitialCondition,
		StorageMode:         item.StorageMode,
		EntryDate:           item.EntryDate,
		ImageURL:            item.ImageURL,
		PredictedShelfLife:  item.PredictedShelfLife,
		PredictionStatus:    item.PredictionStatus,
		PredictionUpdatedAt: item.PredictionUpdatedAt,
		CreatedAt:           item.CreatedAt,
	}
}
