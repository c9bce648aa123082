package handlers

import (
	"errors"

	"freshlens-backend/domain"
	"freshlens-backend/internal/api/presenters"
	"freshlens-backend/pkg/item"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ItemHandler interface {
		AddItem(c *fiber.Ctx) error
		GetItems(c *fiber.Ctx) error
		GetItemDetails(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
		UploadItemImage(c *fiber.Ctx) error
	}

	itemHandler struct {
		itemService item.ItemService
		validator   *validator.Validate
	}
)

func NewItemHandler(itemService item.ItemService, validator *validator.Validate) ItemHandler {
	return &itemHandler{
		itemService: itemService,
		validator:   validator,
	}
}

func (h *itemHandler) AddItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	res, err := h.itemService.AddItem(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddItem)
}

func (h *itemHandler) GetItems(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	items, err := h.itemService.GetItems(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetItems, err)
	}

	return presenters.SuccessResponse(c, items, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) GetItemDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	res, err := h.itemService.GetItemByID(c.Context(), itemID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetItems, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetItems, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetItems)
}

func (h *itemHandler) DeleteItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.itemService.DeleteItem(c.Context(), itemID, userID); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedDeleteItem, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteItem)
}

func (h *itemHandler) UploadItemImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadItemImageRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadItemImage, err)
	}

	imageURL, err := h.itemService.UploadItemImage(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadItemImage, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"image_url": imageURL}, fiber.StatusOK, domain.MessageSuccessUploadItemImage)
}
