package handlers

import (
	"errors"

	"freshlens-backend/domain"
	"freshlens-backend/internal/api/presenters"
	"freshlens-backend/pkg/vision"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	VisionHandler interface {
		AnnotateImage(c *fiber.Ctx) error
	}

	visionHandler struct {
		visionService vision.VisionService
		validator     *validator.Validate
	}
)

func NewVisionHandler(visionService vision.VisionService, validator *validator.Validate) VisionHandler {
	return &visionHandler{
		visionService: visionService,
		validator:     validator,
	}
}

func (h *visionHandler) AnnotateImage(c *fiber.Ctx) error {
	req := new(domain.AnnotateImageRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnnotateImage, domain.ErrImageMissing)
	}

	res, err := h.visionService.AnnotateImage(c.Context(), *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrImageMissing),
			errors.Is(err, domain.ErrImageTooLarge),
			errors.Is(err, domain.ErrImageDecode):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAnnotateImage, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedAnnotateImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAnnotateImage)
}
