package domain

import "errors"

var (
	MessageSuccessAnnotateImage = "image annotated successfully"
	MessageFailedAnnotateImage  = "failed to annotate image"

	ErrImageMissing  = errors.New("field 'image' (base64 string) is required")
	ErrImageTooLarge = errors.New("image too large, compress or resize on the client first")
	ErrImageDecode   = errors.New("failed to decode base64 image")
	ErrVisionFailed  = errors.New("vision service error")
)

type (
	AnnotateImageRequest struct {
		// Image is a base64 string, optionally with a data-URI prefix.
		Image string `json:"image" validate:"required"`
	}

	AnnotateImageResponse struct {
		Label string `json:"label"`
	}
)
