package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"freshlens-backend/domain"
	"freshlens-backend/internal/utils"

	"github.com/go-resty/resty/v2"
)

// Decoded images above this size are rejected; the mobile client is expected
// to compress before upload.
const maxImageBytes = 6 * 1024 * 1024

const defaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"

type (
	VisionService interface {
		AnnotateImage(ctx context.Context, req domain.AnnotateImageRequest) (domain.AnnotateImageResponse, error)
	}

	visionService struct {
		client   *resty.Client
		endpoint string
		apiKey   string
	}

	annotateRequest struct {
		Requests []annotateEntry `json:"requests"`
	}

	annotateEntry struct {
		Image    imageContent     `json:"image"`
		Features []featureRequest `json:"features"`
	}

	imageContent struct {
		Content string `json:"content"`
	}

	featureRequest struct {
		Type       string `json:"type"`
		MaxResults int    `json:"maxResults"`
	}

	annotateResponse struct {
		Responses []struct {
			LabelAnnotations []struct {
				Description string  `json:"description"`
				Score       float64 `json:"score"`
			} `json:"labelAnnotations"`
			Error *struct {
				Message string `json:"message"`
			} `json:"error"`
		} `json:"responses"`
	}
)

func NewVisionService() VisionService {
	return &visionService{
		client:   resty.New().SetTimeout(30 * time.Second),
		endpoint: defaultEndpoint,
		apiKey:   utils.GetConfig("VISION_API_KEY"),
	}
}

func (s *visionService) AnnotateImage(ctx context.Context, req domain.AnnotateImageRequest) (domain.AnnotateImageResponse, error) {
	raw, err := decodeImage(req.Image)
	if err != nil {
		return domain.AnnotateImageResponse{}, err
	}

	body := annotateRequest{
		Requests: []annotateEntry{{
			Image:    imageContent{Content: base64.StdEncoding.EncodeToString(raw)},
			Features: []featureRequest{{Type: "LABEL_DETECTION", MaxResults: 5}},
		}},
	}

	var result annotateResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(body).
		SetResult(&result).
		Post(s.endpoint)
	if err != nil {
		return domain.AnnotateImageResponse{}, fmt.Errorf("%w: %v", domain.ErrVisionFailed, err)
	}
	if resp.IsError() {
		return domain.AnnotateImageResponse{}, fmt.Errorf("%w: %s", domain.ErrVisionFailed, resp.Status())
	}

	if len(result.Responses) == 0 {
		return domain.AnnotateImageResponse{Label: "Tidak terdeteksi"}, nil
	}

	// Vision can report an embedded error instead of failing the HTTP call.
	first := result.Responses[0]
	if first.Error != nil && first.Error.Message != "" {
		return domain.AnnotateImageResponse{}, fmt.Errorf("%w: %s", domain.ErrVisionFailed, first.Error.Message)
	}

	if len(first.LabelAnnotations) == 0 {
		return domain.AnnotateImageResponse{Label: "Tidak terdeteksi"}, nil
	}
	return domain.AnnotateImageResponse{Label: first.LabelAnnotations[0].Description}, nil
}

// decodeImage accepts a bare base64 string or a data-URI and enforces the
// decoded size limit.
func decodeImage(image string) ([]byte, error) {
	if image == "" {
		return nil, domain.ErrImageMissing
	}

	if strings.HasPrefix(image, "data:") {
		if comma := strings.Index(image, ","); comma != -1 {
			image = image[comma+1:]
		}
	}

	raw, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return nil, domain.ErrImageDecode
	}

	if len(raw) > maxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrImageTooLarge, len(raw))
	}
	return raw, nil
}
