package mlmodel

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"freshlens-backend/domain"

	"github.com/rs/zerolog/log"
)

const (
	loadAttempts = 3
	retryDelay   = 1 * time.Second
)

type (
	// BlobStore is the subset of the S3 wrapper the cache needs.
	BlobStore interface {
		Exists(ctx context.Context, objectKey string) (bool, error)
		DownloadFile(ctx context.Context, objectKey string, destPath string) error
		BucketName() string
	}

	// ModelCache downloads and deserializes the booster once per process and
	// hands the same handle to every caller afterwards. There is no
	// invalidation: a replaced artifact is only picked up on restart.
	ModelCache struct {
		blobs    BlobStore
		blobPath string

		mu    sync.Mutex
		model Model

		// loader is swapped out in tests.
		loader func(path string) (Model, error)
	}
)

func NewModelCache(blobs BlobStore, blobPath string) *ModelCache {
	return &ModelCache{
		blobs:    blobs,
		blobPath: blobPath,
		loader:   loadBoosterFile,
	}
}

// Get returns the cached model, loading it on first use. A missing artifact
// fails immediately; a corrupt or half-downloaded one is retried up to
// loadAttempts times with retryDelay in between. The handle is only published
// after a fully successful load, so a failed attempt never leaves torn state.
func (c *ModelCache) Get(ctx context.Context) (Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model != nil {
		return c.model, nil
	}

	log.Info().
		Str("bucket", c.blobs.BucketName()).
		Str("blob_path", c.blobPath).
		Msg("model loader: fetching booster")

	exists, err := c.blobs.Exists(ctx, c.blobPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrModelLoad, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: s3://%s/%s", domain.ErrModelNotFound, c.blobs.BucketName(), c.blobPath)
	}

	var lastErr error
	for attempt := 1; attempt <= loadAttempts; attempt++ {
		model, err := c.downloadAndLoad(ctx)
		if err == nil {
			c.model = model
			log.Info().Int("attempt", attempt).Msg("model loader: booster loaded")
			return c.model, nil
		}

		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("model loader: failed to load booster")
		if attempt < loadAttempts {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrModelLoad, ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", domain.ErrModelLoad, loadAttempts, lastErr)
}

func (c *ModelCache) downloadAndLoad(ctx context.Context) (Model, error) {
	tmp, err := os.CreateTemp("", "freshlens-model-*.bin")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.blobs.DownloadFile(ctx, c.blobPath, tmpPath); err != nil {
		return nil, err
	}

	return c.loader(tmpPath)
}
