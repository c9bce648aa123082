package refresh

import (
	"context"
	"fmt"
	"time"

	"freshlens-backend/entities"
	"freshlens-backend/pkg/features"
	"freshlens-backend/pkg/item"
	"freshlens-backend/pkg/mlmodel"
	"freshlens-backend/pkg/notification"
	"freshlens-backend/pkg/sensor"
	"freshlens-backend/pkg/user"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// SensorWindow is the trailing window the aggregator averages over.
	SensorWindow = 24 * time.Hour

	// StaleAfter marks a prediction as due for the periodic sweep.
	StaleAfter = 3 * time.Hour

	// ExpiryThresholdDays triggers a push reminder at or below this many
	// remaining days.
	ExpiryThresholdDays = 2
)

type (
	// ModelSource hides the cache behind the one method the orchestrator
	// needs; tests substitute a stub.
	ModelSource interface {
		Get(ctx context.Context) (mlmodel.Model, error)
	}

	// SensorSummarizer is the aggregator side of the sensor service.
	SensorSummarizer interface {
		Summary(ctx context.Context, userID uuid.UUID, window time.Duration) sensor.Summary
	}

	// RefreshService decides which items get re-predicted and when. Every
	// trigger is idempotent and isolates per-item failures: one bad item
	// writes an error status and never aborts its siblings.
	RefreshService interface {
		OnItemCreated(ctx context.Context, it *entities.Item)
		RepredictUser(ctx context.Context, userID uuid.UUID)
		PeriodicSweep(ctx context.Context)
		DailySweep(ctx context.Context)
		ExpirySweep(ctx context.Context)
	}

	refreshService struct {
		itemRepository item.ItemRepository
		userRepository user.UserRepository
		sensors        SensorSummarizer
		models         ModelSource
		notifier       notification.Notifier
	}
)

func NewRefreshService(
	itemRepository item.ItemRepository,
	userRepository user.UserRepository,
	sensors SensorSummarizer,
	models ModelSource,
	notifier notification.Notifier,
) RefreshService {
	return &refreshService{
		itemRepository: itemRepository,
		userRepository: userRepository,
		sensors:        sensors,
		models:         models,
		notifier:       notifier,
	}
}

// OnItemCreated scores a freshly created item. The item is never left without
// a status: a model or write failure is recorded as "error: <detail>".
func (s *refreshService) OnItemCreated(ctx context.Context, it *entities.Item) {
	model, err := s.models.Get(ctx)
	if err != nil {
		log.Error().Err(err).Str("item_id", it.ID.String()).Msg("predict initial: model unavailable")
		s.writeErrorStatus(ctx, it.ID, err)
		return
	}

	summary := s.sensors.Summary(ctx, it.UserID, SensorWindow)
	if err := s.predictAndWrite(ctx, model, it, summary, entities.PredictionStatusOK); err != nil {
		log.Error().Err(err).Str("item_id", it.ID.String()).Msg("predict initial: failed")
		return
	}
	log.Info().
		Str("user_id", it.UserID.String()).
		Str("item_id", it.ID.String()).
		Msg("predict initial: ok")
}

// RepredictUser recomputes every item of one user, typically after a sensor
// value change. A model-load failure aborts the whole trigger; per-item
// failures do not.
func (s *refreshService) RepredictUser(ctx context.Context, userID uuid.UUID) {
	model, err := s.models.Get(ctx)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("repredict on sensor: model unavailable")
		return
	}

	items, err := s.itemRepository.GetByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("repredict on sensor: items query failed")
		return
	}

	summary := s.sensors.Summary(ctx, userID, SensorWindow)
	updated := 0
	for _, it := range items {
		if err := s.predictAndWrite(ctx, model, it, summary, entities.PredictionStatusOK); err != nil {
			log.Warn().Err(err).
				Str("user_id", userID.String()).
				Str("item_id", it.ID.String()).
				Msg("repredict on sensor: item failed")
			continue
		}
		updated++
	}
	log.Info().Str("user_id", userID.String()).Int("updated", updated).Msg("repredict on sensor: done")
}

// PeriodicSweep recomputes predictions older than StaleAfter across all
// users. If the stale filter itself fails, the user's items are swept
// unconditionally: degraded but correct.
func (s *refreshService) PeriodicSweep(ctx context.Context) {
	s.sweep(ctx, "periodic sweep", entities.PredictionStatusOK, func(userID uuid.UUID) ([]*entities.Item, error) {
		items, err := s.itemRepository.GetStale(ctx, userID, time.Now().UTC().Add(-StaleAfter))
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("periodic sweep: stale query failed, sweeping all")
			return s.itemRepository.GetByUser(ctx, userID)
		}
		return items, nil
	})
}

// DailySweep unconditionally recomputes every item, tagging the result so
// sweep-driven updates are distinguishable from triggered ones.
func (s *refreshService) DailySweep(ctx context.Context) {
	s.sweep(ctx, "daily sweep", entities.PredictionStatusDaily, func(userID uuid.UUID) ([]*entities.Item, error) {
		return s.itemRepository.GetByUser(ctx, userID)
	})
}

func (s *refreshService) sweep(ctx context.Context, name string, status string, selectItems func(uuid.UUID) ([]*entities.Item, error)) {
	model, err := s.models.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("%s: model unavailable", name)
		return
	}

	userIDs, err := s.itemRepository.ListUserIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("%s: user listing failed", name)
		return
	}

	totalUpdated := 0
	for _, userID := range userIDs {
		items, err := selectItems(userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msgf("%s: items query failed", name)
			continue
		}
		if len(items) == 0 {
			continue
		}

		summary := s.sensors.Summary(ctx, userID, SensorWindow)
		for _, it := range items {
			if err := s.predictAndWrite(ctx, model, it, summary, status); err != nil {
				log.Warn().Err(err).
					Str("user_id", userID.String()).
					Str("item_id", it.ID.String()).
					Msgf("%s: item failed", name)
				continue
			}
			totalUpdated++
		}
	}
	log.Info().Int("updated", totalUpdated).Msgf("%s: done", name)
}

// ExpirySweep notifies owners of items at or below the threshold. The owner's
// token is resolved once per sweep; users without a token are silently
// skipped, and a send failure never stops the sweep.
func (s *refreshService) ExpirySweep(ctx context.Context) {
	items, err := s.itemRepository.GetExpiring(ctx, ExpiryThresholdDays)
	if err != nil {
		log.Error().Err(err).Msg("expiry sweep: query failed")
		return
	}

	tokens := make(map[uuid.UUID]string)
	sent := 0
	for _, it := range items {
		token, ok := tokens[it.UserID]
		if !ok {
			owner, err := s.userRepository.GetByID(ctx, it.UserID.String())
			if err != nil {
				log.Warn().Err(err).Str("user_id", it.UserID.String()).Msg("expiry sweep: owner lookup failed")
				tokens[it.UserID] = ""
				continue
			}
			token = owner.FCMToken
			tokens[it.UserID] = token
		}
		if token == "" {
			continue
		}

		days := 0
		if it.PredictedShelfLife != nil {
			days = *it.PredictedShelfLife
		}
		body := fmt.Sprintf("%s is predicted to spoil in %d day(s). Check your inventory!", it.Name, days)
		if err := s.notifier.Send(ctx, token, "Food expiring soon", body); err != nil {
			log.Warn().Err(err).Str("item_id", it.ID.String()).Msg("expiry sweep: push failed")
			continue
		}
		sent++
	}
	log.Info().Int("notified", sent).Msg("expiry sweep: done")
}

func (s *refreshService) predictAndWrite(ctx context.Context, model mlmodel.Model, it *entities.Item, summary sensor.Summary, status string) error {
	now := time.Now().UTC()

	fvals := features.Encode(it, summary.AvgTemp, summary.AvgHumid, now)
	days, err := mlmodel.PredictDays(model, fvals)
	if err != nil {
		s.writeErrorStatus(ctx, it.ID, err)
		return err
	}

	if err := s.itemRepository.UpdatePrediction(ctx, it.ID, days, status, now); err != nil {
		s.writeErrorStatus(ctx, it.ID, err)
		return err
	}
	return nil
}

func (s *refreshService) writeErrorStatus(ctx context.Context, itemID uuid.UUID, cause error) {
	now := time.Now().UTC()
	if err := s.itemRepository.UpdatePredictionStatus(ctx, itemID, "error: "+cause.Error(), now); err != nil {
		log.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to write error status")
	}
}
