package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// RefreshJob replaces the scheduler triggers of the hosted-functions setup
// with in-process tickers: a periodic stale sweep, a daily full re-prediction
// and a daily expiry-notification pass.
type RefreshJob struct {
	service          RefreshService
	periodicInterval time.Duration
	dailyInterval    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRefreshJob(service RefreshService, periodicInterval, dailyInterval time.Duration) *RefreshJob {
	if periodicInterval <= 0 {
		periodicInterval = 3 * time.Hour
	}
	if dailyInterval <= 0 {
		dailyInterval = 24 * time.Hour
	}
	return &RefreshJob{
		service:          service,
		periodicInterval: periodicInterval,
		dailyInterval:    dailyInterval,
	}
}

// Start launches the background goroutine. Calling Start twice stops the
// previous run first.
func (j *RefreshJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go j.run(jobCtx)

	log.Info().
		Str("periodic_interval", j.periodicInterval.String()).
		Str("daily_interval", j.dailyInterval.String()).
		Msg("refresh job started")
}

// Stop cancels the goroutine and waits for it to exit. Safe to call when not
// running.
func (j *RefreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *RefreshJob) run(ctx context.Context) {
	defer j.wg.Done()

	periodic := time.NewTicker(j.periodicInterval)
	defer periodic.Stop()
	daily := time.NewTicker(j.dailyInterval)
	defer daily.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("refresh job stopped")
			return
		case <-periodic.C:
			j.service.PeriodicSweep(ctx)
		case <-daily.C:
			j.service.DailySweep(ctx)
			j.service.ExpirySweep(ctx)
		}
	}
}
