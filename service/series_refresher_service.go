package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"place-server/metrics"

	"github.com/robfig/cron/v3"
)

// SeriesWarmer regenerates cached synthetic series.
type SeriesWarmer interface {
	WarmSeries(ctx context.Context) error
}

// SeriesRefresherService rewarms the synthetic series cache on a cron schedule.
type SeriesRefresherService struct {
	warmer   SeriesWarmer
	metrics  *metrics.Metrics
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	now      func() time.Time
}

// NewSeriesRefresherService constructs a refresher. A zero timeout means
// runs are not bounded.
func NewSeriesRefresherService(
	warmer SeriesWarmer,
	m *metrics.Metrics,
	schedule string,
	timeout time.Duration,
) *SeriesRefresherService {
	return &SeriesRefresherService{
		warmer:   warmer,
		metrics:  m,
		schedule: schedule,
		timeout:  timeout,
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		now: time.Now,
	}
}

// Start schedules the periodic job and kicks off an initial run in the background.
func (sr *SeriesRefresherService) Start() error {
	if _, err := sr.cron.AddFunc(sr.schedule, sr.runScheduled); err != nil {
		return fmt.Errorf("invalid refresher schedule %q: %w", sr.schedule, err)
	}
	sr.cron.Start()
	log.Printf("[SeriesRefresherService] Scheduled series refresh %q", sr.schedule)

	go sr.runScheduled()
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (sr *SeriesRefresherService) Stop() {
	<-sr.cron.Stop().Done()
	log.Println("[SeriesRefresherService] Stopped.")
}

func (sr *SeriesRefresherService) runScheduled() {
	ctx := context.Background()
	if sr.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sr.timeout)
		defer cancel()
	}

	log.Println("[SeriesRefresherService] Running series refresh job.")
	if err := sr.RefreshSeries(ctx); err != nil {
		log.Printf("[SeriesRefresherService] RefreshSeries returned error: %v", err)
	} else {
		log.Println("[SeriesRefresherService] RefreshSeries completed successfully.")
	}
}

// RefreshSeries warms the cache once and records the outcome.
func (sr *SeriesRefresherService) RefreshSeries(ctx context.Context) error {
	err := sr.warmer.WarmSeries(ctx)
	sr.metrics.RefreshCompleted(err, sr.now())
	return err
}
