package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// Warmer fills the cache for one search text.
type Warmer interface {
	Warm(ctx context.Context, query string) error
}

// Scheduler periodically warms the cache for configured locations so that
// their requests are served from the store.
type Scheduler struct {
	scheduler *gocron.Scheduler
	warmer    Warmer
	locations []string
	interval  time.Duration
	timeout   time.Duration
	log       *logrus.Entry
}

// New creates a new Scheduler.
func New(locations []string, interval time.Duration, warmer Warmer) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		warmer:    warmer,
		locations: locations,
		interval:  interval,
		timeout:   30 * time.Second,
		log:       logrus.WithField("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Info("[Scheduler] No locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	s.log.Infof("[Scheduler] Warming %d locations", len(s.locations))

	var wg sync.WaitGroup
	for _, query := range s.locations {
		query := query
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if err := s.warmer.Warm(ctx, query); err != nil {
				s.log.WithError(err).Warnf("[Scheduler] Warming %q failed", query)
			}
		}()
	}
	wg.Wait()
	s.log.Info("[Scheduler] Completed warm-up job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
