package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/cenkalti/backoff/v4"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	catalogCtrl *controllers.CatalogController
	logger      *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(catalogCtrl *controllers.CatalogController, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		catalogCtrl: catalogCtrl,
		logger:      logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every 6 hours: warm the trending cache
	_, err := s.cron.AddFunc("0 */6 * * *", func() {
		s.runWarmTrending()
	})
	if err != nil {
		return fmt.Errorf("failed to add trending warm job: %w", err)
	}

	// Daily at 03:00: refresh the genre name table
	_, err = s.cron.AddFunc("0 3 * * *", func() {
		s.runRefreshGenres()
	})
	if err != nil {
		return fmt.Errorf("failed to add genre refresh job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Warm both caches immediately so the first requests don't pay for it
	go func() {
		s.runRefreshGenres()
		s.runWarmTrending()
	}()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runWarmTrending executes the trending warm job
func (s *Scheduler) runWarmTrending() {
	s.logger.Info("Running scheduled trending warm")

	err := s.withRetry(func(ctx context.Context) error {
		_, err := s.catalogCtrl.WarmTrending(ctx)
		return err
	})
	if err != nil {
		s.logger.WithError(err).Error("Trending warm job failed")
		return
	}
	s.logger.Info("Trending warm job completed")
}

// runRefreshGenres executes the genre table refresh job
func (s *Scheduler) runRefreshGenres() {
	s.logger.Info("Running scheduled genre refresh")

	err := s.withRetry(func(ctx context.Context) error {
		_, err := s.catalogCtrl.RefreshGenres(ctx)
		return err
	})
	if err != nil {
		s.logger.WithError(err).Error("Genre refresh job failed")
		return
	}
	s.logger.Info("Genre refresh job completed")
}

// withRetry runs a background job with exponential backoff. Only
// background cache warms retry; user-facing requests never do.
func (s *Scheduler) withRetry(job func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	return backoff.RetryNotify(
		func() error { return job(ctx) },
		policy,
		func(err error, next time.Duration) {
			s.logger.WithError(err).WithField("retry_in", next).Warn("Job attempt failed, retrying")
		},
	)
}
