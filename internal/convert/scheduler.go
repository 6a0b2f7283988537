package convert

import (
	"context"
	"time"

	"currconv/internal/adapters"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRefreshInterval = 5 * time.Minute

// RefreshScheduler periodically runs the stored-rates refresh job.
type RefreshScheduler struct {
	provider        adapters.RateProvider
	repo            adapters.RateRepository
	interval        time.Duration
	providerTimeout time.Duration
	// -----
	sched gocron.Scheduler
}

func (s *RefreshScheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		if refreshErr := RefreshStoredRates(jobCtx, execID, s.provider, s.repo, s.providerTimeout); refreshErr != nil {
			logrus.Errorf("Refresh stored rates job %s failed: %v", execID, refreshErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)

	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *RefreshScheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func NewRefreshScheduler(provider adapters.RateProvider, repo adapters.RateRepository, interval, providerTimeout time.Duration) *RefreshScheduler {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if providerTimeout <= 0 {
		providerTimeout = defaultProviderTimeout
	}
	return &RefreshScheduler{
		provider:        provider,
		repo:            repo,
		interval:        interval,
		providerTimeout: providerTimeout,
	}
}
