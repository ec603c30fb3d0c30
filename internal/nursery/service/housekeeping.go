package service

import (
	"log/slog"
	"time"
)

// Evicter drops client runtimes that have been idle since before cutoff.
type Evicter interface {
	EvictIdle(cutoff time.Time) int
}

// Sweeper removes expired identity states. Only the in-memory state store
// needs it; Redis expires keys itself.
type Sweeper interface {
	Sweep(now time.Time) int
}

// HousekeepingService periodically evicts idle client runtimes and sweeps
// expired sign-ins.
type HousekeepingService struct {
	Clients     Evicter
	States      Sweeper // optional
	Logger      *slog.Logger
	Interval    time.Duration
	IdleTimeout time.Duration
	Now         func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService defaults a non-positive interval to one minute and a
// non-positive idle timeout to thirty minutes.
func NewHousekeepingService(clients Evicter, states Sweeper, logger *slog.Logger, interval, idle time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &HousekeepingService{
		Clients:     clients,
		States:      states,
		Logger:      logger,
		Interval:    interval,
		IdleTimeout: idle,
		Now:         time.Now,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to end it.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "idle_timeout", s.IdleTimeout)
}

// Stop blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one housekeeping pass.
func (s *HousekeepingService) Cleanup() {
	now := s.Now()

	evicted := s.Clients.EvictIdle(now.Add(-s.IdleTimeout))

	swept := 0
	if s.States != nil {
		swept = s.States.Sweep(now)
	}

	if evicted > 0 || swept > 0 {
		s.Logger.Info("housekeeping cleanup completed", "evicted_clients", evicted, "expired_sign_ins", swept)
	} else {
		s.Logger.Debug("housekeeping cleanup found nothing to do")
	}
}
