package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/todo/repository"
)

// SessionSweeper periodically purges expired sessions from stores that do not
// expire records on their own.
type SessionSweeper struct {
	purger repository.SessionPurger
	logger *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

func NewSessionSweeper(purger repository.SessionPurger, interval time.Duration, logger *zap.Logger) (*SessionSweeper, error) {
	if interval < time.Second {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &SessionSweeper{
		purger: purger,
		logger: logger,
		cron:   cron.New(cron.WithSeconds()),
		now:    time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("session sweep failed", zap.Error(err))
		}
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the cron scheduler.
func (s *SessionSweeper) Start() {
	s.cron.Start()
	s.logger.Info("session sweeper started")
}

// Stop gracefully stops the scheduler.
func (s *SessionSweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info("session sweeper stopped")
}

// Sweep purges expired sessions once.
func (s *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	purged, err := s.purger.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("expired sessions purged", zap.Int("count", purged))
	}
	return purged, nil
}
