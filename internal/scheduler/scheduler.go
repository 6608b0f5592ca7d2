// Package scheduler runs the background session sweep.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	authdomain "github.com/convodash/convodash/internal/auth/domain"
	"github.com/convodash/convodash/internal/clock"
	"github.com/convodash/convodash/internal/config"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	SessionRepo authdomain.SessionRepository
	Clock       clock.Clock
	Config      config.Config
}

type Scheduler struct {
	log         *zap.Logger
	sessionRepo authdomain.SessionRepository
	clock       clock.Clock
	interval    time.Duration
}

func New(p Params) *Scheduler {
	interval := p.Config.SessionSweepInterval
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		sessionRepo: p.SessionRepo,
		clock:       p.Clock,
		interval:    interval,
	}
}

// Sweep deletes sessions whose expiry is at or before now. Revoked but
// unexpired sessions are kept for audit until they expire.
func (s *Scheduler) Sweep(ctx context.Context) (int64, error) {
	now := s.clock.Now()
	deleted, err := s.sessionRepo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info("expired sessions swept", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// RunForever sweeps on the configured interval until ctx is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("session sweep started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("session sweep stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Error("session sweep failed", zap.Error(err))
			}
		}
	}
}
