// Package scheduler runs the background loop that drains the payment
// issue queue. The issuer it retries against is idempotent, so a drain
// can never double-issue.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/facture/internal/clock"
	reconciledomain "github.com/smallbiznis/facture/internal/reconcile/domain"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Config struct {
	Interval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	return c
}

type Params struct {
	fx.In

	Log    *zap.Logger
	Queue  reconciledomain.Service
	Clock  clock.Clock
	Config Config `optional:"true"`
}

type Scheduler struct {
	log   *zap.Logger
	queue reconciledomain.Service
	clock clock.Clock
	cfg   Config
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Queue == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:   p.Log.Named("scheduler"),
		queue: p.Queue,
		clock: p.Clock,
		cfg:   p.Config.withDefaults(),
	}, nil
}

// RunForever ticks until the context is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.log.Info("issue queue drainer started",
		zap.Duration("interval", s.cfg.Interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("issue queue drainer stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick drains one batch of due queue entries.
func (s *Scheduler) Tick(ctx context.Context) {
	done, err := s.queue.Drain(ctx, s.clock.Now())
	if err != nil {
		s.log.Error("issue queue drain failed", zap.Error(err))
		return
	}
	if done > 0 {
		s.log.Info("issue queue drained", zap.Int("settled", done))
	}
}
