// Package sweeper periodically removes redemption codes that expired unused.
package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultInterval = time.Minute

//go:generate mockgen -source=sweeper.go -destination=mock_sweeper.go -package=sweeper

type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Service struct {
	purger   Purger
	interval time.Duration
}

func New(purger Purger, interval time.Duration) *Service {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		purger:   purger,
		interval: interval,
	}
}

// Run sweeps on every tick until ctx is canceled.
func (s *Service) Run(ctx context.Context) {
	zap.L().Info("Redemption sweeper started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping sweeper")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	n, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		zap.L().Error("Failed to purge expired redemptions", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Debug("Sweep finished", zap.Int64("purged", n))
	}
}
