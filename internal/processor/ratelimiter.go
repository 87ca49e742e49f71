package processor

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/hyunhan-cho/LT-GDG/internal/logger"
)

// RateLimiter paces session starts.
type RateLimiter struct {
	limiter *rate.Limiter
	logger  logger.Logger
}

// NewRateLimiter creates a limiter allowing sps sessions per second with
// the given burst. A burst <= 0 defaults to one second's worth.
func NewRateLimiter(sps float64, burst int, log logger.Logger) *RateLimiter {
	if log == nil {
		log = logger.NewNop()
	}
	if burst <= 0 {
		burst = max(int(sps), 1)
	}

	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(sps), burst),
		logger:  log,
	}
}

// Wait blocks until a session may start.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn("Rate limiter wait failed", logger.Error(err))
		return err
	}
	return nil
}

// Allow reports whether a session may start now without waiting.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// SetLimit updates the rate.
func (r *RateLimiter) SetLimit(sps float64) {
	r.limiter.SetLimit(rate.Limit(sps))
	r.logger.Info("Rate limit updated", logger.Float64("sessions_per_second", sps))
}
