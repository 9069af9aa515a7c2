package ratelimit

import (
	"time"

	"go.uber.org/zap"

	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/entity"
	"github.com/JoseTomasTocino/ArduinoButtonPad/internal/metrics"
)

// DefaultThreshold is the minimum distance between two accepted presses of
// the same button.
const DefaultThreshold = 500 * time.Millisecond

// Limiter keeps the last accepted time per button. A button never seen before
// is always accepted.
// Not safe for concurrent use; the session loop owns it.
type Limiter struct {
	threshold time.Duration
	last      map[entity.ButtonID]time.Time
}

func New(threshold time.Duration) *Limiter {
	if threshold < 0 {
		threshold = 0
	}
	return &Limiter{
		threshold: threshold,
		last:      make(map[entity.ButtonID]time.Time),
	}
}

// Allow reports whether a press of id at now is accepted. Only accepted
// presses move the timer.
func (l *Limiter) Allow(id entity.ButtonID, now time.Time) bool {
	last, ok := l.last[id]
	if ok && now.Sub(last) < l.threshold {
		metrics.PressesSuppressed.WithLabelValues(id.String()).Inc()
		zap.S().Debugw("suppressed rapid press", "button", id.String(), "elapsed", now.Sub(last))
		return false
	}

	l.last[id] = now
	metrics.PressesAccepted.WithLabelValues(id.String()).Inc()
	return true
}
