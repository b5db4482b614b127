package ratelimit

import (
	"errors"
	"sync"
	"time"

	"github.com/deusflow/sportabase/internal/logger"
)

var ErrBudgetExhausted = errors.New("AI request budget exhausted")

// AIBudget caps how many AI summarization calls may be made per day.
// A zero max means unlimited.
type AIBudget struct {
	mu         sync.Mutex
	perProv    map[string]int
	totalCount int
	maxTotal   int
	window     time.Duration
	resetTime  time.Time
	now        func() time.Time
}

// NewAIBudget creates a budget that resets every 24 hours.
func NewAIBudget(maxPerDay int) *AIBudget {
	b := &AIBudget{
		perProv:  make(map[string]int),
		maxTotal: maxPerDay,
		window:   24 * time.Hour,
		now:      time.Now,
	}
	b.resetTime = b.now().Add(b.window)
	return b
}

// Use records one request against the budget for the given provider.
func (b *AIBudget) Use(provider string) error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.maxTotal > 0 && b.totalCount >= b.maxTotal {
		logger.Warn("AI budget exhausted", "used", b.totalCount, "limit", b.maxTotal)
		return ErrBudgetExhausted
	}

	b.perProv[provider]++
	b.totalCount++

	logger.Debug("AI usage", "provider", provider, "used", b.totalCount, "limit", b.maxTotal)
	return nil
}

// GetStats returns current budget usage.
func (b *AIBudget) GetStats() map[string]interface{} {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	perProv := make(map[string]int, len(b.perProv))
	for k, v := range b.perProv {
		perProv[k] = v
	}

	return map[string]interface{}{
		"total_used":   b.totalCount,
		"total_limit":  b.maxTotal,
		"per_provider": perProv,
		"reset_time":   b.resetTime.Format(time.RFC3339),
	}
}

// checkReset resets counters if reset time has passed
func (b *AIBudget) checkReset() {
	if b.now().After(b.resetTime) {
		logger.Info("resetting AI budget", "used", b.totalCount, "limit", b.maxTotal)
		b.perProv = make(map[string]int)
		b.totalCount = 0
		b.resetTime = b.now().Add(b.window)
	}
}
