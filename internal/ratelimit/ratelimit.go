// Package ratelimit caps how many classifier requests a single run may make.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/deusflow/railnews/internal/logger"
	"github.com/deusflow/railnews/internal/sentiment"
)

// ErrBudgetExhausted is returned once the call budget is spent.
var ErrBudgetExhausted = errors.New("classifier call budget exhausted")

// Budget counts classifier calls against a fixed maximum. A zero maximum
// means unlimited.
type Budget struct {
	mu   sync.Mutex
	used int
	max  int
}

func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// Use reserves one call.
func (b *Budget) Use() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		logger.Warn("classifier budget reached", "used", b.used, "max", b.max)
		return fmt.Errorf("%w (%d/%d)", ErrBudgetExhausted, b.used, b.max)
	}
	b.used++
	return nil
}

// Wrap charges every call to next against the budget. Place it behind the
// cache so cached answers stay free.
func (b *Budget) Wrap(next sentiment.Classifier) sentiment.Classifier {
	return sentiment.ClassifierFunc(func(ctx context.Context, text string) (sentiment.Result, error) {
		if err := b.Use(); err != nil {
			return sentiment.Result{}, err
		}
		return next.Classify(ctx, text)
	})
}
