package sentiment

import (
	"context"

	"github.com/deusflow/railnews/internal/cache"
	"github.com/deusflow/railnews/internal/metrics"
)

// Cached memoizes another classifier for the lifetime of a run, keyed on
// the exact text. Errors are not cached.
type Cached struct {
	next  Classifier
	store *cache.Cache
}

func NewCached(next Classifier) *Cached {
	return &Cached{next: next, store: cache.New()}
}

func (c *Cached) Classify(ctx context.Context, text string) (Result, error) {
	key := c.store.GenerateKey(text)
	if v, ok := c.store.Get(key); ok {
		metrics.Global.IncrementCacheHits()
		return v.(Result), nil
	}

	res, err := c.next.Classify(ctx, text)
	if err != nil {
		return Result{}, err
	}
	c.store.Set(key, res)
	return res, nil
}
