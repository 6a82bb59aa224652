package ratelimit

import (
	"context"
	"errors"
	"testing"

	"github.com/deusflow/railnews/internal/sentiment"
)

func TestBudgetUnlimited(t *testing.T) {
	b := NewBudget(0)
	for i := 0; i < 100; i++ {
		if err := b.Use(); err != nil {
			t.Fatalf("call %d: unexpected error %v", i, err)
		}
	}
}

func TestBudgetWrap(t *testing.T) {
	calls := 0
	next := sentiment.ClassifierFunc(func(ctx context.Context, text string) (sentiment.Result, error) {
		calls++
		return sentiment.Result{Label: sentiment.Neutral, Score: 0.5}, nil
	})

	c := NewBudget(2).Wrap(next)
	for i := 0; i < 2; i++ {
		if _, err := c.Classify(context.Background(), "t"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	_, err := c.Classify(context.Background(), "t")
	if !errors.Is(err, ErrBudgetExhausted) {
		t.Errorf("expected ErrBudgetExhausted, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected backend called twice, got %d", calls)
	}
}
