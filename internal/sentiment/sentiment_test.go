package sentiment

import (
	"context"
	"errors"
	"testing"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		input string
		want  Label
	}{
		{"POSITIVE", Positive},
		{"positive", Positive},
		{" Neg ", Negative},
		{"NEUTRAL", Neutral},
		{"neutral.", Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLabel(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ParseLabel("LABEL_1"); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestParseJSONResult(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Result
	}{
		{
			name:  "plain JSON",
			input: `{"label":"NEGATIVE","score":0.91}`,
			want:  Result{Label: Negative, Score: 0.91},
		},
		{
			name:  "fenced block",
			input: "```json\n{\"label\":\"positive\",\"score\":0.7}\n```",
			want:  Result{Label: Positive, Score: 0.7},
		},
		{
			name:  "prose around object",
			input: `Sure! {"label": "NEUTRAL", "score": 0.55} Hope this helps.`,
			want:  Result{Label: Neutral, Score: 0.55},
		},
		{
			name:  "score clamped",
			input: `{"label":"POSITIVE","score":1.7}`,
			want:  Result{Label: Positive, Score: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSONResult(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseJSONResultRejectsGarbage(t *testing.T) {
	if _, err := ParseJSONResult("no idea"); err == nil {
		t.Error("expected error for non-JSON reply")
	}
	if _, err := ParseJSONResult(`{"label":"MIXED","score":0.5}`); err == nil {
		t.Error("expected error for unknown label")
	}
}

func TestCachedClassifier(t *testing.T) {
	calls := 0
	inner := ClassifierFunc(func(ctx context.Context, text string) (Result, error) {
		calls++
		return Result{Label: Positive, Score: 0.8}, nil
	})

	c := NewCached(inner)
	for i := 0; i < 3; i++ {
		res, err := c.Classify(context.Background(), "РЖД открыла новую линию")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Label != Positive {
			t.Errorf("unexpected label %q", res.Label)
		}
	}
	if calls != 1 {
		t.Errorf("expected a single model call, got %d", calls)
	}

	if _, err := c.Classify(context.Background(), "другой заголовок"); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("expected a second call for new text, got %d", calls)
	}
}

func TestCachedClassifierKeysOnExactTitle(t *testing.T) {
	calls := 0
	inner := ClassifierFunc(func(ctx context.Context, text string) (Result, error) {
		calls++
		return Result{Label: Neutral, Score: 0.5}, nil
	})

	c := NewCached(inner)
	for _, title := range []string{"РЖД открыла линию", "РЖД  открыла линию", "РЖД открыла линию "} {
		if _, err := c.Classify(context.Background(), title); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 3 {
		t.Errorf("expected one model call per distinct title, got %d", calls)
	}
}

func TestCachedClassifierDoesNotCacheErrors(t *testing.T) {
	calls := 0
	inner := ClassifierFunc(func(ctx context.Context, text string) (Result, error) {
		calls++
		if calls == 1 {
			return Result{}, errors.New("model loading")
		}
		return Result{Label: Neutral, Score: 0.6}, nil
	})

	c := NewCached(inner)
	if _, err := c.Classify(context.Background(), "x"); err == nil {
		t.Fatal("expected first call to fail")
	}
	res, err := c.Classify(context.Background(), "x")
	if err != nil || res.Label != Neutral {
		t.Fatalf("expected retry to reach the model, got %+v, %v", res, err)
	}
}
