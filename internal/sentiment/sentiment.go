// Package sentiment defines the headline classifier capability and its
// HTTP-backed implementations.
package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type Label string

const (
	Positive Label = "POSITIVE"
	Negative Label = "NEGATIVE"
	Neutral  Label = "NEUTRAL"
)

// Result is one classification: the label and the model's confidence in it.
type Result struct {
	Label Label
	Score float64
}

// Classifier scores a single piece of text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(ctx context.Context, text string) (Result, error)

func (f ClassifierFunc) Classify(ctx context.Context, text string) (Result, error) {
	return f(ctx, text)
}

// ParseLabel maps model output such as "positive", "NEG" or "Neutral" to a
// Label.
func ParseLabel(s string) (Label, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, "POS"):
		return Positive, nil
	case strings.HasPrefix(v, "NEG"):
		return Negative, nil
	case strings.HasPrefix(v, "NEU"):
		return Neutral, nil
	}
	return "", fmt.Errorf("unknown sentiment label %q", s)
}

// BuildPrompt is the instruction sent to chat-style backends.
func BuildPrompt(text string) string {
	return fmt.Sprintf(`Classify the sentiment of this Russian news headline.
Answer with JSON only: {"label": "POSITIVE" | "NEGATIVE" | "NEUTRAL", "score": <confidence between 0 and 1>}

Headline: %s`, text)
}

// ParseJSONResult reads {"label","score"} from a chat model reply, tolerating
// code fences and prose around the object.
func ParseJSONResult(content string) (Result, error) {
	content = cleanJSONResponse(content)

	var parsed struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	label, err := ParseLabel(parsed.Label)
	if err != nil {
		return Result{}, err
	}
	return Result{Label: label, Score: clampScore(parsed.Score)}, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
