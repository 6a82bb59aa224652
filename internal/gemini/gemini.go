package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/deusflow/railnews/internal/logger"
	"github.com/deusflow/railnews/internal/retry"
	"github.com/deusflow/railnews/internal/sentiment"
)

// Client classifies headlines with a Gemini model.
type Client struct {
	client *genai.Client
	model  string
	retry  retry.RetryConfig
}

func NewClient(ctx context.Context, apiKey, model string, policy retry.RetryConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client, model: model, retry: policy}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Classify asks the model for a JSON verdict. Transient API failures are
// retried with the configured policy.
func (c *Client) Classify(ctx context.Context, text string) (sentiment.Result, error) {
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0)

	var reply string
	err := retry.WithRetry(ctx, c.retry, func() error {
		resp, err := model.GenerateContent(ctx, genai.Text(sentiment.BuildPrompt(text)))
		if err != nil {
			logger.Warn("gemini request failed", "error", err)
			return fmt.Errorf("failed to generate content: %w", err)
		}
		reply, err = firstText(resp)
		return err
	})
	if err != nil {
		return sentiment.Result{}, err
	}

	return sentiment.ParseJSONResult(reply)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("gemini reply has no text parts")
	}
	return b.String(), nil
}
