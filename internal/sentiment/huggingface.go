package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultHuggingFaceURL = "https://api-inference.huggingface.co"

// HuggingFaceClient calls a text-classification model on the HuggingFace
// Inference API. Requests ask the API to wait for a cold model, so the
// warm-up does not consume the HTTP retry budget.
type HuggingFaceClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *retryablehttp.Client
}

func NewHuggingFaceClient(apiKey, model string, httpClient *retryablehttp.Client) *HuggingFaceClient {
	return &HuggingFaceClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultHuggingFaceURL,
		httpClient: httpClient,
	}
}

// WithBaseURL points the client at another inference endpoint.
func (c *HuggingFaceClient) WithBaseURL(u string) *HuggingFaceClient {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

type hfRequest struct {
	Inputs  string    `json:"inputs"`
	Options hfOptions `json:"options"`
}

// hfOptions.WaitForModel makes the API hold the request until a cold model
// has loaded instead of answering 503.
type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *HuggingFaceClient) Classify(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(hfRequest{Inputs: text, Options: hfOptions{WaitForModel: true}})
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("huggingface returned status %d: %s", resp.StatusCode, string(raw))
	}

	labels, err := decodeHFLabels(raw)
	if err != nil {
		return Result{}, err
	}
	return bestLabel(labels)
}

// decodeHFLabels accepts both [[{...}]] (batched) and [{...}] shapes.
func decodeHFLabels(raw []byte) ([]hfLabel, error) {
	var nested [][]hfLabel
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, fmt.Errorf("empty huggingface response")
		}
		return nested[0], nil
	}

	var flat []hfLabel
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decoding huggingface response: %w", err)
	}
	return flat, nil
}

func bestLabel(labels []hfLabel) (Result, error) {
	if len(labels) == 0 {
		return Result{}, fmt.Errorf("no labels in huggingface response")
	}

	best := labels[0]
	for _, l := range labels[1:] {
		if l.Score > best.Score {
			best = l
		}
	}

	label, err := ParseLabel(best.Label)
	if err != nil {
		return Result{}, err
	}
	return Result{Label: label, Score: clampScore(best.Score)}, nil
}
