// Package newsapi fetches articles from the NewsAPI /v2/everything search.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/deusflow/railnews/internal/logger"
	"github.com/deusflow/railnews/internal/metrics"
	"github.com/deusflow/railnews/internal/news"
	"github.com/deusflow/railnews/internal/retry"
)

const DefaultBaseURL = "https://newsapi.org"

var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0",
	"Accept-Language": "en-US,en;q=0.9",
}

// Queries holds the search strings behind the three named fetches.
type Queries struct {
	Vish      string
	HighSpeed string
	RZD       string
}

type Client struct {
	apiKey     string
	baseURL    string
	queries    Queries
	httpClient *retryablehttp.Client
}

func NewClient(apiKey, baseURL string, queries Queries, httpClient *retryablehttp.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		queries:    queries,
		httpClient: httpClient,
	}
}

type everythingResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Articles     []rawArticle `json:"articles"`
}

type rawArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// FetchVishNews searches for the Higher Engineering School topic.
func (c *Client) FetchVishNews(ctx context.Context) []*news.Article {
	return c.FetchTopic(ctx, c.queries.Vish)
}

// FetchHighSpeedRailways searches for the high-speed railway topic.
func (c *Client) FetchHighSpeedRailways(ctx context.Context) []*news.Article {
	return c.FetchTopic(ctx, c.queries.HighSpeed)
}

// FetchRussianRailways searches for the Russian Railways topic.
func (c *Client) FetchRussianRailways(ctx context.Context) []*news.Article {
	return c.FetchTopic(ctx, c.queries.RZD)
}

// FetchTopic runs one search. Any failure is logged and yields an empty
// slice so the remaining topics still get fetched.
func (c *Client) FetchTopic(ctx context.Context, query string) []*news.Article {
	articles, err := c.fetch(ctx, query)
	if err != nil {
		logger.Error("news API request failed", "query", query, "error", retry.Redact(err.Error()))
		metrics.Global.IncrementFailedQueries()
		return []*news.Article{}
	}

	if len(articles) == 0 {
		logger.Info("no articles in news API response", "query", query)
	}
	metrics.Global.AddFetched(len(articles))
	return articles
}

func (c *Client) searchURL(query string) string {
	return fmt.Sprintf("%s/v2/everything?q=%s&apiKey=%s",
		c.baseURL, percentEncode(query), url.QueryEscape(c.apiKey))
}

// percentEncode escapes spaces as %20 rather than '+'.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (c *Client) fetch(ctx context.Context, query string) ([]*news.Article, error) {
	u := c.searchURL(query)
	logger.Info("requesting news API", "query", query)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		logger.Error("news API error response", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("news API returned status %d", resp.StatusCode)
	}

	var raw everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	articles := make([]*news.Article, 0, len(raw.Articles))
	for _, item := range raw.Articles {
		articles = append(articles, &news.Article{
			Title:     item.Title,
			Link:      item.URL,
			Published: item.PublishedAt,
		})
	}

	logger.Debug("fetched articles", "query", query, "count", len(articles))
	return articles, nil
}
