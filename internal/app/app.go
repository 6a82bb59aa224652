package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/deusflow/railnews/internal/config"
	"github.com/deusflow/railnews/internal/gemini"
	"github.com/deusflow/railnews/internal/logger"
	"github.com/deusflow/railnews/internal/metrics"
	"github.com/deusflow/railnews/internal/news"
	"github.com/deusflow/railnews/internal/newsapi"
	"github.com/deusflow/railnews/internal/ratelimit"
	"github.com/deusflow/railnews/internal/report"
	"github.com/deusflow/railnews/internal/retry"
	"github.com/deusflow/railnews/internal/rss"
	"github.com/deusflow/railnews/internal/sentiment"
)

// TopicFetcher is the news search side of the pipeline.
type TopicFetcher interface {
	FetchVishNews(ctx context.Context) []*news.Article
	FetchHighSpeedRailways(ctx context.Context) []*news.Article
	FetchRussianRailways(ctx context.Context) []*news.Article
}

// FeedFetcher supplies articles from extra feeds.
type FeedFetcher interface {
	FetchAllFeeds(ctx context.Context, urls []string) []*news.Article
}

// Pipeline wires the fetchers, the classifier and the output paths for a
// single run.
type Pipeline struct {
	Topics     config.Topics
	Feeds      []string
	Fetcher    TopicFetcher
	FeedSource FeedFetcher
	Classifier sentiment.Classifier

	JSONPath      string
	DashboardPath string
}

// RetryPolicy derives the HTTP retry policy from the config.
func RetryPolicy(cfg *config.Config) retry.RetryConfig {
	policy := retry.Default()
	policy.MaxRetries = cfg.RetryAttempts
	policy.BackoffFactor = cfg.RetryBackoff
	return policy
}

// NewPipeline builds the production pipeline. The returned func releases
// backend clients.
func NewPipeline(ctx context.Context, cfg *config.Config) (*Pipeline, func(), error) {
	httpClient := RetryPolicy(cfg).NewClient(cfg.RequestTimeout)

	classifier, closeFn, err := NewClassifier(ctx, cfg, httpClient)
	if err != nil {
		return nil, nil, err
	}

	queries := newsapi.Queries{
		Vish:      cfg.Topics.Vish.Query,
		HighSpeed: cfg.Topics.HighSpeed.Query,
		RZD:       cfg.Topics.RZD.Query,
	}

	return &Pipeline{
		Topics:        cfg.Topics,
		Feeds:         cfg.Feeds,
		Fetcher:       newsapi.NewClient(cfg.NewsAPIKey, cfg.NewsAPIBaseURL, queries, httpClient),
		FeedSource:    rss.NewFetcher(httpClient),
		Classifier:    sentiment.NewCached(ratelimit.NewBudget(cfg.ClassifierMaxCalls).Wrap(classifier)),
		JSONPath:      cfg.JSONOutputPath,
		DashboardPath: cfg.DashboardOutputPath,
	}, closeFn, nil
}

// Run fetches, scores, filters and writes both artifacts. Fetch failures
// only shrink the input; classifier and write failures abort the run.
func (p *Pipeline) Run(ctx context.Context) error {
	startTime := time.Now()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(startTime))
		metrics.Global.SetLastRun()
	}()

	logger.Info("fetching news articles")
	vishNews := p.Fetcher.FetchVishNews(ctx)
	highSpeedNews := p.Fetcher.FetchHighSpeedRailways(ctx)
	rzdNews := p.Fetcher.FetchRussianRailways(ctx)

	var feedNews []*news.Article
	if len(p.Feeds) > 0 && p.FeedSource != nil {
		feedNews = p.FeedSource.FetchAllFeeds(ctx, p.Feeds)
	}

	unique := news.MergeAndDedup(vishNews, highSpeedNews, rzdNews, feedNews)

	logger.Info("sorting and scoring articles")
	analyzed := news.SortByPublishedDesc(unique)
	if err := news.ScoreSentiment(ctx, p.Classifier, analyzed); err != nil {
		return fmt.Errorf("sentiment scoring: %w", err)
	}
	news.AdjustNeutralSubjectivity(analyzed)

	logger.Info("filtering articles by keywords")
	filteredVish := news.FilterByKeywords(analyzed, p.Topics.Vish.Keywords)
	filteredHighSpeed := news.FilterByKeywords(analyzed, p.Topics.HighSpeed.Keywords)
	filteredRZD := news.FilterByKeywords(analyzed, p.Topics.RZD.Keywords)

	r := report.Build(unique, analyzed, filteredVish, filteredHighSpeed, filteredRZD)

	dashboard, err := report.RenderDashboard(r.FinalArticles)
	if err != nil {
		return err
	}

	if err := report.WriteJSON(r, p.JSONPath); err != nil {
		return err
	}
	if err := report.WriteHTML(dashboard, p.DashboardPath); err != nil {
		return err
	}

	logger.Info("run complete",
		"unique", len(r.UniqueArticles),
		"vish", len(r.FilteredVish),
		"high_speed", len(r.FilteredHighSpeed),
		"rzd", len(r.FilteredRZD),
		"final", len(r.FinalArticles))
	return nil
}

// NewClassifier picks the sentiment backend named in the config.
func NewClassifier(ctx context.Context, cfg *config.Config, httpClient *retryablehttp.Client) (sentiment.Classifier, func(), error) {
	noop := func() {}

	switch cfg.SentimentBackend {
	case config.BackendHuggingFace:
		return sentiment.NewHuggingFaceClient(cfg.HuggingFaceAPIKey, cfg.HuggingFaceModel, httpClient), noop, nil
	case config.BackendOpenAI:
		return sentiment.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), noop, nil
	case config.BackendGemini:
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, RetryPolicy(cfg))
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown sentiment backend %q", cfg.SentimentBackend)
}
