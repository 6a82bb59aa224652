package rss

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/mmcdole/gofeed"

	"github.com/deusflow/railnews/internal/logger"
	"github.com/deusflow/railnews/internal/metrics"
	"github.com/deusflow/railnews/internal/news"
)

// Fetcher turns RSS/Atom feeds into articles. Unlike the news API, feed
// items carry a description, which the keyword filters also search.
type Fetcher struct {
	parser *gofeed.Parser
}

func NewFetcher(httpClient *retryablehttp.Client) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = httpClient.StandardClient()
	return &Fetcher{parser: parser}
}

// FetchAllFeeds downloads and parses every feed. A broken feed is logged
// and skipped.
func (f *Fetcher) FetchAllFeeds(ctx context.Context, urls []string) []*news.Article {
	all := make([]*news.Article, 0)
	successCount := 0

	for _, url := range urls {
		feed, err := f.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			logger.Error("error parsing feed", "url", url, "error", err)
			metrics.Global.IncrementFailedQueries()
			continue
		}

		for _, item := range feed.Items {
			if a := FromItem(item); a != nil {
				all = append(all, a)
			}
		}
		successCount++
		logger.Info("loaded feed", "url", url, "items", len(feed.Items))
	}

	if len(urls) > 0 {
		logger.Info("processed feeds", "ok", successCount, "total", len(urls))
	}
	metrics.Global.AddFetched(len(all))
	return all
}

// FromItem normalizes a feed item. Items without a link cannot be
// deduplicated and are dropped.
func FromItem(item *gofeed.Item) *news.Article {
	if item == nil || item.Link == "" {
		return nil
	}

	// Only RFC3339 stamps keep the lexicographic date sort valid.
	var published string
	switch {
	case item.PublishedParsed != nil:
		published = item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		published = item.UpdatedParsed.UTC().Format(time.RFC3339)
	case item.Published != "" || item.Updated != "":
		logger.Debug("unparseable feed date", "link", item.Link, "published", item.Published, "updated", item.Updated)
	}

	return &news.Article{
		Title:       strings.TrimSpace(item.Title),
		Link:        item.Link,
		Published:   published,
		Description: PlainText(item.Description),
	}
}

// PlainText strips markup from a feed description and collapses
// whitespace.
func PlainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
