package news

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/deusflow/railnews/internal/logger"
	"github.com/deusflow/railnews/internal/metrics"
	"github.com/deusflow/railnews/internal/sentiment"
)

// MergeAndDedup concatenates the lists and keeps one article per link.
// The last article seen for a link wins; it takes the slot where that link
// first appeared.
func MergeAndDedup(lists ...[]*Article) []*Article {
	index := map[string]int{}
	merged := make([]*Article, 0)
	total := 0

	for _, list := range lists {
		for _, a := range list {
			total++
			if i, dup := index[a.Link]; dup {
				logger.Debug("duplicate link", "link", a.Link, "title", a.Title)
				merged[i] = a
				continue
			}
			index[a.Link] = len(merged)
			merged = append(merged, a)
		}
	}

	metrics.Global.AddDuplicatesFiltered(total - len(merged))
	logger.Info("merged articles", "total", total, "unique", len(merged))
	return merged
}

// SortByPublishedDesc orders articles newest first by plain string
// comparison of Published, which is correct for uniform ISO-8601 stamps.
// The input slice is left untouched.
func SortByPublishedDesc(articles []*Article) []*Article {
	sorted := make([]*Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published > sorted[j].Published
	})
	return sorted
}

// ScoreSentiment classifies each title in turn and stores the label and
// confidence on the article. The first classifier error aborts scoring.
func ScoreSentiment(ctx context.Context, classifier sentiment.Classifier, articles []*Article) error {
	logger.Info("scoring sentiment", "articles", len(articles))

	for _, a := range articles {
		res, err := classifier.Classify(ctx, a.Title)
		if err != nil {
			return fmt.Errorf("classify %q: %w", a.Title, err)
		}
		a.Sentiment = res.Label
		a.Subjectivity = res.Score
		metrics.Global.IncrementClassified()

		logger.Debug("scored", "title", a.Title, "sentiment", a.Sentiment, "subjectivity", a.Subjectivity)
	}
	return nil
}

// AdjustNeutralSubjectivity pins NEUTRAL articles to NeutralSubjectivity.
func AdjustNeutralSubjectivity(articles []*Article) {
	for _, a := range articles {
		if a.Sentiment == sentiment.Neutral {
			a.Subjectivity = NeutralSubjectivity
		}
	}
}

// FilterByKeywords keeps articles whose title or description contains any
// keyword as a literal, case-sensitive substring.
func FilterByKeywords(articles []*Article, keywords []string) []*Article {
	filtered := make([]*Article, 0)
	for _, a := range articles {
		if containsAny(a.Title, keywords) || containsAny(a.Description, keywords) {
			filtered = append(filtered, a)
		}
	}
	metrics.Global.AddFiltered(len(filtered))
	return filtered
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
