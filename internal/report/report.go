// Package report assembles the run's article collections and writes them
// out as JSON and as a static HTML dashboard.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/deusflow/railnews/internal/logger"
	"github.com/deusflow/railnews/internal/news"
)

// Report is serialized with its fields in declaration order.
type Report struct {
	UniqueArticles    []*news.Article `json:"unique_articles"`
	AnalyzedArticles  []*news.Article `json:"analyzed_articles"`
	FilteredVish      []*news.Article `json:"filtered_vish"`
	FilteredHighSpeed []*news.Article `json:"filtered_high_speed"`
	FilteredRZD       []*news.Article `json:"filtered_rzd"`
	FinalArticles     []*news.Article `json:"final_articles"`
}

// Build groups the collections. The final set is the three keyword subsets
// concatenated, so an article matching several topics appears several
// times.
func Build(unique, analyzed, vish, highSpeed, rzd []*news.Article) *Report {
	final := make([]*news.Article, 0, len(vish)+len(highSpeed)+len(rzd))
	final = append(final, vish...)
	final = append(final, highSpeed...)
	final = append(final, rzd...)

	return &Report{
		UniqueArticles:    orEmpty(unique),
		AnalyzedArticles:  orEmpty(analyzed),
		FilteredVish:      orEmpty(vish),
		FilteredHighSpeed: orEmpty(highSpeed),
		FilteredRZD:       orEmpty(rzd),
		FinalArticles:     final,
	}
}

func orEmpty(a []*news.Article) []*news.Article {
	if a == nil {
		return []*news.Article{}
	}
	return a
}

// Marshal renders the report with 4-space indentation, without HTML
// escaping.
func Marshal(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON overwrites path with the encoded report. Encoding finishes
// before the file is touched.
func WriteJSON(r *Report, path string) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}

	logger.Info("saving report", "path", path, "final_articles", len(r.FinalArticles))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	logger.Debug("report contents", "json", string(data))
	return nil
}

// WriteHTML overwrites path with the dashboard markup.
func WriteHTML(html, path string) error {
	logger.Info("saving dashboard", "path", path)
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write dashboard file: %w", err)
	}
	return nil
}
