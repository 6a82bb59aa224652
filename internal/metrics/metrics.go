package metrics

import (
	"sync"
	"time"
)

// Metrics collects counters for a single pipeline run.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	ArticlesFetched    int64
	FailedQueries      int64
	DuplicatesFiltered int64
	ArticlesClassified int64
	ClassifierCacheHit int64
	ArticlesFiltered   int64

	// Timings
	ProcessingTime time.Duration

	// Status
	LastRunTime time.Time
	LastError   string
	IsHealthy   bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementFailedQueries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailedQueries++
}

func (m *Metrics) AddDuplicatesFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered += int64(n)
}

func (m *Metrics) IncrementClassified() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesClassified++
}

func (m *Metrics) IncrementCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClassifierCacheHit++
}

func (m *Metrics) AddFiltered(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFiltered += int64(n)
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessingTime = duration
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.IsHealthy = false
}

// Reset zeroes every counter; used between runs in tests.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched = 0
	m.FailedQueries = 0
	m.DuplicatesFiltered = 0
	m.ArticlesClassified = 0
	m.ClassifierCacheHit = 0
	m.ArticlesFiltered = 0
	m.ProcessingTime = 0
	m.LastRunTime = time.Time{}
	m.LastError = ""
	m.IsHealthy = true
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"articles_fetched":     m.ArticlesFetched,
		"failed_queries":       m.FailedQueries,
		"duplicates_filtered":  m.DuplicatesFiltered,
		"articles_classified":  m.ArticlesClassified,
		"classifier_cache_hit": m.ClassifierCacheHit,
		"articles_filtered":    m.ArticlesFiltered,
		"processing_time_ms":   m.ProcessingTime.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}

// LogArgs flattens GetStats into slog key/value pairs.
func (m *Metrics) LogArgs() []any {
	stats := m.GetStats()
	keys := []string{
		"articles_fetched", "failed_queries", "duplicates_filtered",
		"articles_classified", "classifier_cache_hit", "articles_filtered",
		"processing_time_ms", "last_run_time", "last_error", "is_healthy",
	}
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, stats[k])
	}
	return args
}
