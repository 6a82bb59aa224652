package metrics

import (
	"strings"
	"testing"
)

func TestCountersAndReset(t *testing.T) {
	m := &Metrics{IsHealthy: true}
	m.AddFetched(4)
	m.AddDuplicatesFiltered(1)
	m.IncrementClassified()
	m.IncrementCacheHits()
	m.IncrementFailedQueries()
	m.SetError("write failed")

	stats := m.GetStats()
	if stats["articles_fetched"].(int64) != 4 {
		t.Errorf("expected 4 fetched, got %v", stats["articles_fetched"])
	}
	if stats["is_healthy"].(bool) {
		t.Error("expected unhealthy after SetError")
	}

	m.Reset()
	stats = m.GetStats()
	if stats["articles_fetched"].(int64) != 0 || !stats["is_healthy"].(bool) {
		t.Errorf("expected clean stats after Reset, got %v", stats)
	}
}

func TestLogArgsPairs(t *testing.T) {
	m := &Metrics{IsHealthy: true}
	args := m.LogArgs()
	if len(args)%2 != 0 {
		t.Fatalf("expected key/value pairs, got %d items", len(args))
	}
	if args[0] != "articles_fetched" {
		t.Errorf("unexpected first key %v", args[0])
	}
}

func TestLogArgsCarriesRunStatus(t *testing.T) {
	m := &Metrics{IsHealthy: true}
	m.SetLastRun()
	m.SetError("classify: model down")

	fields := map[any]any{}
	args := m.LogArgs()
	for i := 0; i+1 < len(args); i += 2 {
		fields[args[i]] = args[i+1]
	}
	if fields["last_error"] != "classify: model down" {
		t.Errorf("expected last_error in log args, got %v", fields["last_error"])
	}
	if s, _ := fields["last_run_time"].(string); s == "" || strings.HasPrefix(s, "0001") {
		t.Errorf("expected last_run_time to be set, got %v", fields["last_run_time"])
	}
	if fields["is_healthy"] != false {
		t.Errorf("expected unhealthy, got %v", fields["is_healthy"])
	}
}
