package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/railnews/internal/news"
	"github.com/deusflow/railnews/internal/sentiment"
)

func sampleArticles() (vish, hs, rzd []*news.Article) {
	a := &news.Article{Title: "ВИШ набирает студентов", Link: "https://e/1", Published: "2024-03-01T00:00:00Z", Sentiment: sentiment.Positive, Subjectivity: 0.91}
	b := &news.Article{Title: "ВСМ и РЖД: сроки сдвинуты", Link: "https://e/2", Published: "2024-02-01T00:00:00Z", Sentiment: sentiment.Negative, Subjectivity: 0.776}
	c := &news.Article{Title: "РЖД опубликовала отчёт", Link: "https://e/3", Published: "2024-01-01T00:00:00Z", Sentiment: sentiment.Neutral, Subjectivity: 0.1}
	return []*news.Article{a}, []*news.Article{b}, []*news.Article{b, c}
}

func TestBuildConcatenatesSubsets(t *testing.T) {
	vish, hs, rzd := sampleArticles()
	r := Build(nil, nil, vish, hs, rzd)

	if len(r.FinalArticles) != 4 {
		t.Fatalf("expected 4 final articles (duplicates kept), got %d", len(r.FinalArticles))
	}
	if r.FinalArticles[0] != vish[0] || r.FinalArticles[1] != hs[0] || r.FinalArticles[3] != rzd[1] {
		t.Error("final set must be vish ++ high_speed ++ rzd")
	}
	if r.UniqueArticles == nil || r.AnalyzedArticles == nil {
		t.Error("nil collections must become empty slices")
	}
}

func TestMarshalKeyOrderAndFormat(t *testing.T) {
	vish, hs, rzd := sampleArticles()
	r := Build(nil, nil, vish, hs, rzd)

	data, err := Marshal(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	keys := []string{
		`"unique_articles"`, `"analyzed_articles"`, `"filtered_vish"`,
		`"filtered_high_speed"`, `"filtered_rzd"`, `"final_articles"`,
	}
	last := -1
	for _, k := range keys {
		i := strings.Index(out, k)
		if i < 0 {
			t.Fatalf("missing key %s", k)
		}
		if i < last {
			t.Errorf("key %s out of order", k)
		}
		last = i
	}

	if !strings.Contains(out, "\n    \"unique_articles\": []") {
		t.Errorf("expected 4-space indent and [] for empty set, got:\n%s", out)
	}
	if !strings.Contains(out, "ВИШ набирает студентов") {
		t.Error("expected non-ASCII text written literally")
	}
	if strings.Contains(out, "description") {
		t.Error("empty description must be omitted")
	}

	var decoded map[string][]map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	first := decoded["final_articles"][0]
	if first["sentiment"] != "POSITIVE" || first["link"] != "https://e/1" {
		t.Errorf("unexpected first article %v", first)
	}
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	r := Build(nil, nil, []*news.Article{{Title: "A & B <C>", Link: "https://e/?a=1&b=2"}}, nil, nil)
	data, err := Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "A & B <C>") || !strings.Contains(string(data), "a=1&b=2") {
		t.Errorf("expected raw characters, got %s", data)
	}
}

func TestWriteJSONOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_articles.json")
	if err := os.WriteFile(path, []byte("stale content that is longer than needed"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := WriteJSON(Build(nil, nil, nil, nil, nil), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("expected file to be overwritten")
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		t.Errorf("written file is not valid JSON: %v", err)
	}
}

func TestWriteJSONBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.json")
	if err := WriteJSON(Build(nil, nil, nil, nil, nil), path); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

func TestRenderDashboard(t *testing.T) {
	vish, hs, rzd := sampleArticles()
	final := Build(nil, nil, vish, hs, rzd).FinalArticles

	html, err := RenderDashboard(final)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("dashboard is not parseable: %v", err)
	}

	if doc.Find("meta[charset='UTF-8']").Length() != 1 {
		t.Error("expected UTF-8 meta tag")
	}
	if doc.Find("ul").Length() != 1 {
		t.Error("expected a single list")
	}
	items := doc.Find("li")
	if items.Length() != 4 {
		t.Fatalf("expected 4 list items, got %d", items.Length())
	}

	wantColors := []string{"green", "red", "red", "gray"}
	items.Each(func(i int, s *goquery.Selection) {
		style, _ := s.Find("a").Attr("style")
		if style != "color:"+wantColors[i] {
			t.Errorf("item %d: expected color %s, got %q", i, wantColors[i], style)
		}
	})

	first := items.First()
	href, _ := first.Find("a").Attr("href")
	if href != "https://e/1" {
		t.Errorf("unexpected href %q", href)
	}
	text := first.Text()
	if !strings.Contains(text, "ВИШ набирает студентов - 2024-03-01T00:00:00Z") {
		t.Errorf("expected title and date, got %q", text)
	}
	if !strings.Contains(text, "(Настроение: POSITIVE, Субъективность: 0.91)") {
		t.Errorf("expected sentiment summary, got %q", text)
	}
	if !strings.Contains(items.Eq(1).Text(), "Субъективность: 0.78") {
		t.Errorf("expected 2-decimal subjectivity, got %q", items.Eq(1).Text())
	}
	if !strings.Contains(items.Eq(3).Text(), "Субъективность: 0.10") {
		t.Errorf("expected 0.10 for neutral, got %q", items.Eq(3).Text())
	}
}

func TestRenderDashboardEscapesTitles(t *testing.T) {
	html, err := RenderDashboard([]*news.Article{{Title: "<script>alert(1)</script>", Link: "https://e/x"}})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("expected title to be escaped")
	}
}

func TestRenderDashboardEmpty(t *testing.T) {
	html, err := RenderDashboard(nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<li>") {
		t.Error("expected no list items")
	}
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news_dashboard.html")
	if err := WriteHTML("<html></html>", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "<html></html>" {
		t.Errorf("unexpected content %q", data)
	}
}
