package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/sportabase/internal/config"
)

const feedXML = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Test</title>
<item><title>Club confirms 3-year deal</title><link>https://example.com/deal</link>
<description>The club announced the signing on Monday. The fee is reported at 20 million.</description></item>
</channel></rss>`

const pageHTML = `<html><head><title>Match report</title></head><body><article>
<h1>Rovers win the cup final</h1>
<p>Rovers won the cup final 3-1 on Saturday in front of 80,000 fans at the national stadium.</p>
<p>The captain scored twice before half-time and the manager confirmed the squad will parade on Monday.</p>
<p>It is the first major trophy for the club in over twenty years and caps an excellent season.</p>
</article></body></html>`

func testConfig(t *testing.T, sources string) *config.Config {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	dir := t.TempDir()
	sourcesPath := filepath.Join(dir, "sources.yaml")
	if sources != "" {
		if err := os.WriteFile(sourcesPath, []byte(sources), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return &config.Config{
		DataDir:             dir,
		DBPath:              filepath.Join(dir, "sportabase.db"),
		SourcesPath:         sourcesPath,
		DBBusyTimeout:       5 * time.Second,
		HTTPAddr:            "127.0.0.1:0",
		CORSOrigins:         []string{"*"},
		AIProvider:          config.ProviderGemini,
		AITimeout:           time.Second,
		AIReinitInterval:    time.Minute,
		FeedTimeout:         5 * time.Second,
		FeedUserAgent:       "Sportabase/test",
		MaxEntriesPerSource: 40,
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.AIProvider = "mystery"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error")
	}
}

func TestIngestEndToEnd(t *testing.T) {
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedXML))
	}))
	defer feed.Close()

	sources := "- name: Test\n  sport: football\n  url: " + feed.URL + "\n"
	a := newTestApp(t, testConfig(t, sources))

	report, err := a.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if report.Inserted != 1 || report.Sources != 1 {
		t.Errorf("report = %+v", report)
	}

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/stories?sport=football", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"link":"https://example.com/deal"`) || !strings.Contains(body, `"tldr":["The club announced the signing on Monday."`) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestSourcesCreatesFile(t *testing.T) {
	cfg := testConfig(t, "")
	a := newTestApp(t, cfg)

	sources, err := a.Sources()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 0 {
		t.Errorf("got %v", sources)
	}
	if _, err := os.Stat(cfg.SourcesPath); err != nil {
		t.Errorf("sources file not created: %v", err)
	}
}

func TestAnalyzeURL(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(pageHTML))
	}))
	defer page.Close()

	a := newTestApp(t, testConfig(t, ""))

	res, err := a.Analyze(context.Background(), page.URL, 2)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.TLDR) == 0 || len(res.TLDR) > 2 {
		t.Errorf("tldr = %v", res.TLDR)
	}
	if res.MeritScore == 0 || res.Badge == "" {
		t.Errorf("not scored: %+v", res)
	}

	n, err := a.store.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("analyze must not store anything")
	}
}

func TestAnalyzeRejectsBulletCount(t *testing.T) {
	a := newTestApp(t, testConfig(t, ""))
	if _, err := a.Analyze(context.Background(), "https://example.com/x", 7); err == nil {
		t.Fatal("expected error")
	}
}
