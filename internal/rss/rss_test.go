package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Sample Sport</title>
  <link>https://example.com</link>
  <item>
    <title>Club confirms new signing</title>
    <link>https://example.com/a</link>
    <description>&lt;p&gt;The club &lt;b&gt;announced&lt;/b&gt; a deal.&lt;/p&gt;</description>
    <pubDate>Mon, 02 Jan 2006 15:04:05 +0100</pubDate>
  </item>
  <item>
    <title>No date here</title>
    <link>https://example.com/b</link>
  </item>
</channel>
</rss>`

func TestLoadSourcesCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sources.yaml")

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected no sources, got %v", sources)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestLoadSourcesYAMLAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `
- name: BBC Football
  sport: football
  url: https://feeds.example.com/football.xml
- url: https://feeds.example.com/misc.xml
- name: Broken
  sport: tennis
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("got %d sources, want 3", len(sources))
	}
	if sources[0].Name != "BBC Football" || sources[0].Sport != "football" {
		t.Errorf("unexpected first source %+v", sources[0])
	}
	if sources[1].Name != "unknown" || sources[1].Sport != "unknown" {
		t.Errorf("missing fields should default to unknown, got %+v", sources[1])
	}
	if sources[2].URL != "" {
		t.Errorf("expected empty url, got %q", sources[2].URL)
	}
}

func TestLoadSourcesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.json")
	content := `[{"name":"ESPN","sport":"basketball","url":"https://espn.example.com/rss"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(sources) != 1 || sources[0].Sport != "basketball" {
		t.Errorf("unexpected sources %+v", sources)
	}
}

func TestLoadSourcesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte("name: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSources(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFeedFetcherParsesEntries(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewFeedFetcher(5*time.Second, "Sportabase/test")
	entries, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotUA != "Sportabase/test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	first := entries[0]
	if first.Title != "Club confirms new signing" || first.Link != "https://example.com/a" {
		t.Errorf("unexpected entry %+v", first)
	}
	if !strings.Contains(first.Summary, "<b>announced</b>") {
		t.Errorf("summary should carry raw markup for later normalization, got %q", first.Summary)
	}
	if first.Published == nil || *first.Published != "2006-01-02T15:04:05+01:00" {
		t.Errorf("unexpected published %v", first.Published)
	}
	if entries[1].Published != nil {
		t.Errorf("expected nil published, got %q", *entries[1].Published)
	}
}

func TestFeedFetcherRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFeedFetcher(5*time.Second, "ua")
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 503")
	}
}

func TestFeedFetcherRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not a feed"))
	}))
	defer srv.Close()

	f := NewFeedFetcher(5*time.Second, "ua")
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParsePublished(t *testing.T) {
	updated := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		item *gofeed.Item
		want string
	}{
		{"rfc1123z", &gofeed.Item{Published: "Tue, 10 Sep 2024 18:00:00 +0000"}, "2024-09-10T18:00:00Z"},
		{"naive is utc", &gofeed.Item{Published: "2024-09-10 18:00:00"}, "2024-09-10T18:00:00Z"},
		{"falls back to updated", &gofeed.Item{Updated: "2024-05-01T09:30:00Z", UpdatedParsed: &updated}, "2024-05-01T09:30:00Z"},
		{"none", &gofeed.Item{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePublished(tt.item)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected nil, got %q", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Fatalf("got %v, want %q", got, tt.want)
			}
		})
	}
}
