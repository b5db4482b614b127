package rss

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/deusflow/sportabase/internal/news"
	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

const unknown = "unknown"

// LoadSources reads the configured feeds from a YAML file. JSON lists are
// valid YAML, so both formats work. A missing file is created as an empty
// list.
//
//   - name: BBC Football
//     sport: football
//     url: https://...
func LoadSources(path string) ([]news.Source, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sources dir: %w", err)
		}
		if err := os.WriteFile(path, []byte("[]\n"), 0o644); err != nil {
			return nil, fmt.Errorf("create sources file: %w", err)
		}
		return []news.Source{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	var sources []news.Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parse sources %s: %w", path, err)
	}
	for i := range sources {
		s := &sources[i]
		s.Name = orUnknown(s.Name)
		s.Sport = orUnknown(s.Sport)
		s.URL = strings.TrimSpace(s.URL)
	}
	if sources == nil {
		sources = []news.Source{}
	}
	return sources, nil
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknown
	}
	return s
}

// Entry is one feed item reduced to the fields ingestion needs.
type Entry struct {
	Title     string
	Link      string
	Summary   string
	Published *string
}

// Fetcher downloads and parses one feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Entry, error)
}

// FeedFetcher fetches feeds over HTTP and parses them with gofeed.
type FeedFetcher struct {
	client    *http.Client
	userAgent string
}

func NewFeedFetcher(timeout time.Duration, userAgent string) *FeedFetcher {
	return &FeedFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch returns the entries of the feed at url in document order. A non-2xx
// response is an error.
func (f *FeedFetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		entries = append(entries, Entry{
			Title:     item.Title,
			Link:      item.Link,
			Summary:   summary,
			Published: ParsePublished(item),
		})
	}
	return entries, nil
}

// ParsePublished returns the item's publication time as an RFC 3339 string,
// trying the published then the updated field. Times without a zone are
// taken as UTC. Nil means no usable timestamp.
func ParsePublished(item *gofeed.Item) *string {
	candidates := []struct {
		raw    string
		parsed *time.Time
	}{
		{item.Published, item.PublishedParsed},
		{item.Updated, item.UpdatedParsed},
	}

	for _, c := range candidates {
		raw := strings.TrimSpace(c.raw)
		if raw == "" {
			continue
		}
		if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
			s := t.Format(time.RFC3339)
			return &s
		}
		if c.parsed != nil {
			s := c.parsed.Format(time.RFC3339)
			return &s
		}
	}
	return nil
}
