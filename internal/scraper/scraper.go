package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const (
	// minContentRunes is the least text worth analysing.
	minContentRunes = 50
	maxBodyBytes    = 5 << 20
)

// Article is the readable part of a web page.
type Article struct {
	URL   string
	Title string
	Text  string
}

// Scraper fetches a page and extracts its readable text.
type Scraper struct {
	client    *http.Client
	userAgent string
}

func New(timeout time.Duration, userAgent string) *Scraper {
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Scrape downloads rawURL and returns its title and body text. Readability
// extraction is tried first; pages it cannot handle fall back to common
// article selectors.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Article, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}

	article := &Article{URL: rawURL}
	if parsed, err := readability.FromReader(bytes.NewReader(body), u); err == nil {
		article.Title = strings.TrimSpace(parsed.Title)
		article.Text = strings.TrimSpace(parsed.TextContent)
	}

	if utf8.RuneCountInString(article.Text) < minContentRunes || article.Title == "" {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("error parsing HTML: %w", err)
		}
		if utf8.RuneCountInString(article.Text) < minContentRunes {
			article.Text = extractGenericContent(doc)
		}
		if article.Title == "" {
			article.Title = extractTitle(doc)
		}
	}

	if utf8.RuneCountInString(article.Text) < minContentRunes {
		return nil, fmt.Errorf("can't get content from %s", rawURL)
	}
	return article, nil
}

// extractGenericContent collects paragraph text from the first selector that
// yields a few real paragraphs.
func extractGenericContent(doc *goquery.Document) string {
	selectors := []string{
		"article p",
		".article-body p",
		".story-body p",
		".content p",
		".post-content p",
		".entry-content p",
		"main p",
		"#content p",
		"p",
	}

	var paragraphs []string
	for _, selector := range selectors {
		paragraphs = paragraphs[:0]
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if len(text) > 20 && !isJunk(text) {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= 3 {
			break
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

var junkIndicators = []string{
	"cookie", "subscribe", "sign up", "newsletter", "advertisement",
	"all rights reserved", "follow us", "share this",
}

func isJunk(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range junkIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func extractTitle(doc *goquery.Document) string {
	selectors := []string{
		"h1",
		"title",
		".article-title",
		".headline",
		".entry-title",
	}

	for _, selector := range selectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title != "" {
			return title
		}
	}
	return ""
}
