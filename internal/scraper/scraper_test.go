package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Derby report | Sports Site</title></head>
<body>
<nav><a href="/">Home</a><a href="/football">Football</a></nav>
<article>
  <h1>City edge derby in late drama</h1>
  <p>City beat United 2-1 on Sunday after a stoppage-time winner from their captain sealed a dramatic derby victory.</p>
  <p>The home side had trailed for most of the second half before an equaliser in the 78th minute changed the mood inside the stadium.</p>
  <p>The manager said afterwards that the squad had shown real character and that the result would give them belief for the title run-in.</p>
</article>
<footer><p>Subscribe to our newsletter for more football coverage every week.</p></footer>
</body>
</html>`

func TestScrapeExtractsArticle(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	s := New(5*time.Second, "Sportabase/test")
	article, err := s.Scrape(context.Background(), srv.URL+"/derby")
	if err != nil {
		t.Fatalf("Scrape: %v", err)
	}

	if gotUA != "Sportabase/test" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if article.Title == "" {
		t.Error("expected a title")
	}
	if !strings.Contains(article.Text, "stoppage-time winner") {
		t.Errorf("article text missing body: %q", article.Text)
	}
	if article.URL != srv.URL+"/derby" {
		t.Errorf("URL = %q", article.URL)
	}
}

func TestScrapeRejectsBadInput(t *testing.T) {
	s := New(time.Second, "ua")
	if _, err := s.Scrape(context.Background(), "not a url"); err == nil {
		t.Error("expected error for invalid URL")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	if _, err := s.Scrape(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 404")
	}
}

func TestScrapeEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Hi</p></body></html>"))
	}))
	defer srv.Close()

	if _, err := New(time.Second, "ua").Scrape(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error when no readable text is found")
	}
}

func TestExtractGenericContent(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articlePage))
	if err != nil {
		t.Fatal(err)
	}

	text := extractGenericContent(doc)
	if strings.Count(text, "\n\n") != 2 {
		t.Errorf("expected three paragraphs, got %q", text)
	}
	if strings.Contains(strings.ToLower(text), "newsletter") {
		t.Error("junk paragraph should be dropped")
	}
	if got := extractTitle(doc); got != "City edge derby in late drama" {
		t.Errorf("title = %q", got)
	}
}
