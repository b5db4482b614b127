package news

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
)

// CreatedAtLayout is fixed-width so that lexical order of stored values
// matches chronological order.
const CreatedAtLayout = "2006-01-02T15:04:05.000000Z"

// Story is a deduplicated news item as persisted and served to clients.
type Story struct {
	ID         string   `json:"id"`
	Source     string   `json:"source"`
	Sport      string   `json:"sport"`
	Title      string   `json:"title"`
	Link       string   `json:"link"`
	Published  *string  `json:"published"`
	Summary    string   `json:"summary"`
	TLDR       []string `json:"tldr"`
	MeritScore int      `json:"merit_score"`
	Badge      string   `json:"badge"`
	CreatedAt  string   `json:"created_at"`
}

// Source is one configured feed.
type Source struct {
	Name  string `yaml:"name" json:"name"`
	Sport string `yaml:"sport" json:"sport"`
	URL   string `yaml:"url" json:"url"`
}

// Filter narrows a story listing. Empty fields match everything.
type Filter struct {
	Sport  string
	Source string
	Limit  int
}

const (
	DefaultLimit = 30
	MaxLimit     = 200
)

// ClampLimit bounds a requested row count to [1, MaxLimit], using
// DefaultLimit when none was given.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// StableID derives the dedup key for a story from its link.
func StableID(link string) string {
	h := sha1.New()
	h.Write([]byte(strings.TrimSpace(link)))
	return hex.EncodeToString(h.Sum(nil))
}

// FormatCreatedAt renders an ingestion timestamp in CreatedAtLayout.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}
