// Package merit scores the journalistic credibility of a piece of sports news.
//
// The heuristic is deterministic. It counts concrete numbers and quotation
// marks and looks for official or hedging language. Thresholds and tier
// boundaries are part of the user-facing badge taxonomy and must not drift.
package merit

import (
	"regexp"
	"strings"
)

// Badge is one of five ordered credibility tiers.
type Badge string

const (
	BadgeSpeculative     Badge = "Speculative"
	BadgeLowEvidence     Badge = "Low Evidence"
	BadgeEmerging        Badge = "Emerging"
	BadgeHighCredibility Badge = "High Credibility"
	BadgeConfirmed       Badge = "Confirmed"
)

const maxReasons = 4

const (
	reasonOfficial    = "Uses official/confirmed language (e.g., confirmed/announced)."
	reasonHedging     = "Contains hedging/rumor language (e.g., reportedly/could/sources)."
	reasonHighDensity = "Includes multiple specific numbers/details (higher factual density)."
	reasonLowSpecific = "Few concrete details (mostly narrative / low specificity)."
	reasonQuotes      = "Includes quoted statements (adds some evidence context)."
	reasonHighOverall = "Overall signals point to high credibility."
	reasonLowOverall  = "Overall signals point to low evidence / speculative content."
)

var hedgeWords = []string{
	"linked", "interest", "monitoring", "could", "reportedly", "talks",
	"close to", "understood", "sources", "believed", "expected", "set to",
}

var officialWords = []string{
	"official", "club statement", "press release", "confirmed", "announced",
}

var numberRe = regexp.MustCompile(`\b\d+([.,]\d+)?\b`)

// Breakdown holds the sub-scores that add up to the total. Originality,
// Relevance and Impact are fixed placeholders; they are the hooks for a
// future cross-source correlation signal.
type Breakdown struct {
	FactualDensity  int `json:"factual_density"`
	EvidenceQuality int `json:"evidence_quality"`
	Originality     int `json:"originality"`
	Relevance       int `json:"relevance"`
	Impact          int `json:"impact"`
}

// Signals are the raw observations taken from the text.
type Signals struct {
	Numbers     int  `json:"numbers"`
	Quotes      int  `json:"quotes"`
	Hedging     bool `json:"hedging"`
	HasOfficial bool `json:"has_official"`
}

// Result is the outcome of scoring a text.
type Result struct {
	Total     int       `json:"total"`
	Badge     Badge     `json:"badge"`
	Reasons   []string  `json:"reasons"`
	Signals   Signals   `json:"signals"`
	Breakdown Breakdown `json:"breakdown"`
}

// Score computes the merit of a story from its title and body text.
func Score(title, body string) Result {
	corpus := strings.ToLower(strings.TrimSpace(title + "\n" + body))

	sig := Signals{
		Numbers:     len(numberRe.FindAllStringIndex(corpus, -1)),
		Quotes:      strings.Count(corpus, `"`) + strings.Count(corpus, "“") + strings.Count(corpus, "”"),
		Hedging:     containsAny(corpus, hedgeWords),
		HasOfficial: containsAny(corpus, officialWords),
	}

	b := Breakdown{
		FactualDensity:  min(35, sig.Numbers*3+min(12, sig.Quotes)),
		EvidenceQuality: evidenceQuality(sig),
		Originality:     15,
		Relevance:       10,
		Impact:          10,
	}

	total := b.FactualDensity + b.EvidenceQuality + b.Originality + b.Relevance + b.Impact
	total = max(0, min(100, total))

	return Result{
		Total:     total,
		Badge:     BadgeFor(total),
		Reasons:   reasons(sig, total),
		Signals:   sig,
		Breakdown: b,
	}
}

// BadgeFor maps a score to its tier. Each boundary belongs to the lower tier.
func BadgeFor(score int) Badge {
	switch {
	case score <= 20:
		return BadgeSpeculative
	case score <= 40:
		return BadgeLowEvidence
	case score <= 60:
		return BadgeEmerging
	case score <= 80:
		return BadgeHighCredibility
	default:
		return BadgeConfirmed
	}
}

func evidenceQuality(sig Signals) int {
	if sig.HasOfficial {
		return 28
	}
	if sig.Hedging {
		return 6
	}
	return 12
}

func reasons(sig Signals, total int) []string {
	out := make([]string, 0, maxReasons)

	if sig.HasOfficial {
		out = append(out, reasonOfficial)
	} else if sig.Hedging {
		out = append(out, reasonHedging)
	}

	if sig.Numbers >= 3 {
		out = append(out, reasonHighDensity)
	} else if sig.Numbers == 0 {
		out = append(out, reasonLowSpecific)
	}

	if sig.Quotes >= 2 {
		out = append(out, reasonQuotes)
	}

	if total >= 80 {
		out = append(out, reasonHighOverall)
	} else if total <= 40 {
		out = append(out, reasonLowOverall)
	}

	if len(out) > maxReasons {
		out = out[:maxReasons]
	}
	return out
}

// containsAny reports whether any of the phrases occurs as a substring.
func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
