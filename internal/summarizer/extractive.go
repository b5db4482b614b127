package summarizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minSentenceRunes = 30
	maxSentenceRunes = 240
	cutSentenceRunes = 237
)

// boilerplate marks encyclopedia-style disambiguation text that makes a poor
// bullet.
var boilerplate = []string{
	"for other uses",
	"this article is about",
	"disambiguation",
	"may refer to",
}

// Extractive picks up to maxBullets sentences from text in their original
// order. Short sentences, boilerplate and case-insensitive repeats are
// dropped; long sentences are cut to 237 runes plus "...".
func Extractive(text string, maxBullets int) []string {
	out := []string{}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" || maxBullets <= 0 {
		return out
	}

	seen := make(map[string]struct{})
	for _, sent := range splitSentences(text) {
		sent = strings.TrimSpace(sent)
		if utf8.RuneCountInString(sent) < minSentenceRunes {
			continue
		}
		low := strings.ToLower(sent)
		if isBoilerplate(low) {
			continue
		}
		if _, dup := seen[low]; dup {
			continue
		}
		seen[low] = struct{}{}

		if utf8.RuneCountInString(sent) > maxSentenceRunes {
			sent = strings.TrimRightFunc(string([]rune(sent)[:cutSentenceRunes]), unicode.IsSpace) + "..."
		}
		out = append(out, sent)
		if len(out) >= maxBullets {
			break
		}
	}
	return out
}

// splitSentences breaks text after '.', '!' or '?' when followed by
// whitespace. The terminator stays with its sentence.
func splitSentences(text string) []string {
	var sents []string
	start := 0
	prevTerminal := false
	for i, r := range text {
		if unicode.IsSpace(r) && prevTerminal {
			sents = append(sents, text[start:i])
			start = i
		}
		prevTerminal = r == '.' || r == '!' || r == '?'
	}
	return append(sents, text[start:])
}

func isBoilerplate(low string) bool {
	for _, b := range boilerplate {
		if strings.Contains(low, b) {
			return true
		}
	}
	return false
}
