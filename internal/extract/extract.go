// Package extract derives structured entities (URLs, email addresses,
// phone numbers) from free-form OCR text using pattern matching.
//
// All functions are pure and stateless. Matches are returned deduplicated
// in first-occurrence order; text without matches yields an empty slice.
// There are no error conditions.
//
// The link pattern intentionally accepts bare domain-like tokens
// ("example.com") so that scanned business cards and signage produce
// tappable links without an explicit scheme. The trade-off is a known
// false positive on prose such as "version 2.0 released", where
// "2.0released"-shaped word.word tokens with a 2+ letter suffix match.
// Downstream consumers rely on this exact matching behavior; do not
// tighten the pattern without a product decision.
package extract

import (
	"regexp"
	"strings"
)

var (
	linkPattern  = regexp.MustCompile(`(?i)https?://\S+|www\.\S+|[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}(?:/\S*)?`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
)

// Links returns the URLs found in text. Absolute http/https URLs are kept
// as-is; www.-prefixed hosts and bare domain tokens are normalized by
// prepending "https://". Duplicates after normalization are dropped,
// keeping the first occurrence.
func Links(text string) []string {
	matches := linkPattern.FindAllString(text, -1)
	normalized := make([]string, 0, len(matches))
	for _, m := range matches {
		if !strings.HasPrefix(m, "http://") && !strings.HasPrefix(m, "https://") {
			m = "https://" + m
		}
		normalized = append(normalized, m)
	}
	return dedupe(normalized)
}

// Emails returns the email addresses found in text, deduplicated in
// first-occurrence order.
func Emails(text string) []string {
	return dedupe(emailPattern.FindAllString(text, -1))
}

// Phones returns North-American-style phone numbers found in text:
// optional +1/1 prefix, optional parenthesized area code, with dash, dot
// or space separators (or none). Deduplicated in first-occurrence order.
func Phones(text string) []string {
	return dedupe(phonePattern.FindAllString(text, -1))
}

func dedupe(matches []string) []string {
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
