// Package intel extracts actionable artifacts from conversation transcripts.
package intel

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ashureev/scam-honeypot/internal/domain"
)

var (
	// Indian mobile number: optional +91 prefix with optional separator, then 10 digits starting 6-9.
	phonePattern = regexp.MustCompile(`(?:\+91[-\s]?)?[6-9]\d{9}`)
	// Payment handle (UPI-style localpart@provider). Broad on purpose; also matches plain emails.
	paymentPattern = regexp.MustCompile(`[a-zA-Z0-9.\-_]{2,}@[a-zA-Z]{2,}`)
	urlPattern     = regexp.MustCompile(`https?://[^\s]+`)
)

// Extract scans the whole transcript, joined with single spaces, for phone numbers,
// payment handles and URLs. Each category is de-duplicated and sorted.
func Extract(messages []string) domain.Intelligence {
	text := strings.Join(messages, " ")

	return domain.Intelligence{
		PhoneNumbers:   uniqueMatches(phonePattern, text),
		PaymentHandles: uniqueMatches(paymentPattern, text),
		URLs:           uniqueMatches(urlPattern, text),
	}
}

func uniqueMatches(re *regexp.Regexp, text string) []string {
	matches := re.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
