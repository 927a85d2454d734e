// Package detector scores messages against a weighted keyword taxonomy.
package detector

import (
	"math"
	"regexp"
	"strings"

	"github.com/ashureev/scam-honeypot/internal/domain"
)

const (
	// ScamThreshold is the number of matched categories that makes a message a scam.
	ScamThreshold = 2
	// saturation is the match count at which confidence reaches 1.0.
	saturation = 5
)

// Category is a named, ordered list of trigger words or phrases.
type Category struct {
	Name  string
	Words []string
}

// DefaultCategories is the built-in scam taxonomy.
// "upi" appears under both bank and payment; categories are scored independently,
// so the same token may count once in each.
var DefaultCategories = []Category{
	{Name: "urgency", Words: []string{"urgent", "immediately", "now", "today", "asap", "verify"}},
	{Name: "threat", Words: []string{"blocked", "suspended", "deactivated", "legal action"}},
	{Name: "bank", Words: []string{"bank", "account", "kyc", "ifsc", "upi", "atm"}},
	{Name: "payment", Words: []string{"pay", "payment", "transfer", "send", "upi"}},
	{Name: "prize", Words: []string{"winner", "lottery", "prize", "reward"}},
}

type trigger struct {
	word    string
	pattern *regexp.Regexp
}

type compiledCategory struct {
	name     string
	triggers []trigger
}

// Classifier is safe for concurrent use; it holds only compiled patterns.
type Classifier struct {
	categories []compiledCategory
}

// New compiles a classifier for the given categories, preserving their order.
func New(categories []Category) *Classifier {
	c := &Classifier{categories: make([]compiledCategory, 0, len(categories))}
	for _, cat := range categories {
		cc := compiledCategory{name: cat.Name}
		for _, w := range cat.Words {
			w = strings.ToLower(w)
			cc.triggers = append(cc.triggers, trigger{
				word:    w,
				pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`),
			})
		}
		c.categories = append(c.categories, cc)
	}
	return c
}

var defaultClassifier = New(DefaultCategories)

// Default returns the classifier for DefaultCategories.
func Default() *Classifier {
	return defaultClassifier
}

// Detect classifies message with the default taxonomy.
func Detect(message string) domain.Classification {
	return defaultClassifier.Detect(message)
}

// Detect classifies a single message. At most one keyword per category is recorded
// (the first word in list order that matches on word boundaries).
func (c *Classifier) Detect(message string) domain.Classification {
	lower := strings.ToLower(message)
	matched := make([]string, 0, len(c.categories))

	for _, cat := range c.categories {
		for _, t := range cat.triggers {
			if t.pattern.MatchString(lower) {
				matched = append(matched, t.word)
				break
			}
		}
	}

	score := len(matched)
	return domain.Classification{
		IsScam:          score >= ScamThreshold,
		Confidence:      Confidence(score),
		MatchedKeywords: matched,
	}
}

// Categories returns the category names in scoring order.
func (c *Classifier) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.name
	}
	return names
}

// Confidence maps a match count to round(min(count/5, 1), 2).
func Confidence(matchCount int) float64 {
	if matchCount <= 0 {
		return 0
	}
	v := math.Min(float64(matchCount)/saturation, 1.0)
	return math.Round(v*100) / 100
}
