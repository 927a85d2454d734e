package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		message    string
		wantScam   bool
		wantConf   float64
		wantTokens []string
	}{
		{
			name:       "blocked account verify",
			message:    "Your account is blocked, verify urgently",
			wantScam:   true,
			wantConf:   0.6,
			wantTokens: []string{"verify", "blocked", "account"},
		},
		{
			name:       "benign greeting",
			message:    "hi there",
			wantScam:   false,
			wantConf:   0,
			wantTokens: []string{},
		},
		{
			name:       "single category is not a scam",
			message:    "I went to the bank",
			wantScam:   false,
			wantConf:   0.2,
			wantTokens: []string{"bank"},
		},
		{
			name:       "case folded",
			message:    "URGENT: you are a LOTTERY winner",
			wantScam:   true,
			wantConf:   0.4,
			wantTokens: []string{"urgent", "winner"},
		},
		{
			name:       "word boundary keeps pay out of payment",
			message:    "payment pending",
			wantScam:   false,
			wantConf:   0.2,
			wantTokens: []string{"payment"},
		},
		{
			name:       "phrase keyword",
			message:    "We will take legal action today",
			wantScam:   true,
			wantConf:   0.4,
			wantTokens: []string{"today", "legal action"},
		},
		{
			name:       "upi counts in bank and payment",
			message:    "share your upi",
			wantScam:   true,
			wantConf:   0.4,
			wantTokens: []string{"upi", "upi"},
		},
		{
			name:       "all categories saturate",
			message:    "urgent: account suspended, pay now to claim your prize",
			wantScam:   true,
			wantConf:   1.0,
			wantTokens: []string{"urgent", "suspended", "account", "pay", "prize"},
		},
		{
			name:       "empty message",
			message:    "",
			wantScam:   false,
			wantConf:   0,
			wantTokens: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Detect(tt.message)
			assert.Equal(t, tt.wantScam, got.IsScam)
			assert.Equal(t, tt.wantConf, got.Confidence)
			assert.Equal(t, tt.wantTokens, got.MatchedKeywords)
		})
	}
}

func TestFirstMatchWinsWithinCategory(t *testing.T) {
	t.Parallel()

	// "now" precedes "asap" in the urgency list even though asap appears first.
	got := Detect("asap, right now")
	assert.Equal(t, []string{"now"}, got.MatchedKeywords)
}

func TestFewerThanTwoCategoriesIsNeverScam(t *testing.T) {
	t.Parallel()

	for _, cat := range DefaultCategories {
		for _, w := range cat.Words {
			if w == "upi" {
				continue
			}
			got := Detect(w + " " + w)
			assert.False(t, got.IsScam, "word %q", w)
		}
	}
}

func TestConfidence(t *testing.T) {
	t.Parallel()

	want := map[int]float64{0: 0, 1: 0.2, 2: 0.4, 3: 0.6, 4: 0.8, 5: 1.0, 6: 1.0, 10: 1.0, -1: 0}
	for n, w := range want {
		got := Confidence(n)
		assert.Equal(t, w, got, "count %d", n)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestCustomTaxonomy(t *testing.T) {
	t.Parallel()

	c := New([]Category{
		{Name: "crypto", Words: []string{"Bitcoin", "wallet"}},
		{Name: "romance", Words: []string{"darling"}},
	})
	assert.Equal(t, []string{"crypto", "romance"}, c.Categories())

	got := c.Detect("darling, send bitcoin")
	assert.True(t, got.IsScam)
	assert.Equal(t, []string{"bitcoin", "darling"}, got.MatchedKeywords)
}
