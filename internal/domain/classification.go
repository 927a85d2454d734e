package domain

// Classification is the scam verdict for a single message.
type Classification struct {
	IsScam          bool     `json:"isScam"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matchedKeywords"`
}
