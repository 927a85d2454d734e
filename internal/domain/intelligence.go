package domain

// Intelligence is the set of artifacts extracted from a transcript.
// Each slice holds distinct values; order carries no meaning.
// JSON keys follow the collector's payload contract.
type Intelligence struct {
	PhoneNumbers   []string `json:"phone_numbers"`
	PaymentHandles []string `json:"upi_ids"`
	URLs           []string `json:"phishing_links"`
}

// Total returns the number of distinct artifacts across all categories.
func (i Intelligence) Total() int {
	return len(i.PhoneNumbers) + len(i.PaymentHandles) + len(i.URLs)
}

// IsEmpty returns true if nothing was extracted.
func (i Intelligence) IsEmpty() bool {
	return i.Total() == 0
}
