package intel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		messages []string
		phones   []string
		handles  []string
		urls     []string
	}{
		{
			name:     "empty transcript",
			messages: nil,
			phones:   []string{},
			handles:  []string{},
			urls:     []string{},
		},
		{
			name:     "phone and handle across messages",
			messages: []string{"call me on 9876543210", "pay to test@upi"},
			phones:   []string{"9876543210"},
			handles:  []string{"test@upi"},
			urls:     []string{},
		},
		{
			name:     "country code variants",
			messages: []string{"+91 9123456789 or +91-8123456789 or +917123456789"},
			phones:   []string{"+91 9123456789", "+91-8123456789", "+917123456789"},
			handles:  []string{},
			urls:     []string{},
		},
		{
			name:     "numbers starting below six are ignored",
			messages: []string{"ref 1234567890 and 5123456789"},
			phones:   []string{},
			handles:  []string{},
			urls:     []string{},
		},
		{
			name:     "duplicates collapse",
			messages: []string{"9876543210", "again 9876543210", "scammer@paytm scammer@paytm"},
			phones:   []string{"9876543210"},
			handles:  []string{"scammer@paytm"},
			urls:     []string{},
		},
		{
			name:     "urls stop at whitespace",
			messages: []string{"click http://bad.example/login?x=1 now", "or https://evil.example"},
			phones:   []string{},
			handles:  []string{},
			urls:     []string{"http://bad.example/login?x=1", "https://evil.example"},
		},
		{
			name:     "plain email over-matches as handle",
			messages: []string{"mail john.doe@example.com"},
			phones:   []string{},
			handles:  []string{"john.doe@example"},
			urls:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.messages)
			assert.Equal(t, tt.phones, got.PhoneNumbers)
			assert.Equal(t, tt.handles, got.PaymentHandles)
			assert.Equal(t, tt.urls, got.URLs)
		})
	}
}

func TestExtractTotalTriggersReportThreshold(t *testing.T) {
	t.Parallel()

	got := Extract([]string{"my number is 9876543210", "pay to test@upi"})
	assert.Equal(t, 2, got.Total())
}

func TestExtractIsIdempotent(t *testing.T) {
	t.Parallel()

	transcript := []string{
		"send to fraud.pay@okaxis",
		"visit https://phish.example/kyc",
		"+91 9988776655",
	}
	first := Extract(transcript)
	second := Extract(transcript)
	assert.Equal(t, first, second)
}

func TestExtractJoinsMessagesWithSpace(t *testing.T) {
	t.Parallel()

	// Digits split across a message boundary are not glued together.
	got := Extract([]string{"98765", "43210"})
	assert.Empty(t, got.PhoneNumbers)
}
