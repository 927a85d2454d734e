package agent

import (
	"fmt"
	"strings"

	"github.com/ashureev/scam-honeypot/internal/domain"
)

// HistoryWindow is how many trailing transcript messages are shown to the generator.
const HistoryWindow = 5

const baitTemplate = `You are pretending to be a naive, elderly, non-technical person.
You believe the scammer and are worried.
You must NEVER reveal that you know this is a scam.
You must ask questions to get more details like bank account, UPI, phone number, or link.

Conversation so far:
%s

Latest message:
%s

Reply in 1-2 short, natural sentences.`

// BuildBaitPrompt renders the in-character prompt from the latest message and
// the trailing HistoryWindow messages of the transcript.
func BuildBaitPrompt(message string, transcript []string) string {
	history := strings.Join(domain.RecentMessages(transcript, HistoryWindow), "\n")
	return fmt.Sprintf(baitTemplate, history, message)
}
