package domain

// ReplyStatusSuccess is the only status the honeypot endpoint returns.
const ReplyStatusSuccess = "success"

// Reply is the honeypot's answer to an inbound message.
type Reply struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

// ReplySource records which strategy produced a reply.
type ReplySource string

const (
	// ReplySourceGenerated indicates an in-character reply from the generator.
	ReplySourceGenerated ReplySource = "generated"
	// ReplySourceFallback indicates the generator was unavailable or failed.
	ReplySourceFallback ReplySource = "fallback"
	// ReplySourceNeutral indicates the message was not classified as a scam.
	ReplySourceNeutral ReplySource = "neutral"
)
