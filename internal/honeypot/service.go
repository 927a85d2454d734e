// Package honeypot ties the session store, classifier, extractor and external
// collaborators together for each inbound scammer message.
package honeypot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/scam-honeypot/internal/agent"
	"github.com/ashureev/scam-honeypot/internal/detector"
	"github.com/ashureev/scam-honeypot/internal/domain"
	"github.com/ashureev/scam-honeypot/internal/intel"
	"github.com/ashureev/scam-honeypot/internal/session"
)

const (
	// FallbackReply is used when the generator is unavailable, fails or returns nothing.
	FallbackReply = "I am very worried now. Can you please explain what I should do next?"
	// NeutralReply is used for messages not classified as scams.
	NeutralReply = "Sorry, I am not understanding this properly. Can you explain again?"

	// DefaultReportThreshold is the artifact count that triggers a report.
	DefaultReportThreshold = 2
	// DefaultGeneratorTimeout bounds a single generator call.
	DefaultGeneratorTimeout = 5 * time.Second
)

// Reporter receives sessions that crossed the report threshold. Report must not block.
type Reporter interface {
	Report(sessionID string, intelligence domain.Intelligence)
}

// Config tunes the orchestration.
type Config struct {
	ReportThreshold  int
	GeneratorTimeout time.Duration
}

// Service processes inbound messages. All dependencies except the store are optional.
type Service struct {
	store      *session.Store
	classifier *detector.Classifier
	generator  agent.Generator     // nil = always fall back
	reporter   Reporter            // nil = never report
	log        agent.ConversationLogger
	cfg        Config
}

// Option customizes a Service.
type Option func(*Service)

// WithGenerator sets the reply generator.
func WithGenerator(g agent.Generator) Option {
	return func(s *Service) { s.generator = g }
}

// WithReporter sets the intelligence reporter.
func WithReporter(r Reporter) Option {
	return func(s *Service) { s.reporter = r }
}

// WithClassifier overrides the default keyword taxonomy.
func WithClassifier(c *detector.Classifier) Option {
	return func(s *Service) { s.classifier = c }
}

// WithConversationLogger records each exchange.
func WithConversationLogger(l agent.ConversationLogger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates an orchestrator over store.
func NewService(store *session.Store, cfg Config, opts ...Option) *Service {
	if cfg.ReportThreshold <= 0 {
		cfg.ReportThreshold = DefaultReportThreshold
	}
	if cfg.GeneratorTimeout <= 0 {
		cfg.GeneratorTimeout = DefaultGeneratorTimeout
	}
	s := &Service{
		store:      store,
		classifier: detector.Default(),
		log:        agent.NoopConversationLogger(),
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engage records message, analyses the session and chooses a reply.
// It never fails: collaborator errors are contained and replaced by fixed replies.
func (s *Service) Engage(ctx context.Context, sessionID, message string) domain.Reply {
	s.store.AddMessage(sessionID, message)
	transcript := s.store.Conversation(sessionID)

	verdict := s.classifier.Detect(message)
	found := intel.Extract(transcript)

	slog.Info("Honeypot message analysed",
		"session_id", sessionID,
		"is_scam", verdict.IsScam,
		"confidence", verdict.Confidence,
		"matched_keywords", verdict.MatchedKeywords,
		"total_intel", found.Total(),
		"transcript_length", len(transcript),
	)
	s.log.Log(agent.ConversationLogEvent{
		SessionID:  sessionID,
		Direction:  "inbound",
		EventType:  "scammer_message",
		ContentRaw: message,
		Meta: map[string]any{
			"is_scam":          verdict.IsScam,
			"confidence":       verdict.Confidence,
			"matched_keywords": verdict.MatchedKeywords,
		},
	})

	if found.Total() >= s.cfg.ReportThreshold && s.reporter != nil {
		s.reporter.Report(sessionID, found)
	}

	text, source := s.chooseReply(ctx, sessionID, message, transcript, verdict)

	s.log.Log(agent.ConversationLogEvent{
		SessionID:  sessionID,
		Direction:  "outbound",
		EventType:  "honeypot_reply",
		ContentRaw: text,
		Meta:       map[string]any{"source": string(source)},
	})

	return domain.Reply{Status: domain.ReplyStatusSuccess, Reply: text}
}

func (s *Service) chooseReply(ctx context.Context, sessionID, message string, transcript []string, verdict domain.Classification) (string, domain.ReplySource) {
	if !verdict.IsScam {
		return NeutralReply, domain.ReplySourceNeutral
	}
	if s.generator == nil {
		return FallbackReply, domain.ReplySourceFallback
	}

	text, err := s.generate(ctx, agent.BuildBaitPrompt(message, transcript))
	if err != nil {
		slog.Warn("Reply generation failed, using fallback", "session_id", sessionID, "error", err)
		return FallbackReply, domain.ReplySourceFallback
	}
	if text = strings.TrimSpace(text); text == "" {
		slog.Warn("Reply generator returned empty text, using fallback", "session_id", sessionID)
		return FallbackReply, domain.ReplySourceFallback
	}
	return text, domain.ReplySourceGenerated
}

// generate isolates the generator: it is time-bounded and a panic is reported as an error.
func (s *Service) generate(ctx context.Context, prompt string) (text string, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GeneratorTimeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &panicError{value: r}}
			}
		}()
		t, e := s.generator.Generate(ctx, prompt)
		done <- result{text: t, err: e}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Inspection is an analyst's view of one session.
type Inspection struct {
	SessionID    string              `json:"sessionId"`
	Messages     []string            `json:"messages"`
	Intelligence domain.Intelligence `json:"intelligence"`
}

// Inspect returns the transcript and freshly extracted intelligence without mutating anything.
func (s *Service) Inspect(sessionID string) Inspection {
	transcript := s.store.Conversation(sessionID)
	return Inspection{
		SessionID:    sessionID,
		Messages:     transcript,
		Intelligence: intel.Extract(transcript),
	}
}
