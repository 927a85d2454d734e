package honeypot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashureev/scam-honeypot/internal/agent"
	"github.com/ashureev/scam-honeypot/internal/domain"
	"github.com/ashureev/scam-honeypot/internal/session"
)

type fakeReporter struct {
	mu    sync.Mutex
	calls []reportCall
}

type reportCall struct {
	sessionID string
	intel     domain.Intelligence
}

func (f *fakeReporter) Report(sessionID string, intel domain.Intelligence) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, reportCall{sessionID: sessionID, intel: intel})
}

func (f *fakeReporter) Calls() []reportCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]reportCall(nil), f.calls...)
}

type countingGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (g *countingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *countingGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

func TestEngageScamUsesGenerator(t *testing.T) {
	t.Parallel()

	gen := &countingGenerator{reply: "Oh no! Which account number should I use?"}
	svc := NewService(session.NewStore(session.Options{}), Config{}, WithGenerator(gen))

	got := svc.Engage(context.Background(), "s1", "Your account is blocked, verify urgently")

	assert.Equal(t, domain.ReplyStatusSuccess, got.Status)
	assert.Equal(t, "Oh no! Which account number should I use?", got.Reply)
	require.Equal(t, 1, gen.Calls())
	assert.Contains(t, gen.prompts[0], "Your account is blocked, verify urgently")
}

func TestEngageNonScamNeverCallsGenerator(t *testing.T) {
	t.Parallel()

	gen := &countingGenerator{reply: "should not be used"}
	svc := NewService(session.NewStore(session.Options{}), Config{}, WithGenerator(gen))

	got := svc.Engage(context.Background(), "s2", "hi there")

	assert.Equal(t, domain.ReplyStatusSuccess, got.Status)
	assert.Equal(t, NeutralReply, got.Reply)
	assert.Zero(t, gen.Calls())
}

func TestEngageFallbacks(t *testing.T) {
	t.Parallel()

	scam := "URGENT: your bank account is suspended"

	tests := []struct {
		name string
		gen  agent.Generator
	}{
		{name: "no generator", gen: nil},
		{name: "generator error", gen: &countingGenerator{err: errors.New("quota exceeded")}},
		{name: "blank reply", gen: &countingGenerator{reply: "   \n"}},
		{name: "generator panics", gen: agent.GeneratorFunc(func(context.Context, string) (string, error) {
			panic("boom")
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var opts []Option
			if tt.gen != nil {
				opts = append(opts, WithGenerator(tt.gen))
			}
			svc := NewService(session.NewStore(session.Options{}), Config{}, opts...)
			got := svc.Engage(context.Background(), "s", scam)
			assert.Equal(t, domain.ReplyStatusSuccess, got.Status)
			assert.Equal(t, FallbackReply, got.Reply)
		})
	}
}

func TestEngageGeneratorTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	slow := agent.GeneratorFunc(func(_ context.Context, _ string) (string, error) {
		<-release // ignores ctx on purpose
		return "too late", nil
	})

	svc := NewService(session.NewStore(session.Options{}), Config{GeneratorTimeout: 50 * time.Millisecond}, WithGenerator(slow))

	start := time.Now()
	got := svc.Engage(context.Background(), "s", "verify your kyc now")
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, FallbackReply, got.Reply)
}

func TestEngageReportsWhenIntelReachesThreshold(t *testing.T) {
	t.Parallel()

	rep := &fakeReporter{}
	svc := NewService(session.NewStore(session.Options{}), Config{}, WithReporter(rep))
	ctx := context.Background()

	svc.Engage(ctx, "s3", "call 9876543210")
	assert.Empty(t, rep.Calls(), "one artifact is below threshold")

	svc.Engage(ctx, "s3", "pay to test@upi")
	calls := rep.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "s3", calls[0].sessionID)
	assert.Equal(t, []string{"9876543210"}, calls[0].intel.PhoneNumbers)
	assert.Equal(t, []string{"test@upi"}, calls[0].intel.PaymentHandles)
	assert.Equal(t, 2, calls[0].intel.Total())
}

func TestEngageCustomThreshold(t *testing.T) {
	t.Parallel()

	rep := &fakeReporter{}
	svc := NewService(session.NewStore(session.Options{}), Config{ReportThreshold: 1}, WithReporter(rep))
	svc.Engage(context.Background(), "s", "visit https://phish.example")
	assert.Len(t, rep.Calls(), 1)
}

func TestEngageClassifiesLatestMessageOnly(t *testing.T) {
	t.Parallel()

	gen := &countingGenerator{reply: "generated"}
	svc := NewService(session.NewStore(session.Options{}), Config{}, WithGenerator(gen))
	ctx := context.Background()

	first := svc.Engage(ctx, "s", "urgent: your account is blocked")
	assert.Equal(t, "generated", first.Reply)

	second := svc.Engage(ctx, "s", "hello?")
	assert.Equal(t, NeutralReply, second.Reply)
	assert.Equal(t, 1, gen.Calls())
}

func TestInspectDoesNotMutate(t *testing.T) {
	t.Parallel()

	store := session.NewStore(session.Options{})
	svc := NewService(store, Config{})
	svc.Engage(context.Background(), "s", "send to fraud@okaxis")

	got := svc.Inspect("s")
	assert.Equal(t, []string{"send to fraud@okaxis"}, got.Messages)
	assert.Equal(t, []string{"fraud@okaxis"}, got.Intelligence.PaymentHandles)
	assert.Len(t, store.Conversation("s"), 1)

	empty := svc.Inspect("unknown")
	assert.Empty(t, empty.Messages)
	assert.Zero(t, store.Len()-1)
}

func TestEngageConcurrentSessions(t *testing.T) {
	t.Parallel()

	store := session.NewStore(session.Options{})
	svc := NewService(store, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			for j := 0; j < 10; j++ {
				svc.Engage(context.Background(), id, "hi")
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
	assert.Len(t, store.Conversation("a"), 10)
}
