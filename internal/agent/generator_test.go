package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/scam-honeypot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeneratorSelection(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator(config.GeneratorConfig{Provider: "none"})
	assert.ErrorIs(t, err, ErrGeneratorDisabled)

	_, err = NewGenerator(config.GeneratorConfig{Provider: "gemini"})
	assert.ErrorIs(t, err, ErrGeneratorDisabled)

	g, err := NewGenerator(config.GeneratorConfig{Provider: "gemini", GeminiAPIKey: "k", GeminiModel: "m"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiGenerator{}, g)

	g, err = NewGenerator(config.GeneratorConfig{Provider: "ollama", OllamaURL: "http://localhost:11434/"})
	require.NoError(t, err)
	require.IsType(t, &OllamaGenerator{}, g)
	assert.Equal(t, "http://localhost:11434", g.(*OllamaGenerator).BaseURL)

	_, err = NewGenerator(config.GeneratorConfig{Provider: "smoke-signals"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrGeneratorDisabled)
}

func TestOllamaGenerate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req ollamaChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tiny", req.Model)
		assert.False(t, req.Stream)
		assert.Len(t, req.Messages, 1)

		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ChatMessage{Role: "assistant", Content: "  \"Oh dear, which bank?\"  "},
		})
	}))
	defer srv.Close()

	g := NewOllamaGenerator(srv.URL, "tiny")
	got, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Oh dear, which bank?", got)
}

func TestOllamaGenerateErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaGenerator(srv.URL, "missing").Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOllamaGenerateHonoursDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewOllamaGenerator(srv.URL, "slow").Generate(ctx, "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestBuildBaitPromptUsesLastFiveMessages(t *testing.T) {
	t.Parallel()

	transcript := []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"}
	prompt := BuildBaitPrompt("m7", transcript)

	assert.NotContains(t, prompt, "m2\n")
	assert.Contains(t, prompt, "m3\nm4\nm5\nm6\nm7")
	assert.True(t, strings.HasSuffix(prompt, "Reply in 1-2 short, natural sentences."))
	assert.Contains(t, prompt, "NEVER reveal")
}

func TestCleanOutput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", cleanOutput("  hello \n"))
	assert.Equal(t, "hello", cleanOutput(`"hello"`))
	assert.Equal(t, `"`, cleanOutput(`"`))
}
