// Package agent provides the reply generators the honeypot uses to stay in character.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/ashureev/scam-honeypot/internal/config"
)

// ErrGeneratorDisabled is returned when no generator is configured.
var ErrGeneratorDisabled = errors.New("reply generator disabled")

// Generator turns a prompt into a short reply. Implementations must honour ctx cancellation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// NewGenerator builds the generator selected by cfg.Provider.
// It returns ErrGeneratorDisabled when the provider is "none" or lacks credentials.
func NewGenerator(cfg config.GeneratorConfig) (Generator, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrGeneratorDisabled)
		}
		return NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case "ollama":
		if cfg.OllamaURL == "" {
			return nil, fmt.Errorf("%w: OLLAMA_URL not set", ErrGeneratorDisabled)
		}
		return NewOllamaGenerator(cfg.OllamaURL, cfg.OllamaModel), nil
	case "none", "":
		return nil, ErrGeneratorDisabled
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
}
