// Package llm provides a provider-agnostic text completion client for the
// classification engine. Two implementations exist: Anthropic (default) and
// OpenAI, both speaking the same single-prompt contract so the engine's
// response parsing is provider-independent.
package llm

import (
	"context"

	"github.com/rotisserie/eris"
)

// Client performs a single text completion against a language model.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider  string // "anthropic" or "openai"
	Key       string
	Model     string
	MaxTokens int64
}

// New builds a Client for the configured provider.
func New(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "anthropic", "":
		return NewAnthropic(cfg.Key, cfg.Model, cfg.MaxTokens), nil
	case "openai":
		return NewOpenAI(cfg.Key, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
