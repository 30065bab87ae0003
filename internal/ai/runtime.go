package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Runtime sends a single prompt to a provider and returns the raw completion text.
// Implementations make exactly one attempt.
type Runtime interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// RuntimeFactory builds a Runtime for one provider configuration.
type RuntimeFactory func(cfg Config, httpClient *http.Client) Runtime

var registry = map[Provider]RuntimeFactory{}

// RegisterRuntime registers a provider with its factory.
func RegisterRuntime(p Provider, f RuntimeFactory) { registry[p] = f }

// NewRuntime creates the Runtime for cfg.Provider with the given HTTP timeout.
func NewRuntime(cfg Config, timeout time.Duration) (Runtime, error) {
	f, ok := registry[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("no runtime registered for provider %q", cfg.Provider)
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return f(cfg, &http.Client{Timeout: timeout}), nil
}

func init() {
	RegisterRuntime(ProviderMistral, func(c Config, hc *http.Client) Runtime { return NewMistralClient(c, hc) })
	RegisterRuntime(ProviderGemini, func(c Config, hc *http.Client) Runtime { return NewGeminiClient(c, hc) })
}
