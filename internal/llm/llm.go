// Package llm wraps the hosted completion services used to generate symptom
// insights. Backends translate their own error codes into internal.ErrorKind
// so callers never inspect provider wire formats.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/config"
)

// CompletionRequest is one system instruction plus one user message.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Completer is safe for concurrent use and immutable after construction.
type Completer interface {
	// Configured reports whether a credential was supplied.
	Configured() bool
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

var ErrNotConfigured = errors.New("llm: no API key configured")

// ProviderError is a failed call classified into the insight error taxonomy.
type ProviderError struct {
	Provider   string
	Kind       internal.ErrorKind
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s http %d (%s): %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *ProviderError) ErrorKind() internal.ErrorKind { return e.Kind }

type unconfigured struct{}

func (unconfigured) Configured() bool { return false }

func (unconfigured) Complete(context.Context, CompletionRequest) (string, error) {
	return "", ErrNotConfigured
}

// New builds the completer selected by cfg.Provider. A missing key is not an
// error here; the returned Completer reports Configured() == false instead.
func New(ctx context.Context, cfg config.LLMConfig, logger internal.Logger) (Completer, error) {
	if cfg.APIKey == "" {
		logger.Warnf("llm: %s API key not set, insight requests will fail", cfg.Provider)
		return unconfigured{}, nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	switch cfg.Provider {
	case "gemini":
		return NewGemini(ctx, cfg.APIKey, cfg.Model, logger)
	case "openai", "":
		return NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, timeout, logger), nil
	}
	return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
}
