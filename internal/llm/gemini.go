package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yourname/symptomtracker/internal"
	"google.golang.org/genai"
)

type Gemini struct {
	client *genai.Client
	model  string
	logger internal.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, logger internal.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model, logger: logger}, nil
}

func (g *Gemini) Configured() bool { return g.client != nil }

func (g *Gemini) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(req.MaxTokens),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.User), cfg)
	if err != nil {
		g.logger.Errorf("gemini: generate failed: %v", err)
		return "", classifyGeminiError(err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini: response contained no text")
	}
	return text, nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return err
		}
		apiErr = *ptr
	}
	return &ProviderError{
		Provider:   "gemini",
		Kind:       classifyGemini(apiErr.Code, apiErr.Status, apiErr.Message),
		StatusCode: apiErr.Code,
		Code:       apiErr.Status,
		Message:    apiErr.Message,
	}
}

// classifyGemini maps a Google API status onto the taxonomy. Invalid keys come
// back as 400 INVALID_ARGUMENT with API_KEY_INVALID in the message.
func classifyGemini(code int, status, message string) internal.ErrorKind {
	switch {
	case code == http.StatusTooManyRequests, status == "RESOURCE_EXHAUSTED":
		return internal.KindRateLimit
	case code == http.StatusUnauthorized, code == http.StatusForbidden,
		status == "UNAUTHENTICATED", status == "PERMISSION_DENIED",
		strings.Contains(message, "API_KEY_INVALID"), strings.Contains(strings.ToLower(message), "api key not valid"):
		return internal.KindAuthentication
	}
	return internal.KindTransientExternal
}

var _ Completer = (*Gemini)(nil)
