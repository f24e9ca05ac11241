package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yourname/symptomtracker/internal"
)

type OpenAI struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     internal.Logger
}

func NewOpenAI(apiKey, baseURL, model string, timeout time.Duration, logger internal.Logger) *OpenAI {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4"
	}
	return &OpenAI{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *OpenAI) Configured() bool { return c.apiKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type openAIErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

func (c *OpenAI) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Errorf("openai: request failed: %v", err)
		return "", err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		perr := parseOpenAIError(resp.StatusCode, raw)
		c.logger.Errorf("openai: %v", perr)
		return "", perr
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("openai decode error: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai: response contained no choices")
	}
	return out.Choices[0].Message.Content, nil
}

func parseOpenAIError(status int, raw []byte) *ProviderError {
	perr := &ProviderError{Provider: "openai", StatusCode: status, Message: strings.TrimSpace(string(raw))}
	var body openAIErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		perr.Message = body.Error.Message
		if s, ok := body.Error.Code.(string); ok {
			perr.Code = s
		}
		if perr.Code == "" {
			perr.Code = body.Error.Type
		}
	}
	perr.Kind = classifyOpenAI(status, perr.Code)
	return perr
}

// classifyOpenAI maps an OpenAI status and error code onto the taxonomy.
func classifyOpenAI(status int, code string) internal.ErrorKind {
	switch code {
	case "insufficient_quota", "rate_limit_exceeded":
		return internal.KindRateLimit
	case "invalid_api_key":
		return internal.KindAuthentication
	}
	switch status {
	case http.StatusTooManyRequests:
		return internal.KindRateLimit
	case http.StatusUnauthorized:
		return internal.KindAuthentication
	}
	return internal.KindTransientExternal
}

var _ Completer = (*OpenAI)(nil)
