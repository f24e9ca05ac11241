// Package client talks to the symptom tracker API on behalf of a signed-in
// user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/response"
)

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

// RequestError is a non-2xx answer from the API.
type RequestError struct {
	Status  int
	Message string
	Details string
}

func (e *RequestError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Details)
	}
	return e.Message
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	return resp.StatusCode, raw, err
}

// ListSymptoms fetches every record of the current user, newest first.
func (c *Client) ListSymptoms(ctx context.Context) ([]internal.SymptomRecord, error) {
	status, raw, err := c.do(ctx, http.MethodGet, "/api/symptoms", nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Data  []internal.SymptomRecord `json:"data"`
		Error json.RawMessage          `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &RequestError{Status: status, Message: strings.TrimSpace(string(raw))}
	}
	if status != http.StatusOK {
		return nil, &RequestError{Status: status, Message: envelopeMessage(env.Error, status)}
	}
	return env.Data, nil
}

// envelopeMessage reads either an AppError object or a bare string.
func envelopeMessage(raw json.RawMessage, status int) string {
	var appErr internal.AppError
	if err := json.Unmarshal(raw, &appErr); err == nil && appErr.Message != "" {
		return appErr.Message
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
		return msg
	}
	return http.StatusText(status)
}

// RequestInsights sends the records to the insight endpoint and returns the
// generated text unchanged.
func (c *Client) RequestInsights(ctx context.Context, records []internal.SymptomRecord) (string, error) {
	status, raw, err := c.do(ctx, http.MethodPost, "/api/ai-insights", map[string]any{"symptoms": records})
	if err != nil {
		return "", err
	}
	if status == http.StatusOK {
		var ok response.InsightSuccess
		if err := json.Unmarshal(raw, &ok); err != nil {
			return "", fmt.Errorf("decode insights: %w", err)
		}
		return ok.Insights, nil
	}
	var fail response.InsightFailure
	if err := json.Unmarshal(raw, &fail); err != nil || fail.Error == "" {
		fail.Error = http.StatusText(status)
	}
	return "", &RequestError{Status: status, Message: fail.Error, Details: fail.Details}
}
