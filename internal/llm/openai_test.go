package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/symptomtracker/internal"
	"github.com/yourname/symptomtracker/internal/config"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAI("sk-test", srv.URL, "gpt-4", 5*time.Second, internal.NewNopLogger())
}

func TestOpenAIComplete_SendsRequestAndReturnsText(t *testing.T) {
	var got chatRequest
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  all good\n"}}]}`))
	})

	text, err := c.Complete(context.Background(), CompletionRequest{System: "sys", User: "hello", MaxTokens: 1500, Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "  all good\n", text)

	assert.Equal(t, "gpt-4", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "sys"}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "hello"}, got.Messages[1])
	assert.Equal(t, 1500, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
}

func TestOpenAIComplete_ClassifiesErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   internal.ErrorKind
	}{
		{"quota", 429, `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`, internal.KindRateLimit},
		{"rate limit", 429, `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`, internal.KindRateLimit},
		{"bad key", 401, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`, internal.KindAuthentication},
		{"server", 503, `upstream unavailable`, internal.KindTransientExternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.Complete(context.Background(), CompletionRequest{User: "x"})
			require.Error(t, err)
			assert.Equal(t, tc.kind, internal.KindOf(err))
		})
	}
}

func TestOpenAIComplete_NoChoices(t *testing.T) {
	c := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err := c.Complete(context.Background(), CompletionRequest{User: "x"})
	require.Error(t, err)
	assert.Equal(t, internal.KindTransientExternal, internal.KindOf(err))
}

func TestClassifyGemini(t *testing.T) {
	assert.Equal(t, internal.KindRateLimit, classifyGemini(429, "RESOURCE_EXHAUSTED", "quota"))
	assert.Equal(t, internal.KindAuthentication, classifyGemini(403, "PERMISSION_DENIED", ""))
	assert.Equal(t, internal.KindAuthentication, classifyGemini(400, "INVALID_ARGUMENT", "API key not valid. Please pass a valid API key. [reason: API_KEY_INVALID]"))
	assert.Equal(t, internal.KindTransientExternal, classifyGemini(500, "INTERNAL", "boom"))
}

func TestNew_WithoutKeyIsUnconfigured(t *testing.T) {
	c, err := New(context.Background(), config.LLMConfig{Provider: "openai"}, internal.NewNopLogger())
	require.NoError(t, err)
	assert.False(t, c.Configured())
	_, err = c.Complete(context.Background(), CompletionRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: "llama", APIKey: "k"}, internal.NewNopLogger())
	assert.Error(t, err)
}
