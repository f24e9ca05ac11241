package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "PORT", "STORAGE_BACKEND", "POSTGRES_DSN", "SYMPTOMS_FILE", "FIELDS_FILE",
		"AUTH_SERVICE_URL", "AUTH_API_KEY", "AUTH_JWT_SECRET", "AUTH_DEV_TOKEN", "CORS_ORIGINS", "LLM_PROVIDER",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL",
		"LLM_MAX_TOKENS", "LLM_TEMPERATURE", "LLM_TIMEOUT_SECONDS"} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "development", c.Env)
	assert.Equal(t, "file", c.DBType)
	assert.Equal(t, "8088", c.Port)
	assert.Equal(t, "MOCK-TOKEN", c.AuthDevToken)
	assert.Equal(t, "openai", c.LLM.Provider)
	assert.Equal(t, "gpt-4", c.LLM.Model)
	assert.Equal(t, 1500, c.LLM.MaxTokens)
	assert.Equal(t, 0.3, c.LLM.Temperature)
	assert.Equal(t, 60*time.Second, c.LLM.Timeout)
	assert.Empty(t, c.LLM.APIKey)
}

func TestFromEnv_Gemini(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", " key ")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.LLM.Provider)
	assert.Equal(t, "key", c.LLM.APIKey)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"postgres without dsn":  {"STORAGE_BACKEND": "postgres"},
		"unknown backend":       {"STORAGE_BACKEND": "redis"},
		"unknown env":           {"APP_ENV": "qa"},
		"production needs auth": {"APP_ENV": "production"},
		"unknown provider":      {"LLM_PROVIDER": "claude"},
		"temperature too high":  {"LLM_TEMPERATURE": "3"},
		"zero tokens":           {"LLM_MAX_TOKENS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
