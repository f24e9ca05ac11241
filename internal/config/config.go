package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     string

	DBType      string
	DBDSN       string
	FileSymptom string
	FileFields  string

	AuthServiceURL string
	AuthAPIKey     string
	AuthJWTSecret  string
	AuthDevToken   string

	CORSOrigins []string

	LLM LLMConfig
}

// LLMConfig selects and tunes the completion service. An empty APIKey is
// allowed at startup; insight requests then fail with a configuration error.
type LLMConfig struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		c, err := FromEnv()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// FromEnv reads the configuration from the process environment without
// touching .env or the cached value returned by Load.
func FromEnv() (*Config, error) {
	c := &Config{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8088"),
		DBType:         getEnv("STORAGE_BACKEND", "file"),
		DBDSN:          getEnv("POSTGRES_DSN", ""),
		FileSymptom:    getEnv("SYMPTOMS_FILE", "data/symptoms.json"),
		FileFields:     getEnv("FIELDS_FILE", "data/custom_fields.json"),
		AuthServiceURL: getEnv("AUTH_SERVICE_URL", ""),
		AuthAPIKey:     getEnv("AUTH_API_KEY", ""),
		AuthJWTSecret:  getEnv("AUTH_JWT_SECRET", ""),
		AuthDevToken:   getEnv("AUTH_DEV_TOKEN", "MOCK-TOKEN"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LLM:            llmFromEnv(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func llmFromEnv() LLMConfig {
	l := LLMConfig{
		Provider:    strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		MaxTokens:   getInt("LLM_MAX_TOKENS", 1500),
		Temperature: getFloat("LLM_TEMPERATURE", 0.3),
		Timeout:     time.Duration(getInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
	}
	switch l.Provider {
	case "gemini":
		l.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		l.Model = getEnv("GEMINI_MODEL", "gemini-2.0-flash")
	default:
		l.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		l.BaseURL = getEnv("OPENAI_BASE_URL", "https://api.openai.com")
		l.Model = getEnv("OPENAI_MODEL", "gpt-4")
	}
	return l
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileSymptom == "" || c.FileFields == "") {
		return errors.New("File storage requires SYMPTOMS_FILE and FIELDS_FILE to be set")
	}
	if c.DBType != "file" && c.DBType != "postgres" {
		return errors.New("STORAGE_BACKEND must be one of: file, postgres")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	if c.LLM.Provider != "openai" && c.LLM.Provider != "gemini" {
		return errors.New("LLM_PROVIDER must be one of: openai, gemini")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("LLM_MAX_TOKENS must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("LLM_TEMPERATURE must be between 0 and 2")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
