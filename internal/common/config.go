package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Store    StoreConfig
	Render   RenderConfig
	LLM      LLMConfig
	Matching MatchingConfig
}

// StoreConfig holds template-store configuration.
// DSN selects the backend: a postgres:// URL uses the pgvector store, a
// filesystem path uses the sqlite store, empty keeps templates in memory.
type StoreConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// RenderConfig holds page-rasterization configuration.
type RenderConfig struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int
	Width    int
	Height   int
	MaxPages int // 0 = no limit
}

// LLMConfig holds chat-completion and embedding configuration.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	Temperature    float32
	MaxTokens      int
	Timeout        time.Duration
}

// MatchingConfig holds template-matching configuration.
type MatchingConfig struct {
	MinConfidence int // accept a match only at or above this score (0..100)
	SearchLimit   int // broad-retrieval cap standing in for "list all"
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			DSN:              getEnv("STORE_DSN", ""),
			MaxConns:         getEnvAsInt32("STORE_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("STORE_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("STORE_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("STORE_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("STORE_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("STORE_STATEMENT_TIMEOUT", 0),
		},
		Render: RenderConfig{
			Pdftoppm: getEnv("PDFTOPPM_BIN", "pdftoppm"),
			DPI:      getEnvAsInt("RENDER_DPI", 300),
			Width:    getEnvAsInt("RENDER_WIDTH", 2000),
			Height:   getEnvAsInt("RENDER_HEIGHT", 2800),
			MaxPages: getEnvAsInt("RENDER_MAX_PAGES", 0),
		},
		LLM: LLMConfig{
			APIKey:         getEnv("GROQ_API_KEY", ""),
			BaseURL:        getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:          getEnv("GROQ_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
			Temperature:    getEnvAsFloat32("GROQ_TEMPERATURE", 0.6),
			MaxTokens:      getEnvAsInt("GROQ_MAX_TOKENS", 4096),
			Timeout:        getEnvAsDuration("GROQ_TIMEOUT", 120*time.Second),
		},
		Matching: MatchingConfig{
			MinConfidence: getEnvAsInt("MATCH_MIN_CONFIDENCE", 70),
			SearchLimit:   getEnvAsInt("MATCH_SEARCH_LIMIT", 1000),
		},
	}
}

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GROQ_API_KEY is required", ErrInvalidInput)
	}
	if c.Matching.MinConfidence < 0 || c.Matching.MinConfidence > 100 {
		return NewAppError("CONFIG_ERROR", "MATCH_MIN_CONFIDENCE must be in 0..100", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
