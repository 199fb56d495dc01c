package groq

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Groq client. The API is OpenAI-compatible, so BaseURL can
// point at any compatible endpoint.
type Config struct {
	APIKey         string        // if empty, falls back to env GROQ_API_KEY
	BaseURL        string        // default https://api.groq.com/openai/v1
	Model          string        // chat model
	EmbeddingModel string        // embeddings model
	Temperature    float32       // 0..2
	MaxTokens      int
	Timeout        time.Duration // http client timeout
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "meta-llama/llama-4-scout-17b-16e-instruct"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-ada-002"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.6
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}
