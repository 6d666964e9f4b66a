package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// OpenRouterBaseURL is the alternate endpoint used when OpenRouter is the
// selected provider.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

type Config struct {
	Port string

	// Auth for the HTTP API. Empty disables auth (local use).
	DocbriefAPIKey string

	// Generation service providers.
	OpenAIAPIKey      string
	UseOpenRouter     bool
	OpenRouterAPIKey  string
	UseLocalModel     bool
	LocalModelBaseURL string
	LocalModelName    string

	// Model settings.
	ModelName   string
	MaxTokens   int
	Temperature float64

	// Chunking.
	ChunkSize    int
	ChunkOverlap int

	// Upload limits.
	MaxUploadBytes int64

	// Worker pool and job state.
	WorkerCount  int
	MaxQueueSize int
	JobTTL       time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DocbriefAPIKey: os.Getenv("DOCBRIEF_API_KEY"),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		UseOpenRouter:     envBool("USE_OPENROUTER", false),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		UseLocalModel:     envBool("USE_LOCAL_MODEL", false),
		LocalModelBaseURL: envOr("LOCAL_MODEL_BASE_URL", "http://localhost:11434/v1"),
		LocalModelName:    os.Getenv("LOCAL_MODEL_NAME"),

		ModelName:   envOr("MODEL_NAME", "gpt-4o-mini"),
		MaxTokens:   envInt("MAX_TOKENS", 4096),
		Temperature: envFloat("TEMPERATURE", 0.7),

		ChunkSize:    envInt("CHUNK_SIZE", 1000),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),
		JobTTL:       envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks that credentials for the selected provider are present.
func (c Config) Validate() error {
	switch {
	case c.UseOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY is required when USE_OPENROUTER is set")
		}
	case c.UseLocalModel:
		if c.LocalModelBaseURL == "" || c.LocalModelName == "" {
			return fmt.Errorf("LOCAL_MODEL_BASE_URL and LOCAL_MODEL_NAME are required when USE_LOCAL_MODEL is set")
		}
	default:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	}
	return nil
}

// Provider returns the API key, base URL override (empty for the default
// endpoint), and model identifier for the selected provider.
func (c Config) Provider() (apiKey, baseURL, model string) {
	switch {
	case c.UseOpenRouter:
		return c.OpenRouterAPIKey, OpenRouterBaseURL, c.ModelName
	case c.UseLocalModel:
		return "not-needed", c.LocalModelBaseURL, c.LocalModelName
	default:
		return c.OpenAIAPIKey, "", c.ModelName
	}
}

// StageTemperature returns the sampling temperature for an extraction
// stage: focused for summaries, precise for actions, more exploratory for
// risk identification.
func (c Config) StageTemperature(stage string) float32 {
	switch stage {
	case "summary":
		return 0.5
	case "action":
		return 0.3
	case "risk":
		return 0.7
	}
	return float32(c.Temperature)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
