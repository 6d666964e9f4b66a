package config

import (
	"testing"
	"time"
)

func TestValidate_ProviderCredentials(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"openai with key", Config{OpenAIAPIKey: "sk-x"}, false},
		{"openai missing key", Config{}, true},
		{"openrouter with key", Config{UseOpenRouter: true, OpenRouterAPIKey: "or-x"}, false},
		{"openrouter missing key", Config{UseOpenRouter: true}, true},
		{"local complete", Config{UseLocalModel: true, LocalModelBaseURL: "http://localhost:11434/v1", LocalModelName: "llama3"}, false},
		{"local missing name", Config{UseLocalModel: true, LocalModelBaseURL: "http://localhost:11434/v1"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestProvider_Selection(t *testing.T) {
	cfg := Config{OpenAIAPIKey: "sk-x", ModelName: "gpt-4o-mini"}
	key, base, model := cfg.Provider()
	if key != "sk-x" || base != "" || model != "gpt-4o-mini" {
		t.Errorf("openai: got %q %q %q", key, base, model)
	}

	cfg = Config{UseOpenRouter: true, OpenRouterAPIKey: "or-x", ModelName: "meta/llama"}
	key, base, model = cfg.Provider()
	if key != "or-x" || base != OpenRouterBaseURL || model != "meta/llama" {
		t.Errorf("openrouter: got %q %q %q", key, base, model)
	}

	cfg = Config{UseLocalModel: true, LocalModelBaseURL: "http://localhost:11434/v1", LocalModelName: "llama3"}
	key, base, model = cfg.Provider()
	if base != "http://localhost:11434/v1" || model != "llama3" {
		t.Errorf("local: got %q %q %q", key, base, model)
	}
	if key == "" {
		t.Errorf("local provider should still pass a placeholder key")
	}
}

func TestStageTemperature(t *testing.T) {
	cfg := Config{Temperature: 0.9}
	if got := cfg.StageTemperature("summary"); got != 0.5 {
		t.Errorf("summary: expected 0.5, got %v", got)
	}
	if got := cfg.StageTemperature("action"); got != 0.3 {
		t.Errorf("action: expected 0.3, got %v", got)
	}
	if got := cfg.StageTemperature("risk"); got != 0.7 {
		t.Errorf("risk: expected 0.7, got %v", got)
	}
	if got := cfg.StageTemperature("other"); got != float32(0.9) {
		t.Errorf("fallback: expected 0.9, got %v", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Isolate from ambient environment.
	for _, key := range []string{"PORT", "CHUNK_SIZE", "CHUNK_OVERLAP", "WORKER_COUNT", "MAX_QUEUE_SIZE", "JOB_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 100 {
		t.Errorf("expected default chunking 1000/100, got %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.WorkerCount != 2 || cfg.MaxQueueSize != 100 {
		t.Errorf("expected default workers 2 and queue 100, got %d/%d", cfg.WorkerCount, cfg.MaxQueueSize)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected default job ttl 1h, got %v", cfg.JobTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("CHUNK_SIZE", "500")
	t.Setenv("USE_OPENROUTER", "true")
	t.Setenv("JOB_TTL", "30m")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("expected port override, got %q", cfg.Port)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("expected chunk size override, got %d", cfg.ChunkSize)
	}
	if !cfg.UseOpenRouter {
		t.Errorf("expected openrouter enabled")
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("expected 30m job ttl, got %v", cfg.JobTTL)
	}
}

func TestLoad_ClampsNonsenseValues(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "-5")
	t.Setenv("WORKER_COUNT", "0")

	cfg := Load()
	if cfg.ChunkSize != 1000 {
		t.Errorf("negative chunk size should fall back to default, got %d", cfg.ChunkSize)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("zero workers should fall back to default, got %d", cfg.WorkerCount)
	}
}
