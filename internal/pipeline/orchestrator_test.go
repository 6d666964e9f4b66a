package pipeline

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/docbrief/internal/config"
	"github.com/dgallion1/docbrief/internal/llm"
)

// fakeCounter counts whitespace-separated words.
type fakeCounter struct{}

func (fakeCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// cannedClient answers every request with a valid payload for the pass
// that issued it, keyed off the system prompt.
type cannedClient struct {
	calls []llm.Request
}

func (c *cannedClient) Complete(_ context.Context, req llm.Request) (string, error) {
	c.calls = append(c.calls, req)
	switch {
	case strings.Contains(req.System, "summarization"):
		return `{"summary": "canned summary", "key_decisions": ["decide"], "constraints": [], "intent": "testing"}`, nil
	case strings.Contains(req.System, "action extraction"):
		return `[{"task": "Do the thing", "priority": "high"}]`, nil
	default:
		return `{"open_questions": ["why?"], "assumptions": [], "missing_data": [], "risks": [{"title": "Canned risk"}]}`, nil
	}
}

func testConfig() config.Config {
	return config.Config{
		OpenAIAPIKey: "test-key",
		ModelName:    "test-model",
		MaxTokens:    1024,
		Temperature:  0.7,
		ChunkSize:    100,
		ChunkOverlap: 20,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOrchestrator_SmallDocumentSingleChunk(t *testing.T) {
	client := &cannedClient{}
	o := NewOrchestrator(testConfig(), client, fakeCounter{}, testLogger())

	result, err := o.Process(context.Background(), "A short document. Nothing fancy here.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Metadata.NumChunks != 1 {
		t.Errorf("expected 1 chunk, got %d", result.Metadata.NumChunks)
	}
	if result.Metadata.ChunkingRequired {
		t.Errorf("small document must not require chunking")
	}
	if result.Summary.Summary != "canned summary" {
		t.Errorf("unexpected summary %q", result.Summary.Summary)
	}
	if len(result.Actions) != 1 || result.Actions[0].Task != "Do the thing" {
		t.Errorf("unexpected actions %v", result.Actions)
	}
	if len(result.Risks.Risks) != 1 || result.Risks.Risks[0].Title != "Canned risk" {
		t.Errorf("unexpected risks %v", result.Risks.Risks)
	}
	// One call per pass for a single chunk, no synthesis.
	if len(client.calls) != 3 {
		t.Errorf("expected 3 calls, got %d", len(client.calls))
	}
}

func TestOrchestrator_LaterPassesCarryContext(t *testing.T) {
	client := &cannedClient{}
	o := NewOrchestrator(testConfig(), client, fakeCounter{}, testLogger())

	_, err := o.Process(context.Background(), "A short document.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	actionPrompt := client.calls[1].Prompt
	if !strings.Contains(actionPrompt, "canned summary") {
		t.Errorf("action prompt should carry the summary context")
	}
	riskPrompt := client.calls[2].Prompt
	if !strings.Contains(riskPrompt, "canned summary") || !strings.Contains(riskPrompt, "Do the thing") {
		t.Errorf("risk prompt should carry summary and action context")
	}
}

func TestOrchestrator_LargeDocumentChunks(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("the quick brown fox jumps over the lazy dog again. ")
	}

	client := &cannedClient{}
	o := NewOrchestrator(testConfig(), client, fakeCounter{}, testLogger())

	result, err := o.Process(context.Background(), b.String(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Metadata.ChunkingRequired {
		t.Fatalf("expected chunking for a 600-token document")
	}
	if result.Metadata.NumChunks < 2 {
		t.Errorf("expected multiple chunks, got %d", result.Metadata.NumChunks)
	}
	// Duplicate per-chunk results collapse after dedup.
	if len(result.Actions) != 1 {
		t.Errorf("expected deduplicated actions, got %v", result.Actions)
	}
	if len(result.Risks.OpenQuestions) != 1 {
		t.Errorf("expected unioned open questions, got %v", result.Risks.OpenQuestions)
	}
}

func TestOrchestrator_ProgressTransitions(t *testing.T) {
	type transition struct {
		stage Stage
		state State
	}
	var seen []transition

	client := &cannedClient{}
	o := NewOrchestrator(testConfig(), client, fakeCounter{}, testLogger())

	_, err := o.Process(context.Background(), "Short text.", func(stage Stage, state State) {
		seen = append(seen, transition{stage, state})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []transition{
		{StagePreprocessing, StateProcessing},
		{StagePreprocessing, StateComplete},
		{StageSummary, StateProcessing},
		{StageSummary, StateComplete},
		{StageAction, StateProcessing},
		{StageAction, StateComplete},
		{StageRisk, StateProcessing},
		{StageRisk, StateComplete},
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %v", len(want), len(seen), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("transition %d: expected %v, got %v", i, want[i], seen[i])
		}
	}
}

func TestOrchestrator_InvalidConfigurationRefusesToRun(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIAPIKey = ""

	client := &cannedClient{}
	o := NewOrchestrator(cfg, client, fakeCounter{}, testLogger())

	if _, err := o.Process(context.Background(), "text", nil); err == nil {
		t.Fatalf("expected an error for missing credentials")
	}
	if len(client.calls) != 0 {
		t.Errorf("no calls should be issued without valid configuration")
	}
}
