package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docbrief/internal/chunker"
	"github.com/dgallion1/docbrief/internal/config"
	"github.com/dgallion1/docbrief/internal/extract"
	"github.com/dgallion1/docbrief/internal/llm"
)

// Stage names one step of a document run.
type Stage string

const (
	StagePreprocessing Stage = "preprocessing"
	StageSummary       Stage = "summary"
	StageAction        Stage = "action"
	StageRisk          Stage = "risk"
)

// State is the lifecycle of one stage within a run.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateComplete   State = "complete"
)

// ProgressFunc is the progress-notification hook, invoked synchronously
// after every stage transition. It may be nil.
type ProgressFunc func(stage Stage, state State)

// Metadata describes the segmentation of one processed document.
type Metadata struct {
	DocumentLength   int  `json:"document_length"`
	TotalTokens      int  `json:"total_tokens"`
	NumChunks        int  `json:"num_chunks"`
	ChunkingRequired bool `json:"chunking_required"`
}

// DocumentResult aggregates the three pass outputs for one document run.
// It is owned by the caller after return; the Orchestrator keeps no
// reference.
type DocumentResult struct {
	Summary  extract.SummaryRecord `json:"summary"`
	Actions  []extract.ActionItem  `json:"actions"`
	Risks    extract.RiskRecord    `json:"risks"`
	Metadata Metadata              `json:"metadata"`
}

// Orchestrator sequences segmentation and the three extraction passes for
// one document at a time. Passes run strictly in order because each later
// pass's prompt embeds the previous pass's aggregate output.
type Orchestrator struct {
	cfg        config.Config
	chunker    *chunker.Chunker
	summarizer *extract.Summarizer
	actions    *extract.ActionExtractor
	risks      *extract.RiskExtractor
	log        *slog.Logger
}

// NewOrchestrator wires the segmenter and the three passes against one
// generation client.
func NewOrchestrator(cfg config.Config, client llm.Client, counter chunker.TokenCounter, log *slog.Logger) *Orchestrator {
	_, _, model := cfg.Provider()
	return &Orchestrator{
		cfg: cfg,
		chunker: chunker.New(counter, chunker.Config{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
		}),
		summarizer: extract.NewSummarizer(client, model, cfg.StageTemperature("summary"), cfg.MaxTokens, log),
		actions:    extract.NewActionExtractor(client, model, cfg.StageTemperature("action"), cfg.MaxTokens, log),
		risks:      extract.NewRiskExtractor(client, model, cfg.StageTemperature("risk"), cfg.MaxTokens, log),
		log:        log,
	}
}

// ValidateConfiguration reports whether required service credentials are
// present. A failed check means Process must not start.
func (o *Orchestrator) ValidateConfiguration() error {
	if err := o.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Process runs the full pipeline over one document. It fails only when
// configuration validation fails; every per-pass failure degrades into an
// empty or diagnostic result instead of aborting the run.
func (o *Orchestrator) Process(ctx context.Context, documentText string, progress ProgressFunc) (*DocumentResult, error) {
	if err := o.ValidateConfiguration(); err != nil {
		return nil, err
	}

	report := func(stage Stage, state State) {
		if progress != nil {
			progress(stage, state)
		}
	}

	report(StagePreprocessing, StateProcessing)
	doc := o.chunker.Process(documentText)
	report(StagePreprocessing, StateComplete)
	o.log.Info("segmented document",
		"words", doc.Metadata.TotalWords,
		"tokens", doc.Metadata.TotalTokens,
		"chunks", doc.NumChunks,
		"chunking_required", doc.RequiresChunking,
	)

	report(StageSummary, StateProcessing)
	summary := o.summarizer.ProcessChunks(ctx, doc.Chunks)
	report(StageSummary, StateComplete)

	report(StageAction, StateProcessing)
	actionCtx := &extract.Context{
		Summary:      summary.Summary,
		Intent:       summary.Intent,
		KeyDecisions: summary.KeyDecisions,
	}
	actions := o.actions.ProcessChunks(ctx, doc.Chunks, actionCtx)
	report(StageAction, StateComplete)

	report(StageRisk, StateProcessing)
	riskCtx := &extract.Context{
		Summary:      summary.Summary,
		Intent:       summary.Intent,
		KeyDecisions: summary.KeyDecisions,
		ActionItems:  actions,
	}
	risks := o.risks.ProcessChunks(ctx, doc.Chunks, riskCtx)
	report(StageRisk, StateComplete)

	return &DocumentResult{
		Summary: summary,
		Actions: actions,
		Risks:   risks,
		Metadata: Metadata{
			DocumentLength:   doc.Metadata.TotalWords,
			TotalTokens:      doc.Metadata.TotalTokens,
			NumChunks:        doc.NumChunks,
			ChunkingRequired: doc.RequiresChunking,
		},
	}, nil
}
