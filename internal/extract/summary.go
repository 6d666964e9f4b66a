package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docbrief/internal/chunker"
	"github.com/dgallion1/docbrief/internal/llm"
)

const summarySystem = `You are a summarization assistant that analyzes documents and produces concise, context-aware summaries.

Your task is to:
1. Read the provided document carefully
2. Extract the main intent and purpose
3. Identify all critical decisions mentioned or implied
4. Note any constraints, limitations, or requirements
5. Generate a concise summary (150-200 words) that preserves all essential information

You MUST respond with a valid JSON object in this exact format:
{
    "summary": "A concise summary of the document preserving intent and key points",
    "key_decisions": ["Decision 1", "Decision 2"],
    "constraints": ["Constraint 1", "Constraint 2"],
    "intent": "The primary purpose or goal of this document"
}

Be precise and factual. Do not add information not present in the document.`

// Summarizer is the first extraction pass: a context-aware summary with
// key decisions and constraints.
type Summarizer struct {
	client      llm.Client
	model       string
	temperature float32
	maxTokens   int
	log         *slog.Logger
}

func NewSummarizer(client llm.Client, model string, temperature float32, maxTokens int, log *slog.Logger) *Summarizer {
	return &Summarizer{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		log:         log,
	}
}

// ProcessDocument summarizes a single piece of text. Service failures are
// absorbed into a diagnostic record; this never returns an error.
func (s *Summarizer) ProcessDocument(ctx context.Context, text string) SummaryRecord {
	prompt := fmt.Sprintf(`Please analyze the following document and provide a structured summary:

DOCUMENT:
%s

Remember to respond with a valid JSON object containing: summary, key_decisions, constraints, and intent.`, text)

	content, err := s.client.Complete(ctx, llm.Request{
		Model:       s.model,
		System:      summarySystem,
		Prompt:      prompt,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		s.log.Error("summary call failed", "error", err)
		return s.failureRecord(err)
	}
	return parseSummary(content)
}

// ProcessChunks summarizes every chunk independently, then issues one
// synthesis call combining the partial summaries. If synthesis fails, the
// partials are merged locally instead.
func (s *Summarizer) ProcessChunks(ctx context.Context, chunks []chunker.Chunk) SummaryRecord {
	if len(chunks) == 0 {
		return normalizeSummary(SummaryRecord{})
	}
	if len(chunks) == 1 {
		return s.ProcessDocument(ctx, chunks[0].Text)
	}

	partials := make([]SummaryRecord, 0, len(chunks))
	for _, ch := range chunks {
		partials = append(partials, s.ProcessDocument(ctx, ch.Text))
	}

	body, err := json.MarshalIndent(partials, "", "  ")
	if err != nil {
		return mergeSummaries(partials)
	}

	prompt := fmt.Sprintf(`You have analyzed a long document in %d parts.
Here are the summaries from each part:

%s

Please create a final synthesized summary that:
1. Combines insights from all parts
2. Removes redundancy
3. Preserves all unique key decisions and constraints
4. Maintains the overall intent

Respond with a valid JSON object in the same format.`, len(chunks), body)

	content, err := s.client.Complete(ctx, llm.Request{
		Model:       s.model,
		System:      summarySystem,
		Prompt:      prompt,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		s.log.Warn("summary synthesis failed, merging locally", "error", err)
		return mergeSummaries(partials)
	}
	return parseSummary(content)
}

// failureRecord builds a user-facing record naming the failure condition,
// so quota exhaustion is distinguishable from a misconfigured model.
func (s *Summarizer) failureRecord(err error) SummaryRecord {
	switch llm.Classify(err) {
	case llm.KindRateLimited:
		return SummaryRecord{
			Summary:      "System error: API rate limit exceeded. Please switch models or try again later.",
			KeyDecisions: []string{},
			Constraints:  []string{"API quota reached"},
			Intent:       "Error: rate limit",
		}
	case llm.KindModelNotFound:
		return SummaryRecord{
			Summary:      "System error: model not found (404). The selected model is unavailable.",
			KeyDecisions: []string{},
			Constraints:  []string{"Model unavailable"},
			Intent:       "Error: model not found",
		}
	default:
		return SummaryRecord{
			Summary:      fmt.Sprintf("Error processing document: %s", err),
			KeyDecisions: []string{},
			Constraints:  []string{},
			Intent:       "Error occurred",
		}
	}
}

// mergeSummaries is the deterministic local fallback when the synthesis
// call fails: concatenated summaries, unioned decisions and constraints,
// and the first chunk's intent.
func mergeSummaries(partials []SummaryRecord) SummaryRecord {
	if len(partials) == 0 {
		return normalizeSummary(SummaryRecord{})
	}

	var decisions, constraints [][]string
	combined := ""
	for _, p := range partials {
		if p.Summary != "" {
			if combined != "" {
				combined += " "
			}
			combined += p.Summary
		}
		decisions = append(decisions, p.KeyDecisions)
		constraints = append(constraints, p.Constraints)
	}

	return SummaryRecord{
		Summary:      truncate(combined, 500),
		KeyDecisions: uniqueStrings(decisions...),
		Constraints:  uniqueStrings(constraints...),
		Intent:       partials[0].Intent,
	}
}
