package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docbrief/internal/chunker"
	"github.com/dgallion1/docbrief/internal/llm"
)

const riskSystem = `You are a risk analysis assistant that identifies potential problems, gaps, and uncertainties in documents.

Your task is to:
1. Identify all unresolved questions or unclear points
2. Detect missing information or data gaps
3. Identify assumptions being made (explicit or implicit)
4. Flag potential risks, challenges, or concerns
5. Categorize risks by severity and type

You MUST respond with a valid JSON object in this exact format:
{
    "open_questions": ["Question or unclear point that needs resolution"],
    "assumptions": ["Assumption being made (what is taken for granted)"],
    "missing_data": ["Information that is needed but not provided"],
    "risks": [
        {
            "title": "Brief risk title",
            "description": "Detailed description of the risk",
            "severity": "high|medium|low",
            "type": "technical|resource|timeline|scope|dependency|other",
            "mitigation": "Suggested mitigation if obvious, or 'To be determined'"
        }
    ]
}

Severity guidelines:
- high: could cause project failure, major delays, or significant issues
- medium: could cause moderate problems or delays
- low: minor concerns or nice-to-have clarifications

Look for questions that remain unanswered, decisions not yet made,
information referenced but not provided, implicit assumptions, potential
bottlenecks, dependencies on uncertain factors, and conflicting
requirements. It is better to flag potential issues than to miss them.`

// RiskExtractor is the third extraction pass: risks, open questions,
// assumptions, and missing data.
type RiskExtractor struct {
	client      llm.Client
	model       string
	temperature float32
	maxTokens   int
	log         *slog.Logger
}

func NewRiskExtractor(client llm.Client, model string, temperature float32, maxTokens int, log *slog.Logger) *RiskExtractor {
	return &RiskExtractor{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		log:         log,
	}
}

// ProcessDocument analyzes a single piece of text for risks and open
// issues. Service or parse failures yield the empty record, never an
// error. The top-5 cap is a prompt instruction only.
func (r *RiskExtractor) ProcessDocument(ctx context.Context, text string, extCtx *Context) RiskRecord {
	prompt := fmt.Sprintf(`Please analyze the following document and identify all risks, open questions, and assumptions:

DOCUMENT:
%s
`, text)

	if extCtx != nil {
		if body, err := json.MarshalIndent(extCtx, "", "  "); err == nil {
			prompt += fmt.Sprintf(`
ADDITIONAL CONTEXT:
%s

Use this context to identify risks related to the summary insights and action items.
`, body)
		}
	}

	prompt += `
Extract specifically:
1. Potential risks (severity: high/medium/low)
2. Open questions/ambiguities
3. Missing information
4. Key assumptions made

LIMIT TO THE TOP 5 MOST CRITICAL RISKS ONLY. BE CONCISE.
Focus on high-impact items to ensure the response fits within limits.

Remember to respond with a valid JSON object containing open_questions, assumptions, missing_data, and risks.`

	content, err := r.client.Complete(ctx, llm.Request{
		Model:       r.model,
		System:      riskSystem,
		Prompt:      prompt,
		Temperature: r.temperature,
		MaxTokens:   r.maxTokens,
	})
	if err != nil {
		r.log.Error("risk extraction call failed", "error", err)
		return emptyRiskRecord()
	}
	return parseRiskRecord(content)
}

// ProcessChunks analyzes every chunk and merges the records: the three
// string fields are unioned with duplicates removed, risks are
// deduplicated by title keeping first occurrence in chunk order.
func (r *RiskExtractor) ProcessChunks(ctx context.Context, chunks []chunker.Chunk, extCtx *Context) RiskRecord {
	var questions, assumptions, missing [][]string
	var allRisks []Risk

	for _, ch := range chunks {
		rec := r.ProcessDocument(ctx, ch.Text, extCtx)
		questions = append(questions, rec.OpenQuestions)
		assumptions = append(assumptions, rec.Assumptions)
		missing = append(missing, rec.MissingData)
		allRisks = append(allRisks, rec.Risks...)
	}

	return RiskRecord{
		OpenQuestions: uniqueStrings(questions...),
		Assumptions:   uniqueStrings(assumptions...),
		MissingData:   uniqueStrings(missing...),
		Risks:         dedupeRisks(allRisks),
	}
}

// dedupeRisks removes duplicate risks by case-insensitive trimmed title,
// keeping the first occurrence.
func dedupeRisks(risks []Risk) []Risk {
	if len(risks) <= 1 {
		if risks == nil {
			return []Risk{}
		}
		return risks
	}

	seen := make(map[string]bool, len(risks))
	out := make([]Risk, 0, len(risks))
	for _, risk := range risks {
		key := dedupeKey(risk.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, risk)
	}
	return out
}
