package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docbrief/internal/chunker"
	"github.com/dgallion1/docbrief/internal/llm"
)

const actionSystem = `You are an action extraction assistant that identifies actionable tasks in documents.

Your task is to:
1. Read the document carefully
2. Identify all explicit and implicit action items
3. Extract or infer task owners (people or roles responsible)
4. Extract or infer deadlines (dates, timeframes, or relative timing)
5. Identify dependencies between tasks (what must be done before what)

You MUST respond with a valid JSON array of action items in this exact format:
[
    {
        "task": "Clear description of what needs to be done",
        "owner": "Person/role responsible (or 'Not specified')",
        "deadline": "Specific date or timeframe (or 'Not specified')",
        "dependencies": ["Description of prerequisite tasks"],
        "priority": "high|medium|low",
        "status": "pending|in-progress|blocked"
    }
]

Guidelines:
- Extract ONLY actionable items (things that need to be done)
- If owner/deadline is not mentioned, use "Not specified"
- Dependencies can be an empty array [] if the task is independent
- Infer priority from context (urgency, importance, consequences)
- Status is usually "pending" unless the document indicates otherwise
- Include both explicit tasks ("John will do X") and implicit ones ("We need to verify Y")

Be thorough but precise. Do not invent tasks not implied by the document.`

// ActionExtractor is the second extraction pass: actionable tasks with
// owners, deadlines, and dependencies.
type ActionExtractor struct {
	client      llm.Client
	model       string
	temperature float32
	maxTokens   int
	log         *slog.Logger
}

func NewActionExtractor(client llm.Client, model string, temperature float32, maxTokens int, log *slog.Logger) *ActionExtractor {
	return &ActionExtractor{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		log:         log,
	}
}

// ProcessDocument extracts action items from a single piece of text.
// Service or parse failures yield the empty list, never an error. The
// top-5 cap is a prompt instruction only; responses returning more items
// are not truncated here.
func (a *ActionExtractor) ProcessDocument(ctx context.Context, text string, extCtx *Context) []ActionItem {
	prompt := fmt.Sprintf(`Analyze the following document and identify actionable tasks:

DOCUMENT:
%s

Extract specifically:
- Actionable tasks
- Owners
- Deadlines
- Dependencies
- Priority (high/medium/low)

LIMIT TO THE TOP 5 MOST CRITICAL ACTIONS ONLY.
KEEP DESCRIPTIONS SHORT (under 15 words).
Focus on high-impact items to ensure the response fits within limits.`, text)

	if extCtx != nil {
		if body, err := json.MarshalIndent(extCtx, "", "  "); err == nil {
			prompt += fmt.Sprintf(`

ADDITIONAL CONTEXT (from summary):
%s

Use this context to better understand the document's intent and identify implicit actions.`, body)
		}
	}

	prompt += "\n\nRemember to respond with a valid JSON array of action items."

	content, err := a.client.Complete(ctx, llm.Request{
		Model:       a.model,
		System:      actionSystem,
		Prompt:      prompt,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		a.log.Error("action extraction call failed", "error", err)
		return []ActionItem{}
	}
	return parseActions(content)
}

// ProcessChunks extracts action items from every chunk in order and merges
// them, deduplicating by task text.
func (a *ActionExtractor) ProcessChunks(ctx context.Context, chunks []chunker.Chunk, extCtx *Context) []ActionItem {
	var all []ActionItem
	for _, ch := range chunks {
		all = append(all, a.ProcessDocument(ctx, ch.Text, extCtx)...)
	}
	return dedupeActions(all)
}

// dedupeActions removes duplicate action items by case-insensitive trimmed
// task text, keeping the first occurrence in chunk order.
func dedupeActions(items []ActionItem) []ActionItem {
	if len(items) <= 1 {
		if items == nil {
			return []ActionItem{}
		}
		return items
	}

	seen := make(map[string]bool, len(items))
	out := make([]ActionItem, 0, len(items))
	for _, item := range items {
		key := dedupeKey(item.Task)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
