package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Model responses are noisy: payloads arrive fenced, labeled, or buried in
// prose. The helpers here recover the first embedded JSON payload and never
// let a malformed response escape as an error; callers fall back to their
// pass's empty result instead.

var (
	labeledFenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	genericFenceRe = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// extractPayload locates a structured payload in raw response text, trying
// a labeled ```json fence, then any fence, then the bare substring between
// the first open delimiter and the last close delimiter.
func extractPayload(content string, open, close byte) (string, bool) {
	if m := labeledFenceRe.FindStringSubmatch(content); len(m) > 1 && m[1] != "" {
		return m[1], true
	}
	if m := genericFenceRe.FindStringSubmatch(content); len(m) > 1 && m[1] != "" {
		return m[1], true
	}
	start := strings.IndexByte(content, open)
	end := strings.LastIndexByte(content, close)
	if start >= 0 && end > start {
		return content[start : end+1], true
	}
	return "", false
}

// parseSummary recovers a SummaryRecord from a model response. When no
// parseable payload exists, the raw content (bounded) becomes the summary
// so the caller still sees something human-readable.
func parseSummary(content string) SummaryRecord {
	if payload, ok := extractPayload(content, '{', '}'); ok {
		var rec SummaryRecord
		if err := json.Unmarshal([]byte(payload), &rec); err == nil {
			return normalizeSummary(rec)
		}
	}
	return SummaryRecord{
		Summary:      truncate(content, 500),
		KeyDecisions: []string{},
		Constraints:  []string{},
		Intent:       "Unable to parse structured response",
	}
}

// parseActions recovers a list of action items from a model response. A
// single object where a list was expected is coerced into a one-element
// list. Malformed payloads yield the empty result.
func parseActions(content string) []ActionItem {
	if payload, ok := extractPayload(content, '[', ']'); ok {
		var items []ActionItem
		if err := json.Unmarshal([]byte(payload), &items); err == nil {
			return normalizeActions(items)
		}
		var single ActionItem
		if err := json.Unmarshal([]byte(payload), &single); err == nil {
			return normalizeActions([]ActionItem{single})
		}
	}
	if payload, ok := extractPayload(content, '{', '}'); ok {
		var single ActionItem
		if err := json.Unmarshal([]byte(payload), &single); err == nil {
			return normalizeActions([]ActionItem{single})
		}
	}
	return []ActionItem{}
}

func normalizeActions(items []ActionItem) []ActionItem {
	out := make([]ActionItem, 0, len(items))
	for _, a := range items {
		out = append(out, normalizeAction(a))
	}
	return out
}

// parseRiskRecord recovers a RiskRecord from a model response, falling back
// to the empty record on any parse failure.
func parseRiskRecord(content string) RiskRecord {
	if payload, ok := extractPayload(content, '{', '}'); ok {
		var rec RiskRecord
		if err := json.Unmarshal([]byte(payload), &rec); err == nil {
			return normalizeRiskRecord(rec)
		}
	}
	return emptyRiskRecord()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
