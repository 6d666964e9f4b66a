package extract

import "strings"

// SummaryRecord is the summary pass output.
type SummaryRecord struct {
	Summary      string   `json:"summary"`
	KeyDecisions []string `json:"key_decisions"`
	Constraints  []string `json:"constraints"`
	Intent       string   `json:"intent"`
}

// ActionItem is one actionable task extracted from a document.
type ActionItem struct {
	Task         string   `json:"task"`
	Owner        string   `json:"owner"`
	Deadline     string   `json:"deadline"`
	Dependencies []string `json:"dependencies"`
	Priority     string   `json:"priority"`
	Status       string   `json:"status"`
}

// Risk is one identified risk with severity and type classification.
type Risk struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Type        string `json:"type"`
	Mitigation  string `json:"mitigation"`
}

// RiskRecord is the risk pass output.
type RiskRecord struct {
	OpenQuestions []string `json:"open_questions"`
	Assumptions   []string `json:"assumptions"`
	MissingData   []string `json:"missing_data"`
	Risks         []Risk   `json:"risks"`
}

// Context carries prior-pass aggregate output forward to later passes
// within the same document run.
type Context struct {
	Summary      string       `json:"summary"`
	Intent       string       `json:"intent"`
	KeyDecisions []string     `json:"key_decisions"`
	ActionItems  []ActionItem `json:"action_items,omitempty"`
}

// normalizeSummary fills documented defaults so no field is ever absent.
func normalizeSummary(r SummaryRecord) SummaryRecord {
	if r.Summary == "" {
		r.Summary = "Summary not available"
	}
	if r.KeyDecisions == nil {
		r.KeyDecisions = []string{}
	}
	if r.Constraints == nil {
		r.Constraints = []string{}
	}
	if r.Intent == "" {
		r.Intent = "Intent not specified"
	}
	return r
}

// normalizeAction fills documented defaults for an action item.
func normalizeAction(a ActionItem) ActionItem {
	if a.Task == "" {
		a.Task = "Unspecified task"
	}
	if a.Owner == "" {
		a.Owner = "Not specified"
	}
	if a.Deadline == "" {
		a.Deadline = "Not specified"
	}
	if a.Dependencies == nil {
		a.Dependencies = []string{}
	}
	if a.Priority == "" {
		a.Priority = "medium"
	}
	if a.Status == "" {
		a.Status = "pending"
	}
	return a
}

// normalizeRisk fills documented defaults for a risk.
func normalizeRisk(r Risk) Risk {
	if r.Title == "" {
		r.Title = "Untitled Risk"
	}
	if r.Description == "" {
		r.Description = "No description"
	}
	if r.Severity == "" {
		r.Severity = "medium"
	}
	if r.Type == "" {
		r.Type = "other"
	}
	if r.Mitigation == "" {
		r.Mitigation = "To be determined"
	}
	return r
}

// normalizeRiskRecord makes every field of a risk record present.
func normalizeRiskRecord(r RiskRecord) RiskRecord {
	if r.OpenQuestions == nil {
		r.OpenQuestions = []string{}
	}
	if r.Assumptions == nil {
		r.Assumptions = []string{}
	}
	if r.MissingData == nil {
		r.MissingData = []string{}
	}
	if r.Risks == nil {
		r.Risks = []Risk{}
	}
	for i := range r.Risks {
		r.Risks[i] = normalizeRisk(r.Risks[i])
	}
	return r
}

// emptyRiskRecord is the risk pass's defined empty result.
func emptyRiskRecord() RiskRecord {
	return RiskRecord{
		OpenQuestions: []string{},
		Assumptions:   []string{},
		MissingData:   []string{},
		Risks:         []Risk{},
	}
}

// dedupeKey is the identity used for action/risk deduplication.
func dedupeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// uniqueStrings unions string lists, dropping exact-match duplicates while
// keeping first occurrence.
func uniqueStrings(lists ...[]string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, list := range lists {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
