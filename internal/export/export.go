package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/docbrief/internal/extract"
	"github.com/dgallion1/docbrief/internal/pipeline"
)

// ResultJSON serializes a DocumentResult losslessly as indented JSON.
func ResultJSON(res *pipeline.DocumentResult) ([]byte, error) {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return data, nil
}

// noDependencies is rendered in place of an empty dependency list.
const noDependencies = "None"

// ActionsCSV renders action items as a flat table with columns
// Task/Owner/Deadline/Dependencies. Dependencies are joined with commas.
func ActionsCSV(items []extract.ActionItem) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Task", "Owner", "Deadline", "Dependencies"}); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range items {
		deps := noDependencies
		if len(item.Dependencies) > 0 {
			deps = strings.Join(item.Dependencies, ", ")
		}
		if err := w.Write([]string{item.Task, item.Owner, item.Deadline, deps}); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}
