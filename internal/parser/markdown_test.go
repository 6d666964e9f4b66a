package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsAndParagraphs(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	text, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Title", "Intro text.", "Section A", "Section A content.", "Section B", "Section B content."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got %q", want, text)
		}
	}
	if strings.Contains(text, "#") {
		t.Errorf("markup should be stripped, got %q", text)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "Just some plain text.\n\nAnother paragraph."
	p := &MarkdownParser{}
	text, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Just some plain text.") || !strings.Contains(text, "Another paragraph.") {
		t.Errorf("expected both paragraphs, got %q", text)
	}
}

func TestMarkdownParser_ListItems(t *testing.T) {
	input := "## Tasks\n\n- buy milk\n- call Ana\n"
	p := &MarkdownParser{}
	text, err := p.Parse(strings.NewReader(input), "tasks.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "buy milk") || !strings.Contains(text, "call Ana") {
		t.Errorf("expected list items in output, got %q", text)
	}
}

func TestMarkdownParser_Empty(t *testing.T) {
	p := &MarkdownParser{}
	text, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty output, got %q", text)
	}
}
