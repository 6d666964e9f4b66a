package chunker

import (
	"fmt"
	"strings"
	"testing"
)

// wordCounter counts whitespace-separated words, giving deterministic
// token counts without loading a real encoding.
type wordCounter struct{}

func (wordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

func TestCleanText_CollapsesWhitespace(t *testing.T) {
	in := "  hello \t world \n\n again  "
	got := CleanText(in)
	if got != "hello world again" {
		t.Errorf("expected %q, got %q", "hello world again", got)
	}
}

func TestSplitSentences_ReattachesPunctuation(t *testing.T) {
	sentences := SplitSentences("First one. Second one! Third one? No terminator")
	want := []string{"First one.", "Second one!", "Third one?", "No terminator"}
	if len(sentences) != len(want) {
		t.Fatalf("expected %d sentences, got %d: %v", len(want), len(sentences), sentences)
	}
	for i := range want {
		if sentences[i] != want[i] {
			t.Errorf("sentence %d: expected %q, got %q", i, want[i], sentences[i])
		}
	}
}

func TestCreateChunks_SmallDocumentIsSingleCompleteChunk(t *testing.T) {
	c := New(wordCounter{}, Config{ChunkSize: 100, ChunkOverlap: 10})
	text := "One two three. Four five six."

	chunks := c.CreateChunks(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !chunks[0].IsCompleteDocument {
		t.Errorf("expected IsCompleteDocument for a document under budget")
	}
	if chunks[0].ChunkID != 0 {
		t.Errorf("expected chunk id 0, got %d", chunks[0].ChunkID)
	}
	if chunks[0].Tokens != 6 {
		t.Errorf("expected 6 tokens, got %d", chunks[0].Tokens)
	}
}

func TestCreateChunks_EmptyInput(t *testing.T) {
	c := New(wordCounter{}, DefaultConfig())
	if chunks := c.CreateChunks("   \n\t "); chunks != nil {
		t.Errorf("expected nil chunks for blank input, got %v", chunks)
	}
}

func TestCreateChunks_LargeDocumentSplitsOnSentences(t *testing.T) {
	// 50 sentences of 9 words each, 450 tokens total.
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("one two three four five six seven eight nine. ")
	}

	c := New(wordCounter{}, Config{ChunkSize: 100, ChunkOverlap: 20})
	chunks := c.CreateChunks(b.String())

	if len(chunks) < 4 {
		t.Fatalf("expected at least 4 chunks for a 450-token document, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.ChunkID != i {
			t.Errorf("chunk %d: expected id %d, got %d", i, i, ch.ChunkID)
		}
		if ch.IsCompleteDocument {
			t.Errorf("chunk %d: IsCompleteDocument should be false when splitting", i)
		}
		if ch.Tokens > 100+9 {
			t.Errorf("chunk %d: %d tokens exceeds budget plus one sentence", i, ch.Tokens)
		}
	}
}

func TestCreateChunks_ConsecutiveChunksOverlap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("alpha beta gamma delta epsilon. ")
	}

	c := New(wordCounter{}, Config{ChunkSize: 50, ChunkOverlap: 10})
	chunks := c.CreateChunks(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	counter := wordCounter{}
	for i := 1; i < len(chunks); i++ {
		prev := SplitSentences(chunks[i-1].Text)
		cur := SplitSentences(chunks[i].Text)

		// The head of each chunk must be a suffix of the previous chunk
		// carrying at least the overlap budget in tokens.
		shared := 0
		for k := 1; k <= len(prev) && k <= len(cur); k++ {
			match := true
			for j := 0; j < k; j++ {
				if prev[len(prev)-k+j] != cur[j] {
					match = false
					break
				}
			}
			if match {
				shared = k
			}
		}
		sharedTokens := 0
		for j := 0; j < shared; j++ {
			sharedTokens += counter.Count(cur[j])
		}
		if sharedTokens < 10 {
			t.Errorf("chunks %d/%d: overlap %d tokens, expected at least 10", i-1, i, sharedTokens)
		}
	}
}

func TestCreateChunks_OversizedSentenceEmittedWhole(t *testing.T) {
	huge := strings.Repeat("word ", 120) + "end."
	text := "Short lead-in sentence here. " + huge + " Short trailer sentence here."

	c := New(wordCounter{}, Config{ChunkSize: 50, ChunkOverlap: 5})
	chunks := c.CreateChunks(text)

	found := false
	for _, ch := range chunks {
		if strings.Contains(ch.Text, "word word word") && strings.Contains(ch.Text, "end.") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the oversized sentence to survive intact in one chunk")
	}
}

func TestCreateChunks_TwoAndAHalfBudgets(t *testing.T) {
	// 25 sentences of 10 words, 250 tokens against a budget of 100 with
	// overlap 20: chunks close at sentences 10 and 18, leaving 3 chunks.
	var b strings.Builder
	for i := 0; i < 25; i++ {
		b.WriteString(fmt.Sprintf("item %d alpha beta gamma delta epsilon zeta eta theta. ", i))
	}

	c := New(wordCounter{}, Config{ChunkSize: 100, ChunkOverlap: 20})
	chunks := c.CreateChunks(b.String())
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
}

func TestCreateChunks_ReconstructsInputOrder(t *testing.T) {
	var input []string
	var b strings.Builder
	for i := 0; i < 30; i++ {
		s := fmt.Sprintf("unique sentence number %d goes here.", i)
		input = append(input, s)
		b.WriteString(s + " ")
	}

	c := New(wordCounter{}, Config{ChunkSize: 40, ChunkOverlap: 12})
	chunks := c.CreateChunks(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Dropping each chunk's overlapping head reconstructs the cleaned
	// input exactly once, in order. Sentences are unique, so position in
	// the input identifies the cut point.
	var rebuilt []string
	for _, ch := range chunks {
		for _, s := range SplitSentences(ch.Text) {
			if len(rebuilt) > 0 {
				// Skip sentences already emitted by the previous chunk.
				last := rebuilt[len(rebuilt)-1]
				if indexOf(input, s) <= indexOf(input, last) {
					continue
				}
			}
			rebuilt = append(rebuilt, s)
		}
	}

	if len(rebuilt) != len(input) {
		t.Fatalf("expected %d sentences reconstructed, got %d", len(input), len(rebuilt))
	}
	for i := range input {
		if rebuilt[i] != input[i] {
			t.Errorf("sentence %d: expected %q, got %q", i, input[i], rebuilt[i])
		}
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestProcess_Metadata(t *testing.T) {
	c := New(wordCounter{}, Config{ChunkSize: 100, ChunkOverlap: 10})
	doc := c.Process("Hello world. Second sentence here.")

	if doc.NumChunks != 1 {
		t.Fatalf("expected 1 chunk, got %d", doc.NumChunks)
	}
	if doc.RequiresChunking {
		t.Errorf("small document should not require chunking")
	}
	if doc.Metadata.TotalWords != 5 {
		t.Errorf("expected 5 words, got %d", doc.Metadata.TotalWords)
	}
	if doc.Metadata.TotalTokens != 5 {
		t.Errorf("expected 5 tokens, got %d", doc.Metadata.TotalTokens)
	}
	if doc.CleanedText != "Hello world. Second sentence here." {
		t.Errorf("unexpected cleaned text %q", doc.CleanedText)
	}
}

func TestProcess_LargeDocumentRequiresChunking(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("the quick brown fox jumps over the lazy dog. ")
	}

	c := New(wordCounter{}, Config{ChunkSize: 100, ChunkOverlap: 20})
	doc := c.Process(b.String())

	if !doc.RequiresChunking {
		t.Fatalf("expected RequiresChunking for a 540-token document")
	}
	if doc.NumChunks != len(doc.Chunks) {
		t.Errorf("NumChunks %d does not match len(Chunks) %d", doc.NumChunks, len(doc.Chunks))
	}
}
