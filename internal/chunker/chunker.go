package chunker

import (
	"regexp"
	"strings"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Maximum tokens per chunk.
	ChunkOverlap int // Minimum tokens carried over between consecutive chunks.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 100,
	}
}

// Chunk is one token-bounded, sentence-aligned segment of a document.
type Chunk struct {
	ChunkID            int    `json:"chunk_id"`
	Text               string `json:"text"`
	Tokens             int    `json:"tokens"`
	IsCompleteDocument bool   `json:"is_complete_document"`
}

// Chunker splits cleaned text into overlapping, sentence-aligned chunks.
type Chunker struct {
	counter TokenCounter
	cfg     Config
}

// New creates a Chunker. Zero config fields fall back to defaults.
func New(counter TokenCounter, cfg Config) *Chunker {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 100
	}
	return &Chunker{counter: counter, cfg: cfg}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs to single spaces and trims the ends.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

var sentenceEndRe = regexp.MustCompile(`([.!?])\s+`)

// SplitSentences splits text on sentence-ending punctuation followed by
// whitespace. Empty fragments are dropped.
func SplitSentences(text string) []string {
	parts := sentenceEndRe.Split(text, -1)
	ends := sentenceEndRe.FindAllStringSubmatch(text, -1)

	var sentences []string
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// Reattach the terminating punctuation consumed by the split.
		if i < len(ends) {
			p += ends[i][1]
		}
		sentences = append(sentences, p)
	}
	return sentences
}

// CountTokens counts tokens in text using the configured counter.
func (c *Chunker) CountTokens(text string) int {
	return c.counter.Count(text)
}

// CreateChunks cleans text and splits it into overlapping chunks. If the
// whole document fits within the chunk budget, a single chunk is returned
// with IsCompleteDocument set.
//
// Splitting happens only on sentence boundaries. A single sentence larger
// than the budget is still emitted whole in its own chunk, so a chunk may
// exceed the nominal budget by at most one oversized sentence.
func (c *Chunker) CreateChunks(text string) []Chunk {
	text = CleanText(text)
	if text == "" {
		return nil
	}

	total := c.counter.Count(text)
	if total <= c.cfg.ChunkSize {
		return []Chunk{{
			ChunkID:            0,
			Text:               text,
			Tokens:             total,
			IsCompleteDocument: true,
		}}
	}

	sentences := SplitSentences(text)

	var chunks []Chunk
	var current []string
	currentTokens := 0
	chunkID := 0

	for _, sentence := range sentences {
		sentenceTokens := c.counter.Count(sentence)

		if currentTokens+sentenceTokens > c.cfg.ChunkSize && len(current) > 0 {
			chunks = append(chunks, Chunk{
				ChunkID: chunkID,
				Text:    strings.Join(current, " "),
				Tokens:  currentTokens,
			})
			chunkID++

			// Seed the next chunk with trailing sentences of the one just
			// closed until the retained suffix meets the overlap budget.
			current = c.overlapSuffix(current)
			currentTokens = c.counter.Count(strings.Join(current, " "))
		}

		current = append(current, sentence)
		currentTokens += sentenceTokens
	}

	if len(current) > 0 {
		chunks = append(chunks, Chunk{
			ChunkID: chunkID,
			Text:    strings.Join(current, " "),
			Tokens:  currentTokens,
		})
	}

	return chunks
}

// overlapSuffix walks backward from the end of a closed chunk, collecting
// sentences until their token count reaches the configured overlap or the
// sentences run out.
func (c *Chunker) overlapSuffix(sentences []string) []string {
	var suffix []string
	tokens := 0
	for i := len(sentences) - 1; i >= 0; i-- {
		if tokens >= c.cfg.ChunkOverlap {
			break
		}
		suffix = append([]string{sentences[i]}, suffix...)
		tokens += c.counter.Count(sentences[i])
	}
	return suffix
}

// DocumentMetadata holds size statistics for a cleaned document.
type DocumentMetadata struct {
	TotalCharacters int `json:"total_characters"`
	TotalWords      int `json:"total_words"`
	TotalLines      int `json:"total_lines"`
	TotalTokens     int `json:"total_tokens"`
}

// Metadata computes size statistics for text.
func (c *Chunker) Metadata(text string) DocumentMetadata {
	return DocumentMetadata{
		TotalCharacters: len(text),
		TotalWords:      len(strings.Fields(text)),
		TotalLines:      len(strings.Split(text, "\n")),
		TotalTokens:     c.counter.Count(text),
	}
}

// ProcessedDocument is the full segmentation output for one document.
type ProcessedDocument struct {
	CleanedText      string           `json:"cleaned_text"`
	Metadata         DocumentMetadata `json:"metadata"`
	Chunks           []Chunk          `json:"chunks"`
	NumChunks        int              `json:"num_chunks"`
	RequiresChunking bool             `json:"requires_chunking"`
}

// Process cleans text, computes metadata, and creates chunks.
func (c *Chunker) Process(text string) ProcessedDocument {
	cleaned := CleanText(text)
	chunks := c.CreateChunks(cleaned)
	return ProcessedDocument{
		CleanedText:      cleaned,
		Metadata:         c.Metadata(cleaned),
		Chunks:           chunks,
		NumChunks:        len(chunks),
		RequiresChunking: len(chunks) > 1,
	}
}
