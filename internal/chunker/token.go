package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts semantic tokens in text. All chunk budget comparisons
// go through the same counter, so counts stay consistent end to end.
type TokenCounter interface {
	Count(text string) int
}

// Tokenizer counts tokens with the cl100k_base BPE encoding, the same
// scheme the generation service bills and limits by.
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTokenizer loads the cl100k_base encoding.
func NewTokenizer() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", err)
	}
	return &Tokenizer{enc: enc}, nil
}

// Count returns the number of BPE tokens in text.
func (t *Tokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}
