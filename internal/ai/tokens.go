package ai

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// TokenCounter estimates prompt size for a model. The encoder is loaded on
// first use; a load failure sticks and every later Count returns it.
type TokenCounter struct {
	model string

	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

func NewTokenCounter(model string) *TokenCounter {
	return &TokenCounter{model: model}
}

// Count follows the chat format accounting: 3 tokens of framing per message
// plus 3 for the reply primer.
func (c *TokenCounter) Count(messages []Message) (int, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return 0, c.err
	}

	total := 3
	for _, m := range messages {
		total += 3
		total += len(c.enc.Encode(m.Role, nil, nil))
		total += len(c.enc.Encode(m.Content, nil, nil))
	}
	return total, nil
}

func (c *TokenCounter) load() {
	enc, err := tiktoken.EncodingForModel(c.model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		c.err = fmt.Errorf("load tokenizer for %s: %w", c.model, err)
		return
	}
	c.enc = enc
}
