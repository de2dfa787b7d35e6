package model

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter reports prompt sizes for diagnostics. Counting is
// best-effort; callers treat failures as "size unknown".
type TokenCounter interface {
	Count(text string) (int, error)
}

// TiktokenCounter approximates token usage with an OpenAI-compatible BPE,
// close enough for budget logging against other providers. The encoding
// is loaded lazily on first use.
type TiktokenCounter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

func NewTiktokenCounter() *TiktokenCounter {
	return &TiktokenCounter{}
}

func (t *TiktokenCounter) Count(text string) (int, error) {
	t.once.Do(func() {
		t.enc, t.err = tiktoken.EncodingForModel("gpt-3.5-turbo")
	})
	if t.err != nil {
		return 0, t.err
	}
	return len(t.enc.Encode(text, nil, nil)), nil
}
