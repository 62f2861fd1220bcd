// Package tokens defines the token-counting contract the resolver depends
// on. Callers that integrate a real model tokenizer plug it in through
// Counter; the default is a cheap heuristic good enough for budgeting.
package tokens

import (
	"unicode"
	"unicode/utf8"
)

// Counter turns text into a token count.
type Counter interface {
	Count(text string) int
}

// CounterFunc adapts a plain function to the Counter interface.
type CounterFunc func(text string) int

// Count implements Counter.
func (f CounterFunc) Count(text string) int {
	return f(text)
}

// Heuristic approximates a BPE tokenizer by counting word and punctuation
// runs. It overcounts slightly on prose and undercounts on dense code, which
// is the safe direction for prompt budgeting.
type Heuristic struct{}

// NewHeuristic returns the default counter.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Count implements Counter.
func (h *Heuristic) Count(text string) int {
	count := 0
	inWord := false
	wordLen := 0

	flush := func() {
		if wordLen > 0 {
			// Long identifiers split into multiple subword tokens; ~4
			// characters per token tracks common BPE vocabularies.
			count += (wordLen + 3) / 4
		}
		wordLen = 0
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size

		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			inWord = true
			wordLen++
		case unicode.IsSpace(r):
			if inWord {
				flush()
				inWord = false
			}
		default:
			if inWord {
				flush()
				inWord = false
			}
			count++ // punctuation is roughly one token each
		}
	}
	flush()

	return count
}
