// Package token turns a raw query string into typed tokens.
//
// The grammar is deliberately forgiving: nothing the user types is an
// error. Whitespace separates tokens, a leading '-' negates the token
// that follows, double quotes group an exact phrase, and key:value pairs
// become filter tokens. Malformed input degrades to plain text tokens.
package token

import (
	"strings"
	"unicode"
)

// Kind classifies a query token.
type Kind int

// Token kinds.
const (
	// Text is an unquoted free-text word.
	Text Kind = iota
	// Quoted is an exact phrase from a "..." span.
	Quoted
	// Filter is a key:value pair.
	Filter
)

// Token is one unit of a tokenized query string.
type Token struct {
	Kind      Kind
	Value     string
	FilterKey string // set only for Kind == Filter, always lower-case
	Negated   bool
}

// Tokenize splits a raw query string into tokens, left to right.
// It never fails; see the package comment for the degradation rules.
func Tokenize(raw string) []Token {
	var tokens []Token

	runes := []rune(strings.TrimSpace(raw))
	i := 0
	for i < len(runes) {
		// Skip whitespace between tokens.
		for i < len(runes) && unicode.IsSpace(runes[i]) {
			i++
		}
		if i >= len(runes) {
			break
		}

		// Negation prefix is consumed before quote/filter detection.
		negated := false
		if runes[i] == '-' && i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			negated = true
			i++
		}

		if i < len(runes) && runes[i] == '"' {
			value, next := consumeQuoted(runes, i)
			tokens = append(tokens, Token{Kind: Quoted, Value: value, Negated: negated})
			i = next
			continue
		}

		word, next := consumeWord(runes, i)
		i = next
		if word == "" || word == "-" {
			// A free-standing '-' binds to nothing.
			continue
		}

		if key, value, ok := splitFilter(word); ok {
			tokens = append(tokens, Token{
				Kind:      Filter,
				Value:     value,
				FilterKey: strings.ToLower(key),
				Negated:   negated,
			})
			continue
		}

		tokens = append(tokens, Token{Kind: Text, Value: word, Negated: negated})
	}

	return tokens
}

// consumeQuoted reads a "..." span starting at the opening quote.
// The span runs to the matching close quote or end of input.
func consumeQuoted(runes []rune, start int) (string, int) {
	i := start + 1 // skip opening quote
	var b strings.Builder
	for i < len(runes) && runes[i] != '"' {
		b.WriteRune(runes[i])
		i++
	}
	if i < len(runes) {
		i++ // skip closing quote
	}
	return b.String(), i
}

// consumeWord reads a run of non-space characters. When a ':' is hit, the
// remainder may be a quoted filter value (entity:"John Smith"), in which
// case quote consumption takes over for the value part.
func consumeWord(runes []rune, start int) (string, int) {
	i := start
	var b strings.Builder
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		if runes[i] == ':' && i+1 < len(runes) && runes[i+1] == '"' {
			b.WriteRune(':')
			value, next := consumeQuoted(runes, i+1)
			b.WriteString(value)
			return b.String(), next
		}
		b.WriteRune(runes[i])
		i++
	}
	return b.String(), i
}

// splitFilter splits "key:value" at the first colon. A colon at position
// 0 (empty key) does not make a filter.
func splitFilter(word string) (key, value string, ok bool) {
	idx := strings.Index(word, ":")
	if idx <= 0 {
		return "", "", false
	}
	return word[:idx], word[idx+1:], true
}
