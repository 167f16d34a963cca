// Package tokenize holds the word tokenizer shared by scoring, highlighting
// and summarizing.
package tokenize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// WordPattern matches a single token: a maximal run of letters, digits or
// underscores in any script.
var WordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokens returns the lowercased tokens of text in order, repeats included.
// Text is NFC-normalized first so decomposed input matches extracted text.
func Tokens(text string) []string {
	return WordPattern.FindAllString(strings.ToLower(norm.NFC.String(text)), -1)
}

// Set returns the distinct lowercased tokens of text.
func Set(text string) map[string]struct{} {
	tokens := Tokens(text)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// Counts returns how often each lowercased token occurs in text.
func Counts(text string) map[string]int {
	tokens := Tokens(text)
	m := make(map[string]int, len(tokens))
	for _, t := range tokens {
		m[t]++
	}
	return m
}
