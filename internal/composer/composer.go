// Package composer turns retrieved chunks into the assistant's reply.
package composer

import (
	"fmt"
	"strings"

	"filechat/internal/domain"
	"filechat/internal/tokenize"
)

const (
	// DefaultSnippetMaxChars bounds each quoted passage.
	DefaultSnippetMaxChars = 1200
	// DefaultMarker wraps highlighted words.
	DefaultMarker = "`"

	NoMatchMessage = "I couldn't find any passages in the uploaded files that match your question. " +
		"Try a different question or upload more files."
	introLine   = "I searched your uploaded files and found these relevant passages:"
	closingLine = "\nIf you'd like, ask me to summarize these passages, or ask a follow-up that references a file name."
	ellipsis    = "..."
)

var _ domain.Composer = (*Composer)(nil)

// Composer quotes each match with its source and score, highlighting the
// words of the query.
type Composer struct {
	snippetMaxChars int
	marker          string
}

func New(snippetMaxChars int, marker string) *Composer {
	if snippetMaxChars <= 0 {
		snippetMaxChars = DefaultSnippetMaxChars
	}
	if marker == "" {
		marker = DefaultMarker
	}
	return &Composer{snippetMaxChars: snippetMaxChars, marker: marker}
}

// Marker returns the string placed around highlighted words.
func (c *Composer) Marker() string { return c.marker }

func (c *Composer) Compose(matches []domain.Match, query string) string {
	if len(matches) == 0 {
		return NoMatchMessage
	}
	queryTokens := tokenize.Set(query)
	blocks := make([]string, 0, len(matches)+2)
	blocks = append(blocks, introLine)
	for _, m := range matches {
		snippet := c.Highlight(truncate(m.ChunkText, c.snippetMaxChars), queryTokens)
		blocks = append(blocks, fmt.Sprintf("From %s (score=%d):\n> %s", m.File, m.Score, snippet))
	}
	blocks = append(blocks, closingLine)
	return strings.Join(blocks, "\n\n")
}

// Highlight wraps every whole word of text whose lowercase form is in
// tokens with the marker.
func (c *Composer) Highlight(text string, tokens map[string]struct{}) string {
	if len(tokens) == 0 {
		return text
	}
	return tokenize.WordPattern.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := tokens[strings.ToLower(w)]; ok {
			return c.marker + w + c.marker
		}
		return w
	})
}

// truncate cuts s to n characters and appends an ellipsis when it did.
func truncate(s string, n int) string {
	runes := 0
	for i := range s {
		if runes == n {
			return s[:i] + ellipsis
		}
		runes++
	}
	return s
}
