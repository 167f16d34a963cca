package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the chunk size used when none is configured.
const DefaultMaxChars = 1200

// ParagraphChunker packs paragraphs into chunks of at most maxChars
// characters. Paragraphs that are too long on their own are packed sentence
// by sentence instead; a single sentence longer than maxChars is kept whole.
type ParagraphChunker struct {
	maxChars int
	splitter *regexp.Regexp
}

func NewParagraphChunker(maxChars int) *ParagraphChunker {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &ParagraphChunker{
		maxChars: maxChars,
		splitter: regexp.MustCompile(`\n+`),
	}
}

// MaxChars returns the configured chunk bound.
func (c *ParagraphChunker) MaxChars() int { return c.maxChars }

func (c *ParagraphChunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}
	var chunks []string
	current := ""
	for _, p := range c.splitter.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if runeLen(current)+runeLen(p)+1 <= c.maxChars {
			current = joinNonEmpty(current, "\n", p)
			continue
		}
		chunks = appendChunk(chunks, current)
		current = ""
		if runeLen(p) > c.maxChars {
			chunks = append(chunks, c.packSentences(p)...)
		} else {
			current = p
		}
	}
	return appendChunk(chunks, current)
}

// packSentences applies the paragraph packing rule to the sentences of an
// over-long paragraph, joining them with a single space.
func (c *ParagraphChunker) packSentences(p string) []string {
	var out []string
	buf := ""
	for _, s := range SplitSentences(p) {
		if runeLen(buf)+runeLen(s)+1 > c.maxChars {
			out = appendChunk(out, buf)
			buf = s
			continue
		}
		buf = joinNonEmpty(buf, " ", s)
	}
	return appendChunk(out, buf)
}

func appendChunk(chunks []string, s string) []string {
	if s == "" {
		return chunks
	}
	return append(chunks, strings.TrimSpace(s))
}

func joinNonEmpty(head, sep, tail string) string {
	if head == "" {
		return tail
	}
	return head + sep + tail
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
