package chunker

import (
	"unicode"
	"unicode/utf8"
)

// SplitSentences splits text after '.', '!' or '?' wherever the mark is
// followed by whitespace. The whitespace run is dropped; everything else is
// kept verbatim, so text without such a boundary comes back as one piece.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	var prev rune
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) || !isSentenceEnd(prev) {
			prev = r
			i += size
			continue
		}
		end := i + size
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !unicode.IsSpace(next) {
				break
			}
			end += n
		}
		out = append(out, text[start:i])
		start, i, prev = end, end, r
	}
	return append(out, text[start:])
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
