package extractor

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"filechat/internal/domain"
)

// decodeText returns data as UTF-8 text. Invalid UTF-8 is read as
// ISO-8859-1, which maps every byte to a code point.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", &ExtractionError{Kind: KindDecodeFailure, Format: domain.FormatPlainText, Err: err}
	}
	return string(out), nil
}

// RenderRaw is the last-resort textual form of an upload: the bytes as a
// quoted string literal with non-printable bytes escaped.
func RenderRaw(data []byte) string {
	return fmt.Sprintf("%q", data)
}
