// Package extractor turns uploaded files into plain text.
//
// PDF and DOCX support are optional backends resolved once at startup; a
// missing or failing backend never aborts an upload. It degrades to the
// raw-byte rendering of the file and the cause is kept for previews.
package extractor

import (
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"filechat/internal/domain"
)

var _ domain.Extractor = (*Extractor)(nil)

// Extractor dispatches on the file name suffix.
type Extractor struct {
	pdf    Backend
	docx   Backend
	logger *slog.Logger
}

// New creates an Extractor. Nil backends are treated as not installed.
func New(pdf, docx Backend, logger *slog.Logger) *Extractor {
	if pdf == nil {
		pdf = None{F: domain.FormatPDF}
	}
	if docx == nil {
		docx = None{F: domain.FormatDOCX}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, b := range []Backend{pdf, docx} {
		if !b.Available() {
			logger.Info("extraction backend not available, using raw fallback", "format", b.Format())
		}
	}
	return &Extractor{pdf: pdf, docx: docx, logger: logger}
}

// Capabilities reports which backends are live.
func (e *Extractor) Capabilities() domain.Capabilities {
	return domain.Capabilities{PDF: e.pdf.Available(), DOCX: e.docx.Available()}
}

// FormatOf picks the extraction path for a file name. Anything that is not
// a .pdf or .docx file is read as text.
func FormatOf(name string) domain.Format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return domain.FormatPDF
	case strings.HasSuffix(lower, ".docx"):
		return domain.FormatDOCX
	default:
		return domain.FormatPlainText
	}
}

// Extract never fails. When the format path yields no text the result is
// the raw rendering of data, marked Degraded.
func (e *Extractor) Extract(name string, data []byte) domain.Extraction {
	format := FormatOf(name)
	var (
		text string
		err  error
	)
	switch format {
	case domain.FormatPDF:
		text, err = e.pdf.Extract(data)
	case domain.FormatDOCX:
		text, err = e.docx.Extract(data)
	default:
		text, err = decodeText(data)
	}
	if err != nil {
		e.logger.Info("extraction fell back", "file", name, "format", format, "kind", KindOf(err).String(), "error", err)
		text = ""
	}
	text = norm.NFC.String(text)
	if text == "" {
		return domain.Extraction{Text: RenderRaw(data), Format: format, Degraded: true, Err: err}
	}
	return domain.Extraction{Text: text, Format: format, Err: err}
}
