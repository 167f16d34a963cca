package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"filechat/internal/domain"
)

var _ Backend = (*PDFBackend)(nil)

// PDFBackend reads the text layer of a PDF, one page at a time.
type PDFBackend struct{}

func NewPDFBackend() *PDFBackend { return &PDFBackend{} }

func (*PDFBackend) Format() domain.Format { return domain.FormatPDF }

func (*PDFBackend) Available() bool { return true }

// Extract joins the plain text of every page with a newline. Pages without
// a content stream contribute an empty line.
func (b *PDFBackend) Extract(content []byte) (text string, err error) {
	if len(content) == 0 {
		return "", b.fail(errors.New("empty pdf content"))
	}
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", b.fail(fmt.Errorf("malformed pdf: %v", r))
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", b.fail(fmt.Errorf("open pdf: %w", err))
	}
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", b.fail(fmt.Errorf("page %d: %w", i, err))
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}

func (*PDFBackend) fail(err error) error {
	return &ExtractionError{Kind: KindDecodeFailure, Format: domain.FormatPDF, Err: err}
}
