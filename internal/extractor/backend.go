package extractor

import "filechat/internal/domain"

// Backend extracts text from one binary document format.
type Backend interface {
	Format() domain.Format
	Available() bool
	Extract(content []byte) (string, error)
}

// None stands in for a backend that is not installed. It reports itself as
// unavailable and never produces text.
type None struct {
	F domain.Format
}

func (n None) Format() domain.Format { return n.F }

func (None) Available() bool { return false }

func (n None) Extract([]byte) (string, error) {
	return "", &ExtractionError{Kind: KindBackendUnavailable, Format: n.F, Err: ErrBackendUnavailable}
}

// ResolvePDF returns the PDF backend, or None when disabled.
func ResolvePDF(enabled bool) Backend {
	if !enabled {
		return None{F: domain.FormatPDF}
	}
	return NewPDFBackend()
}

// ResolveDOCX returns the DOCX backend, or None when disabled.
func ResolveDOCX(enabled bool) Backend {
	if !enabled {
		return None{F: domain.FormatDOCX}
	}
	return NewDOCXBackend()
}
