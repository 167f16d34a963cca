package extractor

import (
	"errors"
	"fmt"

	"filechat/internal/domain"
)

// ErrBackendUnavailable is returned by a backend that is not installed.
var ErrBackendUnavailable = errors.New("extraction backend unavailable")

// Kind classifies why an extraction path produced no text.
type Kind int

const (
	// KindBackendUnavailable means no backend is configured for the format.
	KindBackendUnavailable Kind = iota + 1
	// KindDecodeFailure means the bytes could not be decoded by the backend.
	KindDecodeFailure
)

func (k Kind) String() string {
	switch k {
	case KindBackendUnavailable:
		return "backend unavailable"
	case KindDecodeFailure:
		return "decode failure"
	default:
		return "unknown"
	}
}

// ExtractionError describes a failed extraction path.
type ExtractionError struct {
	Kind   Kind
	Format domain.Format
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %s", e.Format, e.Kind)
	}
	return fmt.Sprintf("extract %s: %s: %v", e.Format, e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or 0 if err is not an
// ExtractionError.
func KindOf(err error) Kind {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return 0
}
