package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Kind classifies a pipeline failure. Every kind maps to an HTTP status for
// the API response and to an ingestion log status for the audit trail.
type Kind string

const (
	KindUnauthorized           Kind = "unauthorized"
	KindInvalidInput           Kind = "invalid_input"
	KindFetchTimeout           Kind = "fetch_timeout"
	KindFetchError             Kind = "fetch_error"
	KindUnsupportedContentType Kind = "unsupported_content_type"
	KindExtractedTextTooShort  Kind = "extracted_text_too_short"
	KindExtractionServiceError Kind = "extraction_service_error"
	KindExtractionParseError   Kind = "extraction_parse_error"
	KindPersistenceError       Kind = "persistence_error"
	KindDuplicateSource        Kind = "duplicate_source"
	KindInternal               Kind = "internal"
)

// PipelineError is a classified ingestion failure.
type PipelineError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// New creates a classified pipeline error.
func New(kind Kind, message string, cause error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Cause: cause}
}

// Newf creates a classified pipeline error with a formatted message.
func Newf(kind Kind, format string, args ...any) *PipelineError {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsPipeline extracts a PipelineError from an error chain. If the chain has
// none, the error is wrapped as KindInternal so callers always get a
// classified error back.
func AsPipeline(err error) *PipelineError {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return &PipelineError{Kind: KindInternal, Message: "internal error", Cause: err}
}

// HTTPStatus maps an error kind to the response status code.
func (e *PipelineError) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindFetchTimeout:
		return http.StatusRequestTimeout
	case KindFetchError:
		return http.StatusBadGateway
	case KindUnsupportedContentType, KindExtractedTextTooShort:
		return http.StatusUnprocessableEntity
	case KindDuplicateSource:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// LogStatus maps an error kind to the status recorded in the ingestion audit
// trail. Fetch-stage failures (including too-short content) are grouped under
// fetch_error, extraction failures under ai_validation_error.
func (e *PipelineError) LogStatus() string {
	switch e.Kind {
	case KindInvalidInput, KindFetchTimeout, KindFetchError,
		KindUnsupportedContentType, KindExtractedTextTooShort:
		return "fetch_error"
	case KindExtractionServiceError, KindExtractionParseError:
		return "ai_validation_error"
	case KindPersistenceError:
		return "insert_error"
	case KindDuplicateSource:
		return "duplicate"
	default:
		return "internal_error"
	}
}
