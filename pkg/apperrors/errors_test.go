package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindUnauthorized:           http.StatusUnauthorized,
		KindInvalidInput:           http.StatusBadRequest,
		KindFetchTimeout:           http.StatusRequestTimeout,
		KindFetchError:             http.StatusBadGateway,
		KindUnsupportedContentType: http.StatusUnprocessableEntity,
		KindExtractedTextTooShort:  http.StatusUnprocessableEntity,
		KindDuplicateSource:        http.StatusConflict,
		KindExtractionServiceError: http.StatusInternalServerError,
		KindPersistenceError:       http.StatusInternalServerError,
		KindInternal:               http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := Newf(kind, "x").HTTPStatus(); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestLogStatus(t *testing.T) {
	cases := map[Kind]string{
		KindFetchTimeout:           "fetch_error",
		KindFetchError:             "fetch_error",
		KindUnsupportedContentType: "fetch_error",
		KindExtractedTextTooShort:  "fetch_error",
		KindExtractionServiceError: "ai_validation_error",
		KindExtractionParseError:   "ai_validation_error",
		KindPersistenceError:       "insert_error",
		KindDuplicateSource:        "duplicate",
		KindInternal:               "internal_error",
	}
	for kind, want := range cases {
		if got := Newf(kind, "x").LogStatus(); got != want {
			t.Errorf("LogStatus(%s) = %q, want %q", kind, got, want)
		}
	}
}

func TestAsPipeline(t *testing.T) {
	pe := New(KindFetchError, "fetch failed", errors.New("boom"))
	wrapped := errors.Join(errors.New("outer"), pe)

	got := AsPipeline(wrapped)
	if got.Kind != KindFetchError {
		t.Errorf("expected %s, got %s", KindFetchError, got.Kind)
	}

	plain := AsPipeline(errors.New("plain"))
	if plain.Kind != KindInternal {
		t.Errorf("expected %s for unclassified error, got %s", KindInternal, plain.Kind)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	pe := New(KindPersistenceError, "insert failed", cause)
	if !errors.Is(pe, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}
