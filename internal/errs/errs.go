// Package errs defines the error taxonomy shared by the pipeline and the
// HTTP surface. Kinds are eris sentinels; call sites wrap them with context
// and handlers map them back to status codes.
package errs

import (
	"net/http"

	"github.com/rotisserie/eris"
)

var (
	// ErrValidation marks bad or unsupported input: wrong upload extension,
	// missing required column, unparseable payload.
	ErrValidation = eris.New("validation error")

	// ErrNotFound marks an unknown task id or a missing result file.
	ErrNotFound = eris.New("not found")

	// ErrState marks an operation attempted in the wrong task state, such as
	// downloading a report before the analysis completed.
	ErrState = eris.New("invalid state")

	// ErrUpstream marks a failure of the enrichment or classification API.
	// Always recovered locally to a per-creator skip, never surfaced as a
	// run failure.
	ErrUpstream = eris.New("upstream error")
)

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return eris.Wrapf(ErrValidation, format, args...)
}

// NotFoundf builds a NotFoundError with a formatted message.
func NotFoundf(format string, args ...any) error {
	return eris.Wrapf(ErrNotFound, format, args...)
}

// Statef builds a StateError with a formatted message.
func Statef(format string, args ...any) error {
	return eris.Wrapf(ErrState, format, args...)
}

// Upstreamf builds an UpstreamError with a formatted message.
func Upstreamf(format string, args ...any) error {
	return eris.Wrapf(ErrUpstream, format, args...)
}

// HTTPStatus maps a taxonomy kind to the response status code. Anything
// outside the taxonomy is an internal error.
func HTTPStatus(err error) int {
	switch {
	case eris.Is(err, ErrValidation), eris.Is(err, ErrState):
		return http.StatusBadRequest
	case eris.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
