package estimator

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a submission arrives while another is in flight.
	ErrBusy = errors.New("estimator: prediction already in progress")
	// ErrCatalogUnavailable is returned while the location catalog is not
	// loaded. It is an availability condition, not a validation failure.
	ErrCatalogUnavailable = errors.New("estimator: location catalog not loaded")
)

// SubmitErrorKind classifies a failed submission.
type SubmitErrorKind int

const (
	SubmitValidation SubmitErrorKind = iota + 1
	SubmitHTTPStatus
	SubmitMalformedResponse
	SubmitTransport
)

func (k SubmitErrorKind) String() string {
	switch k {
	case SubmitValidation:
		return "validation"
	case SubmitHTTPStatus:
		return "http_status"
	case SubmitMalformedResponse:
		return "malformed_response"
	case SubmitTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Messages shown to users for backend-side failures.
const (
	MsgInvalidResponse = "invalid response format"
	MsgTransport       = "Unable to reach the prediction service."
)

// SubmitError is the failure outcome of a submission. Message is safe to show
// to users; Err keeps the underlying cause for logs.
type SubmitError struct {
	Kind       SubmitErrorKind
	Field      string
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmitError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// AsSubmitError extracts a *SubmitError from err.
func AsSubmitError(err error) (*SubmitError, bool) {
	var se *SubmitError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
