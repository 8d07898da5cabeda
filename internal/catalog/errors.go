package catalog

import (
	"errors"
	"fmt"
)

// LoadErrorKind classifies why a catalog load failed.
type LoadErrorKind int

const (
	LoadHTTPStatus LoadErrorKind = iota + 1
	LoadEmptyOrMalformed
	LoadTransport
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadHTTPStatus:
		return "http_status"
	case LoadEmptyOrMalformed:
		return "empty_or_malformed"
	case LoadTransport:
		return "transport"
	default:
		return "unknown"
	}
}

var (
	ErrNoLocations       = errors.New("no locations received")
	ErrUnrecognizedShape = errors.New("unrecognized location list shape")
)

// LoadError carries the precise cause of a failed load. Users only ever see
// FailureHint; the cause goes to the logs.
type LoadError struct {
	Kind       LoadErrorKind
	StatusCode int
	Err        error
}

func (e *LoadError) Error() string {
	if e.Kind == LoadHTTPStatus {
		return fmt.Sprintf("catalog load failed (%s): HTTP %d", e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("catalog load failed (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("catalog load failed (%s)", e.Kind)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// KindOf extracts the LoadErrorKind from err, or 0 if err is not a LoadError.
func KindOf(err error) LoadErrorKind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return 0
}
