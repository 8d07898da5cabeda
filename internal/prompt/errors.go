package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g. Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoLocations is returned when there is nothing to choose from.
	ErrNoLocations = errors.New("prompt: no locations to choose from")
)
