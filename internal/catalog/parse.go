package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// shape tags the recognized layouts of a locations response.
type shape int

const (
	shapeUnknown shape = iota
	shapeBare          // ["location_a", "location_b"]
	shapeWrapped       // {"locations": ["location_a", ...]}
)

func (s shape) String() string {
	switch s {
	case shapeBare:
		return "bare"
	case shapeWrapped:
		return "wrapped"
	default:
		return "unknown"
	}
}

const wrappedField = "locations"

type parsed struct {
	shape shape
	keys  []string
}

// parseLocations decodes body into raw keys. An empty result is an error for
// every shape.
func parseLocations(body []byte) (parsed, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return parsed{}, ErrNoLocations
	}

	var (
		out parsed
		arr []json.RawMessage
	)
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return parsed{}, fmt.Errorf("decode location array: %w", err)
		}
		out.shape = shapeBare
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return parsed{}, fmt.Errorf("decode location object: %w", err)
		}
		field, ok := obj[wrappedField]
		if !ok {
			return parsed{}, fmt.Errorf("%w: object without %q field", ErrUnrecognizedShape, wrappedField)
		}
		if err := json.Unmarshal(field, &arr); err != nil || arr == nil {
			return parsed{}, fmt.Errorf("%w: %q is not an array", ErrUnrecognizedShape, wrappedField)
		}
		out.shape = shapeWrapped
	default:
		if !json.Valid(trimmed) {
			return parsed{}, fmt.Errorf("decode locations: invalid JSON")
		}
		return parsed{}, ErrUnrecognizedShape
	}

	if len(arr) == 0 {
		return parsed{}, ErrNoLocations
	}

	out.keys = make([]string, 0, len(arr))
	for i, elem := range arr {
		key, err := elementKey(elem)
		if err != nil {
			return parsed{}, fmt.Errorf("location %d: %w", i, err)
		}
		out.keys = append(out.keys, key)
	}
	return out, nil
}

// elementKey stringifies scalar elements; strings are taken verbatim.
func elementKey(elem json.RawMessage) (string, error) {
	elem = bytes.TrimSpace(elem)
	if len(elem) == 0 {
		return "", ErrUnrecognizedShape
	}
	switch elem[0] {
	case '"':
		var s string
		if err := json.Unmarshal(elem, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f':
		b, err := strconv.ParseBool(string(elem))
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(elem, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", fmt.Errorf("%w: unsupported element %s", ErrUnrecognizedShape, elem)
	}
}
