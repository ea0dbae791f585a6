package kartverket

import (
	"errors"
	"fmt"
)

var (
	ErrNoLocationData = errors.New("no locationdata element")
	ErrNoLocation     = errors.New("no location element")
	ErrMissingAttr    = errors.New("missing required attribute")

	// ErrNotFetched is returned by derived values before the first update.
	ErrNotFetched = errors.New("tide data not yet fetched")
	// ErrNoData is returned when the last update could not fetch a document.
	ErrNoData = errors.New("no tide data available")
	// ErrNoWaterLevels is returned when a document holds no samples to read.
	ErrNoWaterLevels = errors.New("no water levels in document")
)

// ValidationError reports a configuration value outside its closed set.
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be one of %s", e.Field, e.Value, joinAllowed(e.Allowed))
}

// APIError is a response with a status other than 200.
type APIError struct {
	Datatype   Datatype
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tide api returned status %d for datatype %s", e.StatusCode, e.Datatype)
}

// NetworkError wraps transport failures, including timeouts.
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError reports a response that does not have the expected structure.
// Path locates the offending element, e.g. "locationdata/data[0]/waterlevel[3]@time".
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse tide data at %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
