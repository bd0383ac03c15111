package toys

import (
	"errors"
	"fmt"
	"strconv"
)

// Toy is one catalog record. Records are never mutated after insertion.
type Toy struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

func (t Toy) String() string {
	return strconv.Itoa(t.ID) + " " + t.Name + " " + strconv.Itoa(t.Weight)
}

var (
	ErrInvalidCapacity = errors.New("toys: capacity must be at least 1")
	ErrTooFewToys      = errors.New("toys: sampling needs at least 3 stored toys")
)

// FormatError reports a numeric field that did not parse as an integer.
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("toys: bad %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// MalformedEntryError is a batch line that is not exactly "<id> <weight> <name>".
type MalformedEntryError struct {
	Line   string
	Fields int
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("toys: malformed entry %q (%d fields, want 3)", e.Line, e.Fields)
}

// ResourceError wraps an I/O failure while persisting draws.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("toys: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("toys: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

func parseField(field, value string) (int, error) {
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, &FormatError{Field: field, Value: value, Err: err}
	}
	return int(n), nil
}
