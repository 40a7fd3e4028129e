package availability

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCriterion marks a malformed Criterion. It is a programming
	// error and is never produced by a lookup.
	ErrInvalidCriterion = errors.New("invalid filter criterion")
	// ErrInvalidIdentity marks an ItemIdentity with a missing id or kind.
	ErrInvalidIdentity = errors.New("invalid item identity")
)

// LookupError records that availability for a single item could not be
// determined. It never describes more than one key.
type LookupError struct {
	Key ItemIdentity
	Err error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("lookup %s failed", e.Key)
	}
	return fmt.Sprintf("lookup %s: %v", e.Key, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// NewLookupError wraps err for key. An existing LookupError for the same key
// is returned as is.
func NewLookupError(key ItemIdentity, err error) *LookupError {
	var existing *LookupError
	if errors.As(err, &existing) && existing.Key == key {
		return existing
	}
	return &LookupError{Key: key, Err: err}
}
