package checker

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnset is returned by Run when the config names no first or
	// second source.
	ErrSourceUnset = errors.New("source not configured")
	// ErrNoSources is returned by ClassifyAll when the store is empty.
	ErrNoSources = errors.New("no sources found")
)

// SourceError ties a store failure to the key it came from. The wrapped
// error matches store.ErrNotFound for missing sources, store.ErrLoadFailed or
// store.ErrSaveFailed for unreadable or unwritable ones, and
// automaton.ErrMalformed or automaton.ErrSyntax for bad descriptions.
type SourceError struct {
	Key string
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Key, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
