package store

import "errors"

// Sentinel errors for store operations. ErrNotFound and ErrLoadFailed cover
// the resource itself; once the content is read, parse failures are returned
// unwrapped as produced by automaton.Parse.
var (
	ErrNotFound   = errors.New("not found")
	ErrLoadFailed = errors.New("load failed")
	ErrSaveFailed = errors.New("save failed")
)
