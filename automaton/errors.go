package automaton

import "errors"

// Sentinel errors for DFA construction and decoding.
var (
	// ErrMalformed reports a description that does not define a complete,
	// in-range transition function or names an out-of-range accepting state.
	ErrMalformed = errors.New("malformed automaton")
	// ErrSyntax reports text that is not a sequence of integers of the
	// expected length.
	ErrSyntax = errors.New("syntax error")
)
