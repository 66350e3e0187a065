// Package store loads and saves DFA descriptions by key. Keys are
// slash-separated paths; the file store maps them onto files under a root
// directory holding the textual format read by automaton.Read.
package store

import (
	"context"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
)

// Store is a source of DFA descriptions. Implementations perform I/O on
// every call; wrap one in a Cache to reuse parsed automata.
type Store interface {
	// List returns every key in the store, sorted.
	List(ctx context.Context) ([]string, error)
	// Load reads and parses the automaton stored under key.
	Load(ctx context.Context, key string) (*automaton.DFA, error)
	// Save writes d in canonical text form under key.
	Save(ctx context.Context, key string, d *automaton.DFA) error
}
