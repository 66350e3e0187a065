package observability

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrUnknownObserver is returned by Lookup for names nobody registered.
var ErrUnknownObserver = errors.New("unknown observer")

var (
	registry = map[string]Observer{
		"noop": NoOpObserver{},
	}
	registryMu sync.RWMutex
)

// Lookup resolves an observer by name. "slog" always resolves to an
// observer over the current slog.Default logger and "noop" discards.
func Lookup(name string) (Observer, error) {
	if name == "slog" {
		return NewSlogObserver(slog.Default()), nil
	}

	registryMu.RLock()
	defer registryMu.RUnlock()

	o, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObserver, name)
	}
	return o, nil
}

// Register adds or replaces a named observer.
func Register(name string, o Observer) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = o
}
