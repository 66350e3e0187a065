package store

import (
	"context"
	"sync"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
)

// Cache memoizes parsed automata from an underlying Store. Failed loads are
// not cached. Safe for concurrent use.
type Cache struct {
	store Store
	dfas  map[string]*automaton.DFA
	mu    sync.RWMutex
}

func NewCache(store Store) *Cache {
	return &Cache{
		store: store,
		dfas:  make(map[string]*automaton.DFA),
	}
}

func (c *Cache) List(ctx context.Context) ([]string, error) {
	return c.store.List(ctx)
}

func (c *Cache) Load(ctx context.Context, key string) (*automaton.DFA, error) {
	c.mu.RLock()
	d, ok := c.dfas[key]
	c.mu.RUnlock()
	if ok {
		return d, nil
	}

	d, err := c.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.dfas[key] = d
	c.mu.Unlock()

	return d, nil
}

// Save writes through and replaces the cached value.
func (c *Cache) Save(ctx context.Context, key string, d *automaton.DFA) error {
	if err := c.store.Save(ctx, key, d); err != nil {
		return err
	}

	c.mu.Lock()
	c.dfas[key] = d
	c.mu.Unlock()

	return nil
}
