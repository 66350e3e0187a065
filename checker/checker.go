// Package checker loads DFA descriptions from a store and reports whether
// they are equivalent. It is the runtime behind the dfaequiv command.
//
// The checker initializes from configuration via New; functional options
// override any subsystem.
//
//	c, err := checker.New(&cfg)
//	verdict, err := c.Run(ctx)
//	fmt.Println(verdict.Message())
package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
	"github.com/tailored-agentic-units/dfaequiv/equivalence"
	"github.com/tailored-agentic-units/dfaequiv/observability"
	"github.com/tailored-agentic-units/dfaequiv/store"
)

const (
	MessageEquivalent = "These two DFAs are equivalent."
	MessageDistinct   = "These two DFAs are NOT equivalent!"
)

// Verdict is the outcome of comparing two stored automata.
type Verdict struct {
	First  string
	Second string
	Report equivalence.Report
}

// Message returns the sentence printed for the verdict.
func (v *Verdict) Message() string {
	if v.Report.Equivalent {
		return MessageEquivalent
	}
	return MessageDistinct
}

// Option configures a Checker after config-driven initialization.
type Option func(*Checker)

// WithStore overrides the config-created store.
func WithStore(s store.Store) Option {
	return func(c *Checker) { c.store = s }
}

// WithObserver overrides the config-selected observer.
func WithObserver(o observability.Observer) Option {
	return func(c *Checker) { c.observer = o }
}

// WithEngine overrides the engine; by default one is built over the
// checker's observer.
func WithEngine(e *equivalence.Engine) Option {
	return func(c *Checker) { c.engine = e }
}

// Checker compares automata held in a store.
type Checker struct {
	store    store.Store
	engine   *equivalence.Engine
	observer observability.Observer
	first    string
	second   string
}

// New creates a Checker from configuration.
func New(cfg *Config, opts ...Option) (*Checker, error) {
	s, err := store.NewStore(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	observer, err := resolveObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	c := &Checker{
		store:    store.NewCache(s),
		observer: observer,
		first:    cfg.First,
		second:   cfg.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.engine == nil {
		c.engine = equivalence.NewEngine(equivalence.WithObserver(c.observer))
	}

	return c, nil
}

// resolveObserver looks up a comma-separated list of registry names. More
// than one name fans events out to each in order.
func resolveObserver(names string) (observability.Observer, error) {
	if names == "" {
		names = "slog"
	}

	var observers []observability.Observer
	for name := range strings.SplitSeq(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		o, err := observability.Lookup(name)
		if err != nil {
			return nil, err
		}
		observers = append(observers, o)
	}

	if len(observers) == 1 {
		return observers[0], nil
	}
	return observability.NewMultiObserver(observers...), nil
}

// Engine returns the checker's equivalence engine.
func (c *Checker) Engine() *equivalence.Engine {
	return c.engine
}

// Run compares the configured first and second sources.
func (c *Checker) Run(ctx context.Context) (*Verdict, error) {
	if c.first == "" || c.second == "" {
		return nil, ErrSourceUnset
	}
	return c.Compare(ctx, c.first, c.second)
}

// Compare loads both keys and compares them. Loading stops at the first
// failure and no comparison is made.
func (c *Checker) Compare(ctx context.Context, first, second string) (*Verdict, error) {
	a, err := c.Load(ctx, first)
	if err != nil {
		return nil, err
	}
	b, err := c.Load(ctx, second)
	if err != nil {
		return nil, err
	}

	verdict := &Verdict{
		First:  first,
		Second: second,
		Report: c.engine.Compare(ctx, a, b),
	}

	observability.Emit(ctx, c.observer, EventVerdict, observability.LevelInfo, "checker.Compare", map[string]any{
		"first":      first,
		"second":     second,
		"equivalent": verdict.Report.Equivalent,
		"id":         verdict.Report.ID,
	})

	return verdict, nil
}

// Classify loads every key and groups them into language-equivalence
// classes, in order of first appearance.
func (c *Checker) Classify(ctx context.Context, keys ...string) ([][]string, error) {
	dfas := make([]*automaton.DFA, len(keys))
	for i, key := range keys {
		d, err := c.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		dfas[i] = d
	}

	indices := c.engine.Partition(ctx, dfas)

	classes := make([][]string, len(indices))
	for i, class := range indices {
		classes[i] = make([]string, len(class))
		for j, idx := range class {
			classes[i][j] = keys[idx]
		}
	}

	observability.Emit(ctx, c.observer, EventClassify, observability.LevelVerbose, "checker.Classify", map[string]any{
		"sources": len(keys),
		"classes": len(classes),
	})

	return classes, nil
}

// ClassifyAll classifies every description the store lists.
func (c *Checker) ClassifyAll(ctx context.Context) ([][]string, error) {
	keys, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	if len(keys) == 0 {
		return nil, ErrNoSources
	}
	return c.Classify(ctx, keys...)
}

// Export writes each key's automaton in canonical form to dst under the same
// key. A nil dst rewrites the checker's own store in place. Every key is
// loaded before anything is written.
func (c *Checker) Export(ctx context.Context, dst store.Store, keys ...string) error {
	if dst == nil {
		dst = c.store
	}

	dfas := make([]*automaton.DFA, len(keys))
	for i, key := range keys {
		d, err := c.Load(ctx, key)
		if err != nil {
			return err
		}
		dfas[i] = d
	}

	for i, key := range keys {
		if err := dst.Save(ctx, key, dfas[i]); err != nil {
			observability.Emit(ctx, c.observer, EventError, observability.LevelError, "checker.Export", map[string]any{
				"source": key,
				"error":  err.Error(),
			})
			return &SourceError{Key: key, Err: err}
		}
		observability.Emit(ctx, c.observer, EventExport, observability.LevelVerbose, "checker.Export", map[string]any{
			"source": key,
			"states": dfas[i].StateCount(),
		})
	}

	return nil
}

// Load reads one automaton from the store. Failures come back as
// *SourceError.
func (c *Checker) Load(ctx context.Context, key string) (*automaton.DFA, error) {
	d, err := c.store.Load(ctx, key)
	if err != nil {
		observability.Emit(ctx, c.observer, EventError, observability.LevelWarning, "checker.Load", map[string]any{
			"source": key,
			"error":  err.Error(),
		})
		return nil, &SourceError{Key: key, Err: err}
	}

	observability.Emit(ctx, c.observer, EventLoad, observability.LevelVerbose, "checker.Load", map[string]any{
		"source":    key,
		"states":    d.StateCount(),
		"accepting": len(d.Accepting()),
	})

	return d, nil
}
