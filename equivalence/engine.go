package equivalence

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
	"github.com/tailored-agentic-units/dfaequiv/observability"
)

// Engine event types.
const (
	EventCompareStart    observability.EventType = "equivalence.compare.start"
	EventCompareComplete observability.EventType = "equivalence.compare.complete"
	EventPartition       observability.EventType = "equivalence.partition"
)

// Report is a Result tagged with the bookkeeping an Engine adds.
type Report struct {
	Result
	ID           string // UUIDv7 identifying this comparison in events.
	FirstStates  int
	SecondStates int
	Elapsed      time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver replaces the default slog observer.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithMetrics shares a Metrics instance between engines.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// Engine runs comparisons for long-lived callers such as the checker and
// the RPC server. The decision itself is Compare; the engine adds ids,
// events and counters around it.
type Engine struct {
	observer observability.Observer
	metrics  *Metrics
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		observer: observability.NewSlogObserver(slog.Default()),
		metrics:  NewMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Metrics returns the engine's counters.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Compare decides equivalence of a and b. ctx only scopes the emitted
// events; the search always runs to completion.
func (e *Engine) Compare(ctx context.Context, a, b *automaton.DFA) Report {
	report := Report{
		ID:           uuid.Must(uuid.NewV7()).String(),
		FirstStates:  a.StateCount(),
		SecondStates: b.StateCount(),
	}

	observability.Emit(ctx, e.observer, EventCompareStart, observability.LevelVerbose, "equivalence.Engine", map[string]any{
		"id":            report.ID,
		"first_states":  report.FirstStates,
		"second_states": report.SecondStates,
	})

	began := time.Now()
	report.Result = Compare(a, b)
	report.Elapsed = time.Since(began)

	e.metrics.record(report.Result)

	data := map[string]any{
		"id":            report.ID,
		"equivalent":    report.Equivalent,
		"pairs_visited": report.PairsVisited,
		"elapsed":       report.Elapsed,
	}
	if !report.Equivalent {
		data["witness"] = automaton.FormatWord(report.Witness)
	}
	observability.Emit(ctx, e.observer, EventCompareComplete, observability.LevelInfo, "equivalence.Engine", data)

	return report
}

// Partition groups dfas into equivalence classes; see the package-level
// Partition.
func (e *Engine) Partition(ctx context.Context, dfas []*automaton.DFA) [][]int {
	classes := Partition(dfas)

	observability.Emit(ctx, e.observer, EventPartition, observability.LevelInfo, "equivalence.Engine", map[string]any{
		"automata": len(dfas),
		"classes":  len(classes),
	})

	return classes
}
