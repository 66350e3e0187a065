package equivalence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
	"github.com/tailored-agentic-units/dfaequiv/equivalence"
	"github.com/tailored-agentic-units/dfaequiv/observability"
)

func TestEngine_Compare_Events(t *testing.T) {
	rec := &observability.Recorder{}
	engine := equivalence.NewEngine(equivalence.WithObserver(rec))

	report := engine.Compare(context.Background(), everything(t), nothing(t))

	assert.False(t, report.Equivalent)
	assert.Equal(t, 1, report.FirstStates)
	assert.Equal(t, 1, report.SecondStates)

	id, err := uuid.Parse(report.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	assert.Equal(t, []observability.EventType{
		equivalence.EventCompareStart,
		equivalence.EventCompareComplete,
	}, rec.Types())

	complete := rec.Events()[1]
	assert.Equal(t, report.ID, complete.Data["id"])
	assert.Equal(t, false, complete.Data["equivalent"])
	assert.Equal(t, "", complete.Data["witness"])
}

func TestEngine_Compare_UniqueIDs(t *testing.T) {
	engine := equivalence.NewEngine(equivalence.WithObserver(observability.NoOpObserver{}))
	a := everything(t)

	first := engine.Compare(context.Background(), a, a)
	second := engine.Compare(context.Background(), a, a)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestEngine_Metrics(t *testing.T) {
	metrics := equivalence.NewMetrics()
	engine := equivalence.NewEngine(
		equivalence.WithObserver(observability.NoOpObserver{}),
		equivalence.WithMetrics(metrics),
	)
	require.Same(t, metrics, engine.Metrics())

	ctx := context.Background()
	engine.Compare(ctx, everything(t), everything(t))
	engine.Compare(ctx, everything(t), nothing(t))
	engine.Compare(ctx, nothing(t), nothing(t))

	snap := metrics.Snapshot()
	assert.Equal(t, int64(3), snap.Comparisons)
	assert.Equal(t, int64(2), snap.Equivalent)
	assert.Equal(t, int64(1), snap.Distinct)
	assert.Equal(t, int64(3), snap.PairsVisited)
}

func TestEngine_Compare_Concurrent(t *testing.T) {
	engine := equivalence.NewEngine(equivalence.WithObserver(observability.NoOpObserver{}))

	a, err := automaton.FromTable([][2]int{{0, 1}, {1, 0}}, []int{0})
	require.NoError(t, err)
	b, err := automaton.FromTable([][2]int{{2, 1}, {1, 2}, {0, 1}}, []int{0, 2})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = engine.Compare(context.Background(), a, b).Equivalent
		}()
	}
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "goroutine %d", i)
	}
	assert.Equal(t, int64(len(results)), engine.Metrics().Snapshot().Comparisons)
}

func TestEngine_Partition_Event(t *testing.T) {
	rec := &observability.Recorder{}
	engine := equivalence.NewEngine(equivalence.WithObserver(rec))

	classes := engine.Partition(context.Background(), []*automaton.DFA{everything(t), nothing(t), everything(t)})
	assert.Equal(t, [][]int{{0, 2}, {1}}, classes)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, equivalence.EventPartition, events[0].Type)
	assert.Equal(t, 2, events[0].Data["classes"])
}
