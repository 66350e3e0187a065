package equivalence

import "sync/atomic"

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Comparisons  int64
	Equivalent   int64
	Distinct     int64
	PairsVisited int64
}

// Metrics counts comparisons made by an Engine. Safe for concurrent use.
type Metrics struct {
	comparisons  atomic.Int64
	equivalent   atomic.Int64
	distinct     atomic.Int64
	pairsVisited atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) record(r Result) {
	m.comparisons.Add(1)
	m.pairsVisited.Add(int64(r.PairsVisited))
	if r.Equivalent {
		m.equivalent.Add(1)
	} else {
		m.distinct.Add(1)
	}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Comparisons:  m.comparisons.Load(),
		Equivalent:   m.equivalent.Load(),
		Distinct:     m.distinct.Load(),
		PairsVisited: m.pairsVisited.Load(),
	}
}
