// Package equivalence decides whether two DFAs recognize the same language.
//
// The decision explores the product automaton from the pair of start
// states and looks for a reachable pair where exactly one side accepts. Any
// word leading to such a pair is accepted by one automaton and rejected by
// the other; if no such pair is reachable the languages coincide. The work
// is bounded by |a| * |b| pairs, each expanded along two edges.
//
// The functions in this package allocate their search state per call and
// only read their arguments, so they are safe to call concurrently.
package equivalence

import (
	"slices"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
)

// Result describes the outcome of Compare.
type Result struct {
	Equivalent bool
	// Witness is a shortest word accepted by exactly one of the automata.
	// It is nil when Equivalent is true and may be empty (the empty word)
	// when the start states already disagree.
	Witness []automaton.Symbol
	// PairsVisited counts product states dequeued before the search ended.
	PairsVisited int
}

// Equivalent reports whether a and b accept the same language.
func Equivalent(a, b *automaton.DFA) bool {
	m := b.StateCount()
	visited := make([]bool, a.StateCount()*m)

	stack := []int{automaton.Start*m + automaton.Start}
	visited[stack[0]] = true

	for len(stack) > 0 {
		pair := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p, q := pair/m, pair%m
		if a.IsAccepting(p) != b.IsAccepting(q) {
			return false
		}

		for _, s := range automaton.Alphabet {
			next := a.Next(p, s)*m + b.Next(q, s)
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}

	return true
}

// Compare runs the same search breadth first so that, when the automata
// differ, the returned witness is as short as possible.
func Compare(a, b *automaton.DFA) Result {
	m := b.StateCount()
	size := a.StateCount() * m

	visited := make([]bool, size)
	parent := make([]int, size)
	via := make([]automaton.Symbol, size)

	start := automaton.Start*m + automaton.Start
	queue := make([]int, 1, min(size, 1024))
	queue[0] = start
	visited[start] = true
	parent[start] = -1

	for head := 0; head < len(queue); head++ {
		pair := queue[head]
		p, q := pair/m, pair%m

		if a.IsAccepting(p) != b.IsAccepting(q) {
			return Result{
				Witness:      witness(parent, via, pair),
				PairsVisited: head + 1,
			}
		}

		for _, s := range automaton.Alphabet {
			next := a.Next(p, s)*m + b.Next(q, s)
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = pair
			via[next] = s
			queue = append(queue, next)
		}
	}

	return Result{Equivalent: true, PairsVisited: len(queue)}
}

func witness(parent []int, via []automaton.Symbol, pair int) []automaton.Symbol {
	word := []automaton.Symbol{}
	for ; parent[pair] >= 0; pair = parent[pair] {
		word = append(word, via[pair])
	}
	slices.Reverse(word)
	return word
}

// Partition groups the indices of dfas into language-equivalence classes.
// Classes are ordered by their first member and members keep input order.
// Each automaton is compared against one representative per class, which is
// sound because equivalence is transitive.
func Partition(dfas []*automaton.DFA) [][]int {
	var classes [][]int

next:
	for i, d := range dfas {
		for c, class := range classes {
			if Equivalent(dfas[class[0]], d) {
				classes[c] = append(classes[c], i)
				continue next
			}
		}
		classes = append(classes, []int{i})
	}

	return classes
}
