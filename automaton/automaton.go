// Package automaton models complete deterministic finite automata over the
// binary alphabet {0, 1}. State 0 is always the start state.
//
// A DFA value is immutable once constructed: constructors copy their inputs
// and accessors return copies, so a *DFA may be shared freely between
// goroutines.
//
//	d, err := automaton.FromTable([][2]int{{0, 1}, {1, 1}}, []int{1})
//	d.Accepts("0010") // true
package automaton

import (
	"fmt"
	"slices"
)

// Start is the start state of every DFA.
const Start = 0

// Symbol is a letter of the binary alphabet.
type Symbol uint8

const (
	Zero Symbol = 0
	One  Symbol = 1
)

// Alphabet lists the symbols in order.
var Alphabet = [2]Symbol{Zero, One}

func (s Symbol) String() string {
	if s == Zero {
		return "0"
	}
	return "1"
}

// Transition is one row of a transition table: the successors of From on
// symbol 0 and symbol 1.
type Transition struct {
	From int
	Zero int
	One  int
}

// DFA is a complete deterministic automaton with states 0..StateCount()-1.
type DFA struct {
	next   [][2]int
	accept []bool
}

// New builds a DFA from an explicit state count, one transition row per
// state (in any order) and the accepting states. It returns an error
// wrapping ErrMalformed if the table is partial, defines a state twice, or
// references a state outside [0, stateCount).
func New(stateCount int, transitions []Transition, accepting []int) (*DFA, error) {
	if stateCount <= 0 {
		return nil, fmt.Errorf("%w: state count %d must be positive", ErrMalformed, stateCount)
	}

	// A complete table has exactly one row per state. Checking the row count
	// first keeps an oversized stateCount from being allocated.
	if len(transitions) != stateCount {
		defined := make(map[int]bool, len(transitions))
		for _, t := range transitions {
			if err := checkRow(t, stateCount, defined[t.From]); err != nil {
				return nil, err
			}
			defined[t.From] = true
		}
		return nil, fmt.Errorf("%w: no transitions for state %d", ErrMalformed, firstMissing(defined))
	}

	next := make([][2]int, stateCount)
	defined := make([]bool, stateCount)
	for _, t := range transitions {
		if err := checkRow(t, stateCount, t.From >= 0 && t.From < stateCount && defined[t.From]); err != nil {
			return nil, err
		}
		defined[t.From] = true
		next[t.From] = [2]int{t.Zero, t.One}
	}

	accept := make([]bool, stateCount)
	for _, s := range accepting {
		if s < 0 || s >= stateCount {
			return nil, fmt.Errorf("%w: bad accept state %d", ErrMalformed, s)
		}
		accept[s] = true
	}

	return &DFA{next: next, accept: accept}, nil
}

func checkRow(t Transition, stateCount int, duplicate bool) error {
	if t.From < 0 || t.From >= stateCount {
		return fmt.Errorf("%w: bad state number %d", ErrMalformed, t.From)
	}
	if duplicate {
		return fmt.Errorf("%w: bad state number %d (defined twice)", ErrMalformed, t.From)
	}
	for _, target := range [2]int{t.Zero, t.One} {
		if target < 0 || target >= stateCount {
			return fmt.Errorf("%w: bad transition target %d from state %d", ErrMalformed, target, t.From)
		}
	}
	return nil
}

// FromTable builds a DFA whose state i moves to table[i][0] on 0 and
// table[i][1] on 1.
func FromTable(table [][2]int, accepting []int) (*DFA, error) {
	transitions := make([]Transition, len(table))
	for i, row := range table {
		transitions[i] = Transition{From: i, Zero: row[0], One: row[1]}
	}
	return New(len(table), transitions, accepting)
}

// StateCount returns the number of states.
func (d *DFA) StateCount() int {
	return len(d.next)
}

// Next returns the successor of state on symbol s.
func (d *DFA) Next(state int, s Symbol) int {
	return d.next[state][s]
}

// IsAccepting reports whether state is accepting.
func (d *DFA) IsAccepting(state int) bool {
	return d.accept[state]
}

// Accepting returns the accepting states in ascending order.
func (d *DFA) Accepting() []int {
	states := make([]int, 0, len(d.accept))
	for state, ok := range d.accept {
		if ok {
			states = append(states, state)
		}
	}
	return states
}

// Transitions returns the transition table as rows ordered by state.
func (d *DFA) Transitions() []Transition {
	rows := make([]Transition, len(d.next))
	for state, succ := range d.next {
		rows[state] = Transition{From: state, Zero: succ[0], One: succ[1]}
	}
	return rows
}

// Table returns a copy of the transition table indexed by state.
func (d *DFA) Table() [][2]int {
	return slices.Clone(d.next)
}

// Run feeds input to the automaton from the start state and reports whether
// it ends in an accepting state.
func (d *DFA) Run(input []Symbol) bool {
	state := Start
	for _, s := range input {
		state = d.next[state][s]
	}
	return d.accept[state]
}

// Accepts is Run for a word spelled with the characters '0' and '1'.
// Any other character makes the word fall outside the alphabet and the
// result is false.
func (d *DFA) Accepts(word string) bool {
	input, err := ParseWord(word)
	if err != nil {
		return false
	}
	return d.Run(input)
}

// ParseWord converts a string of '0' and '1' characters into symbols.
func ParseWord(word string) ([]Symbol, error) {
	input := make([]Symbol, 0, len(word))
	for i, c := range word {
		switch c {
		case '0':
			input = append(input, Zero)
		case '1':
			input = append(input, One)
		default:
			return nil, fmt.Errorf("%w: symbol %q at offset %d", ErrSyntax, c, i)
		}
	}
	return input, nil
}

// FormatWord is the inverse of ParseWord.
func FormatWord(input []Symbol) string {
	buf := make([]byte, len(input))
	for i, s := range input {
		buf[i] = '0' + byte(s)
	}
	return string(buf)
}
