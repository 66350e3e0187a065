package automaton

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Read decodes a DFA from its textual description:
//
//	n f
//	s t0 t1     (n rows, any order, each state exactly once)
//	a1 ... af   (accepting states)
//
// Tokens are separated by arbitrary whitespace. Rows naming a state twice or
// outside [0, n), and input ending before every state has its row, are
// rejected with ErrMalformed.
func Read(r io.Reader) (*DFA, error) {
	sc := &tokenScanner{s: bufio.NewScanner(r)}
	sc.s.Split(bufio.ScanWords)

	n, err := sc.next("state count")
	if err != nil {
		return nil, err
	}
	f, err := sc.next("accepting count")
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: state count %d must be positive", ErrMalformed, n)
	}
	if f < 0 {
		return nil, fmt.Errorf("%w: accepting count %d is negative", ErrMalformed, f)
	}

	// Counts come from the input, so nothing is sized by them up front.
	seen := make(map[int]bool)
	transitions := make([]Transition, 0, min(n, 1024))
	for range n {
		s, err := sc.next("state number")
		if errors.Is(err, errEnd) {
			return nil, fmt.Errorf("%w: no transitions for state %d", ErrMalformed, firstMissing(seen))
		}
		if err != nil {
			return nil, err
		}
		if s < 0 || s >= n || seen[s] {
			return nil, fmt.Errorf("%w: bad state number %d", ErrMalformed, s)
		}
		seen[s] = true

		var succ [2]int
		for i, what := range [2]string{"transition on 0", "transition on 1"} {
			succ[i], err = sc.next(what)
			if errors.Is(err, errEnd) {
				return nil, fmt.Errorf("%w: incomplete transitions for state %d", ErrMalformed, s)
			}
			if err != nil {
				return nil, err
			}
		}
		transitions = append(transitions, Transition{From: s, Zero: succ[0], One: succ[1]})
	}

	accepting := make([]int, 0, min(f, 1024))
	for range f {
		s, err := sc.next("accepting state")
		if err != nil {
			return nil, err
		}
		if s < 0 || s >= n {
			return nil, fmt.Errorf("%w: bad accept state %d", ErrMalformed, s)
		}
		accepting = append(accepting, s)
	}

	return New(n, transitions, accepting)
}

// Parse is Read over a string.
func Parse(text string) (*DFA, error) {
	return Read(strings.NewReader(text))
}

// WriteTo writes d in the format accepted by Read, with rows in increasing
// state order and accepting states ascending on the final line.
func (d *DFA) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func (d *DFA) String() string {
	var b strings.Builder

	accepting := d.Accepting()
	fmt.Fprintf(&b, "%d %d\n", len(d.next), len(accepting))
	for state, succ := range d.next {
		fmt.Fprintf(&b, "%d %d %d\n", state, succ[0], succ[1])
	}
	for i, s := range accepting {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(s))
	}
	b.WriteByte('\n')

	return b.String()
}

// errEnd marks input that stops before the description is complete.
var errEnd = fmt.Errorf("%w: unexpected end of input", ErrSyntax)

func firstMissing(seen map[int]bool) int {
	s := 0
	for seen[s] {
		s++
	}
	return s
}

type tokenScanner struct {
	s *bufio.Scanner
}

func (t *tokenScanner) next(what string) (int, error) {
	if !t.s.Scan() {
		if err := t.s.Err(); err != nil {
			return 0, fmt.Errorf("reading %s: %w", what, err)
		}
		return 0, fmt.Errorf("%w reading %s", errEnd, what)
	}
	v, err := strconv.Atoi(t.s.Text())
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrSyntax, what, t.s.Text())
	}
	return v, nil
}
