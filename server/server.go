// Package server exposes the equivalence engine as a Connect RPC service.
//
// Messages are google.protobuf.Struct values so the service works with the
// Connect, gRPC and gRPC-Web protocols without generated code. Automata
// travel in the same text format automaton.Read accepts.
//
//	Compare   {first: string, second: string}
//	       -> {equivalent: bool, witness: string, pairs_visited: number, id: string}
//	Partition {automata: [string]}
//	       -> {classes: [[number]]}
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
	"github.com/tailored-agentic-units/dfaequiv/equivalence"
)

const (
	ServiceName = "dfaequiv.v1.EquivalenceService"

	CompareProcedure   = "/" + ServiceName + "/Compare"
	PartitionProcedure = "/" + ServiceName + "/Partition"
)

var (
	// ErrMissingField reports a request without a required field.
	ErrMissingField = errors.New("missing field")
	// ErrTooLarge reports a request whose product automaton exceeds
	// Limits.MaxPairs.
	ErrTooLarge = errors.New("request too large")
)

// Limits bounds the work a single request may ask for.
type Limits struct {
	MaxRequestBytes int // encoded request size; larger requests fail with CodeResourceExhausted
	MaxPairs        int // state-pair grid of one comparison
}

// DefaultLimits allows 1 MiB requests and a 2^24 pair grid.
func DefaultLimits() Limits {
	return Limits{
		MaxRequestBytes: 1 << 20,
		MaxPairs:        1 << 24,
	}
}

// Merge applies non-zero values from source into l.
func (l *Limits) Merge(source *Limits) {
	if source.MaxRequestBytes > 0 {
		l.MaxRequestBytes = source.MaxRequestBytes
	}
	if source.MaxPairs > 0 {
		l.MaxPairs = source.MaxPairs
	}
}

type service struct {
	engine *equivalence.Engine
	limits Limits
}

// NewHandler returns the path prefix and handler serving the service.
// Zero fields of limits take their DefaultLimits value.
// Mount it on a mux: mux.Handle(server.NewHandler(engine, server.Limits{})).
func NewHandler(engine *equivalence.Engine, limits Limits, opts ...connect.HandlerOption) (string, http.Handler) {
	merged := DefaultLimits()
	merged.Merge(&limits)
	svc := &service{engine: engine, limits: merged}

	opts = append([]connect.HandlerOption{connect.WithReadMaxBytes(merged.MaxRequestBytes)}, opts...)

	mux := http.NewServeMux()
	mux.Handle(CompareProcedure, connect.NewUnaryHandler(CompareProcedure, svc.compare, opts...))
	mux.Handle(PartitionProcedure, connect.NewUnaryHandler(PartitionProcedure, svc.partition, opts...))

	return "/" + ServiceName + "/", mux
}

func (s *service) compare(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()

	a, err := decodeField(fields, "first")
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	b, err := decodeField(fields, "second")
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.checkPairs(a.StateCount(), b.StateCount()); err != nil {
		return nil, err
	}

	report := s.engine.Compare(ctx, a, b)

	out := map[string]any{
		"equivalent":    report.Equivalent,
		"pairs_visited": report.PairsVisited,
		"id":            report.ID,
	}
	if !report.Equivalent {
		out["witness"] = automaton.FormatWord(report.Witness)
	}

	msg, err := structpb.NewStruct(out)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

func (s *service) partition(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	list := req.Msg.GetFields()["automata"].GetListValue()
	if list == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%w: automata", ErrMissingField))
	}

	dfas := make([]*automaton.DFA, len(list.GetValues()))
	for i, v := range list.GetValues() {
		d, err := automaton.Parse(v.GetStringValue())
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("automata[%d]: %w", i, err))
		}
		dfas[i] = d
	}

	// Every comparison pairs two of the inputs, so the two largest bound
	// the grid of any single one.
	var largest, second int
	for _, d := range dfas {
		switch n := d.StateCount(); {
		case n > largest:
			largest, second = n, largest
		case n > second:
			second = n
		}
	}
	if err := s.checkPairs(largest, second); err != nil {
		return nil, err
	}

	classes := s.engine.Partition(ctx, dfas)

	values := make([]any, len(classes))
	for i, class := range classes {
		members := make([]any, len(class))
		for j, idx := range class {
			members[j] = idx
		}
		values[i] = members
	}

	msg, err := structpb.NewStruct(map[string]any{"classes": values})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

func (s *service) checkPairs(n, m int) error {
	if n > 0 && m > s.limits.MaxPairs/n {
		return connect.NewError(connect.CodeResourceExhausted,
			fmt.Errorf("%w: %d x %d states exceeds %d pairs", ErrTooLarge, n, m, s.limits.MaxPairs))
	}
	return nil
}

func decodeField(fields map[string]*structpb.Value, name string) (*automaton.DFA, error) {
	v, ok := fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	d, err := automaton.Parse(v.GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}
