package server

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/dfaequiv/automaton"
)

// CompareResponse is the decoded reply of the Compare procedure.
type CompareResponse struct {
	ID           string
	Equivalent   bool
	Witness      string
	PairsVisited int
}

// Client calls a remote EquivalenceService.
type Client struct {
	compare   *connect.Client[structpb.Struct, structpb.Struct]
	partition *connect.Client[structpb.Struct, structpb.Struct]
}

// NewClient targets the service at baseURL (scheme and host, optional path
// prefix).
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		compare:   connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+CompareProcedure, opts...),
		partition: connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+PartitionProcedure, opts...),
	}
}

func (c *Client) Compare(ctx context.Context, a, b *automaton.DFA) (*CompareResponse, error) {
	req, err := structpb.NewStruct(map[string]any{
		"first":  a.String(),
		"second": b.String(),
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.compare.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}

	fields := resp.Msg.GetFields()
	return &CompareResponse{
		ID:           fields["id"].GetStringValue(),
		Equivalent:   fields["equivalent"].GetBoolValue(),
		Witness:      fields["witness"].GetStringValue(),
		PairsVisited: int(fields["pairs_visited"].GetNumberValue()),
	}, nil
}

func (c *Client) Partition(ctx context.Context, dfas ...*automaton.DFA) ([][]int, error) {
	texts := make([]any, len(dfas))
	for i, d := range dfas {
		texts[i] = d.String()
	}

	req, err := structpb.NewStruct(map[string]any{"automata": texts})
	if err != nil {
		return nil, err
	}

	resp, err := c.partition.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}

	list := resp.Msg.GetFields()["classes"].GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: classes", ErrMissingField)
	}

	classes := make([][]int, len(list.GetValues()))
	for i, v := range list.GetValues() {
		for _, m := range v.GetListValue().GetValues() {
			classes[i] = append(classes[i], int(m.GetNumberValue()))
		}
	}
	return classes, nil
}
