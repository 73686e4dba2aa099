package depgraph

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID      string `json:"id"`
	Row     *int   `json:"row,omitempty"`
	Kind    string `json:"kind"`
	Version string `json:"version,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// WriteJSON encodes g as indented JSON. Nodes and edges keep insertion
// order, so the root comes first.
func WriteJSON(g *Graph, w io.Writer) error {
	out := jsonGraph{
		Nodes: make([]jsonNode, len(g.Nodes())),
		Edges: make([]jsonEdge, len(g.Edges())),
	}

	for i, n := range g.Nodes() {
		nd := jsonNode{ID: n.ID, Kind: n.Kind.String(), Version: n.Version}
		if n.Row != 0 {
			row := n.Row
			nd.Row = &row
		}
		out.Nodes[i] = nd
	}
	for i, e := range g.Edges() {
		out.Edges[i] = jsonEdge{From: e.From, To: e.To, Kind: e.Kind.String()}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
