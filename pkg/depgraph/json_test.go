package depgraph

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/musicscience37/htbuild/pkg/recipe"
)

func TestWriteJSON(t *testing.T) {
	g := Build(recipe.Default(), recipe.Options{RequirementsForTests: true})

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out jsonGraph
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(out.Nodes) != 4 || len(out.Edges) != 3 {
		t.Fatalf("got %d nodes, %d edges", len(out.Nodes), len(out.Edges))
	}
	if out.Nodes[0].Kind != "root" || out.Nodes[0].Row != nil {
		t.Errorf("first node = %+v, want root without row", out.Nodes[0])
	}
	for _, n := range out.Nodes[1:] {
		if n.Kind != "build_requires" || n.Row == nil || *n.Row != 1 {
			t.Errorf("node %+v", n)
		}
	}
	if out.Edges[1].To != "trompeloeil/42" {
		t.Errorf("edges[1] = %+v", out.Edges[1])
	}
}
