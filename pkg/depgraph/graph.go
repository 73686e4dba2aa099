package depgraph

import (
	"errors"

	"github.com/musicscience37/htbuild/pkg/recipe"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] for an empty ID.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when the ID exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint is missing.
	ErrUnknownNode = errors.New("unknown node")
)

// Kind says how a node entered the graph.
type Kind int

const (
	// KindRoot is the recipe itself.
	KindRoot Kind = iota
	// KindRequires is a mandatory requirement.
	KindRequires
	// KindBuildRequires is a conditional build requirement.
	KindBuildRequires
)

// String returns the Conan hook name for the kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindRequires:
		return "requires"
	case KindBuildRequires:
		return "build_requires"
	default:
		return "unknown"
	}
}

// Node is a package in the graph.
type Node struct {
	ID      string // Conan reference, unique within the graph
	Kind    Kind
	Row     int
	Version string
}

// Edge connects a package to one of its requirements.
type Edge struct {
	From string
	To   string
	Kind Kind
}

// Graph is a small directed graph of packages, in insertion order.
// It is not safe for concurrent use.
type Graph struct {
	nodes []*Node
	index map[string]*Node
	edges []Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

// AddNode inserts n. IDs must be non-empty and unique.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.index[n.ID]; ok {
		return ErrDuplicateNodeID
	}
	node := &n
	g.nodes = append(g.nodes, node)
	g.index[n.ID] = node
	return nil
}

// AddEdge inserts e. Both endpoints must already exist.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.index[e.From]; !ok {
		return ErrUnknownNode
	}
	if _, ok := g.index[e.To]; !ok {
		return ErrUnknownNode
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node looks up a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Build creates the requirement graph of r under opts. The build
// requirements follow [recipe.Recipe.BuildRequirements], so with the default
// options only the mandatory set appears.
//
// A reference listed by both hooks is a single node, kept with the kind it was
// first seen under, and gets one edge per hook.
func Build(r *recipe.Recipe, opts recipe.Options) *Graph {
	g := New()
	meta := r.Metadata()
	root := meta.Reference()
	g.index[root] = &Node{ID: root, Kind: KindRoot, Version: meta.Version}
	g.nodes = append(g.nodes, g.index[root])

	add := func(set recipe.RequirementSet, kind Kind) {
		for _, req := range set {
			id := req.String()
			if _, ok := g.index[id]; !ok {
				n := &Node{ID: id, Kind: kind, Row: 1, Version: req.Version}
				g.nodes = append(g.nodes, n)
				g.index[id] = n
			}
			g.edges = append(g.edges, Edge{From: root, To: id, Kind: kind})
		}
	}
	add(r.Requirements(), KindRequires)
	add(r.BuildRequirements(opts), KindBuildRequires)
	return g
}
