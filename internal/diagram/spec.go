package diagram

import (
	"bytes"
	"fmt"

	"github.com/emicklei/dot"

	"github.com/aristath/wfgraph/internal/graph"
	"github.com/aristath/wfgraph/internal/status"
)

// Default node attributes shared by every diagram.
const (
	NodeShape = "rectangle"
	NodeStyle = "rounded"
)

// Attrs are the visual attributes of a node.
type Attrs struct {
	Shape string
	Style string
	Color string
}

// IsZero reports whether no attribute is set.
func (a Attrs) IsZero() bool {
	return a == Attrs{}
}

// Node is a diagram vertex.
type Node struct {
	ID     string
	Label  string
	Status status.Status
	Attrs  Attrs // Zero when the diagram is not annotated
}

// Edge is a diagram arrow from a task to the task it depends on.
type Edge struct {
	From string
	To   string
}

// Spec is a renderer-independent description of a diagram.
type Spec struct {
	Name      string // Base name of the output file
	Comment   string
	RankDir   string
	Annotated bool
	Default   Attrs // Graph-wide node attributes, set only when not annotated
	Nodes     []Node
	Edges     []Edge
}

// NewSpec derives a diagram from a graph. With an empty overlay every node
// shares the graph-wide default style; otherwise each node is colored by its
// status, with unreported tasks treated as status.Unknown.
func NewSpec(g *graph.Graph, overlay status.Overlay, name string) *Spec {
	spec := &Spec{
		Name:      name,
		Comment:   "Workflow",
		RankDir:   "TB",
		Annotated: !overlay.Empty(),
	}

	if !spec.Annotated {
		spec.Default = Attrs{Shape: NodeShape, Style: NodeStyle}
	}

	nodes := g.Nodes()
	spec.Nodes = make([]Node, 0, len(nodes))
	for _, n := range nodes {
		node := Node{ID: n.Name, Label: n.Name}
		if spec.Annotated {
			node.Status = overlay.Lookup(n.Name)
			node.Attrs = Attrs{Shape: NodeShape, Style: NodeStyle, Color: node.Status.Color()}
		}
		spec.Nodes = append(spec.Nodes, node)
	}

	edges := g.Edges()
	spec.Edges = make([]Edge, 0, len(edges))
	for _, e := range edges {
		spec.Edges = append(spec.Edges, Edge{
			From: g.Node(e.From).Name,
			To:   g.Node(e.To).Name,
		})
	}

	return spec
}

// Source encodes the spec as Graphviz DOT. The graph itself is unnamed, as
// the diagram name only selects the output file.
func (s *Spec) Source() []byte {
	g := dot.NewGraph(dot.Directed)
	if s.RankDir != "" {
		g.Attr("rankdir", s.RankDir)
	}
	if !s.Default.IsZero() {
		defaults := s.Default
		g.NodeInitializer(func(n dot.Node) {
			setAttrs(n, defaults)
		})
	}

	nodes := make(map[string]dot.Node, len(s.Nodes))
	for _, n := range s.Nodes {
		node := g.Node(n.ID).Attr("label", n.Label)
		setAttrs(node, n.Attrs)
		nodes[n.ID] = node
	}

	for _, e := range s.Edges {
		g.Edge(nodes[e.From], nodes[e.To])
	}

	var b bytes.Buffer
	if s.Comment != "" {
		fmt.Fprintf(&b, "// %s\n", s.Comment)
	}
	b.WriteString(g.String())
	if !bytes.HasSuffix(b.Bytes(), []byte("\n")) {
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// setAttrs copies the non-empty attributes onto a DOT node.
func setAttrs(n dot.Node, a Attrs) {
	if a.Shape != "" {
		n.Attr("shape", a.Shape)
	}
	if a.Style != "" {
		n.Attr("style", a.Style)
	}
	if a.Color != "" {
		n.Attr("color", a.Color)
	}
}
