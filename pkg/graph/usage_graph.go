package graph

import (
	"github.com/ritzau/emit-analyzer/pkg/semantic"
	"gonum.org/v1/gonum/graph/simple"
)

// SymbolNode represents one declaration in the usage graph.
type SymbolNode struct {
	Name string // stable name, or the referenced name for placeholders
	Kind string // component, directive, pipe, module, unresolved
	Path string // declaring file, "" for unresolved references
}

// EdgeKind labels why one declaration points at another.
type EdgeKind string

const (
	EdgeUses     EdgeKind = "uses"     // component template uses directive/pipe
	EdgeDeclares EdgeKind = "declares" // module directly declares member
)

// Edge is one labeled dependency between two declarations.
type Edge struct {
	From *SymbolNode
	To   *SymbolNode
	Kind EdgeKind
}

// UsageGraph is the declaration-level usage graph of one build snapshot.
type UsageGraph struct {
	graph  *simple.DirectedGraph
	nodes  map[semantic.Symbol]*SymbolNode
	ids    map[semantic.Symbol]int64
	byID   map[int64]*SymbolNode
	edges  []Edge
	nextID int64
}

// NewUsageGraph creates an empty usage graph.
func NewUsageGraph() *UsageGraph {
	return &UsageGraph{
		graph: simple.NewDirectedGraph(),
		nodes: make(map[semantic.Symbol]*SymbolNode),
		ids:   make(map[semantic.Symbol]int64),
		byID:  make(map[int64]*SymbolNode),
	}
}

// AddSymbol adds a declaration to the graph, once.
func (ug *UsageGraph) AddSymbol(sym semantic.Symbol) *SymbolNode {
	if node, exists := ug.nodes[sym]; exists {
		return node
	}

	node := &SymbolNode{
		Name: nodeName(sym),
		Kind: kindOf(sym),
		Path: sym.Path(),
	}
	ug.nodes[sym] = node
	ug.ids[sym] = ug.nextID
	ug.byID[ug.nextID] = node

	ug.graph.AddNode(simple.Node(ug.nextID))
	ug.nextID++

	return node
}

// AddEdge adds a labeled edge between two declarations, adding the nodes as
// needed. Parallel edges of the same kind collapse to one.
func (ug *UsageGraph) AddEdge(from, to semantic.Symbol, kind EdgeKind) {
	fromNode := ug.AddSymbol(from)
	toNode := ug.AddSymbol(to)

	fromID := ug.ids[from]
	toID := ug.ids[to]
	if fromID == toID {
		return
	}

	if !ug.graph.HasEdgeFromTo(fromID, toID) {
		ug.graph.SetEdge(ug.graph.NewEdge(ug.graph.Node(fromID), ug.graph.Node(toID)))
	}
	for _, e := range ug.edges {
		if e.From == fromNode && e.To == toNode && e.Kind == kind {
			return
		}
	}
	ug.edges = append(ug.edges, Edge{From: fromNode, To: toNode, Kind: kind})
}

// Node returns the node for sym, or nil.
func (ug *UsageGraph) Node(sym semantic.Symbol) *SymbolNode {
	return ug.nodes[sym]
}

// NodeByID returns the node with the given gonum ID, or nil.
func (ug *UsageGraph) NodeByID(id int64) *SymbolNode {
	return ug.byID[id]
}

// Nodes returns every node in insertion order.
func (ug *UsageGraph) Nodes() []*SymbolNode {
	nodes := make([]*SymbolNode, ug.nextID)
	for id := int64(0); id < ug.nextID; id++ {
		nodes[id] = ug.byID[id]
	}
	return nodes
}

// Edges returns every labeled edge in insertion order.
func (ug *UsageGraph) Edges() []Edge {
	return ug.edges
}

// Graph returns the underlying directed graph for traversal algorithms.
func (ug *UsageGraph) Graph() *simple.DirectedGraph {
	return ug.graph
}

// Dependencies returns the nodes sym points at, in edge insertion order.
func (ug *UsageGraph) Dependencies(sym semantic.Symbol) []*SymbolNode {
	node := ug.nodes[sym]
	if node == nil {
		return nil
	}
	var out []*SymbolNode
	for _, e := range ug.edges {
		if e.From == node {
			out = append(out, e.To)
		}
	}
	return out
}

// BuildUsageGraph derives the usage graph of a finalized snapshot: every
// symbol becomes a node, component template usage and module membership
// become edges. Unresolved references show up as their own nodes so external
// dependencies stay visible.
func BuildUsageGraph(snapshot *semantic.Graph) *UsageGraph {
	ug := NewUsageGraph()
	if snapshot == nil {
		return ug
	}

	for _, sym := range snapshot.Symbols() {
		ug.AddSymbol(sym)

		switch s := sym.(type) {
		case *semantic.ComponentSymbol:
			for _, used := range s.UsedDirectives() {
				ug.AddEdge(sym, used, EdgeUses)
			}
			for _, used := range s.UsedPipes() {
				ug.AddEdge(sym, used, EdgeUses)
			}
		case *semantic.ModuleSymbol:
			for _, member := range s.Members() {
				ug.AddEdge(sym, member, EdgeDeclares)
			}
		}
	}

	return ug
}

func nodeName(sym semantic.Symbol) string {
	if name := sym.StableName(); name != "" {
		return name
	}
	return sym.Decl().Name()
}

func kindOf(sym semantic.Symbol) string {
	switch sym.(type) {
	case *semantic.ComponentSymbol:
		return "component"
	case *semantic.DirectiveSymbol:
		return "directive"
	case *semantic.PipeSymbol:
		return "pipe"
	case *semantic.ModuleSymbol:
		return "module"
	default:
		return "unresolved"
	}
}
