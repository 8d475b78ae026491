// Package graph implements the node-graph container: an id-addressed
// arena of sop.Node plus the connection table between them, separate
// from the live port-to-port wiring sop.Node.Ports already carries
// (spec.md §4.9, "graph" module). The split exists so this package
// can serialize/reorder the DAG by integer id without sop needing to
// import graph back (sop.Resolver takes a *port.Port, never a node id).
package graph

import (
	"nodeflux/internal/bitm"
	"nodeflux/port"
	"nodeflux/sop"
)

// GraphNode wraps a cooked sop.Node with the editor-facing metadata
// spec.md §4.9 attaches to a graph node but that sop.Node itself has
// no business knowing about (position is a pure UI concern; display
// marks which single node's output the engine exports).
type GraphNode struct {
	ID      int
	Name    string
	Node    *sop.Node
	X, Y    float32
	Display bool
}

// Connection records that Dst's input port at InputIndex is linked to
// Src's primary output. It mirrors the live port.Connect link made at
// add-time, and exists purely so the graph can be serialized and
// rebuilt without walking live Port pointers.
type Connection struct {
	Src        int
	Dst        int
	InputIndex int
}

// NodeGraph is the owning arena for every node in a procedural network.
// Node ids are allocated from a bitm.Bitm free-list exactly as
// spec.md §9's "arena-own the nodes, reference by id" resolution
// describes, grounded on internal/bitm's original role as the
// teacher's resource-handle allocator.
type NodeGraph struct {
	ids     bitm.Bitm[uint32]
	nodes   map[int]*GraphNode
	conns   []Connection
	display int // id of the display node, or -1
	time    float64
}

// New creates an empty graph.
func New() *NodeGraph {
	return &NodeGraph{nodes: make(map[int]*GraphNode), display: -1}
}

func (g *NodeGraph) allocID() int {
	idx, ok := g.ids.Search()
	if !ok {
		idx = g.ids.Grow(1)
	}
	g.ids.Set(idx)
	return idx
}

// AddNode creates a new sop.Node of the given type and adds it to the
// graph, returning the allocated GraphNode. Variadic-input types
// (merge, switch) honor numInputs; fixed-arity types ignore it.
func (g *NodeGraph) AddNode(typeName, name string, numInputs int) (*GraphNode, error) {
	id := g.allocID()
	n, err := sop.CreateVariadic(id, typeName, numInputs)
	if err != nil {
		g.ids.Unset(id)
		return nil, err
	}
	gn := &GraphNode{ID: id, Name: name, Node: n}
	g.nodes[id] = gn
	return gn, nil
}

// AddNodeWithID creates a node at a caller-chosen id, for graph
// deserialization where ids must be preserved verbatim (spec.md §6).
// It fails if the id is already in use.
func (g *NodeGraph) AddNodeWithID(id int, typeName, name string, numInputs int) (*GraphNode, error) {
	if _, exists := g.nodes[id]; exists {
		return nil, sop.NewError(sop.ParameterInvalid, "graph: node id %d already in use", id)
	}
	for g.ids.Len() <= id {
		g.ids.Grow(1)
	}
	if g.ids.IsSet(id) {
		return nil, sop.NewError(sop.ParameterInvalid, "graph: node id %d already in use", id)
	}
	g.ids.Set(id)
	n, err := sop.CreateVariadic(id, typeName, numInputs)
	if err != nil {
		g.ids.Unset(id)
		return nil, err
	}
	gn := &GraphNode{ID: id, Name: name, Node: n}
	g.nodes[id] = gn
	return gn, nil
}

// RemoveNode deletes a node and every connection touching it,
// unlinking the live ports as well and marking each downstream
// consumer dirty so its next cook no longer sees the removed output.
func (g *NodeGraph) RemoveNode(id int) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	kept := g.conns[:0]
	for _, c := range g.conns {
		if c.Src == id || c.Dst == id {
			if dst, ok := g.nodes[c.Dst]; ok && c.Src == id {
				port.Disconnect(dst.Node.Ports.Input(c.InputIndex))
				dst.Node.MarkDirty()
			}
			continue
		}
		kept = append(kept, c)
	}
	g.conns = kept
	g.nodes[id].Node.Ports.DisconnectAll()
	delete(g.nodes, id)
	g.ids.Unset(id)
	if g.display == id {
		g.display = -1
	}
}

// Node looks up a GraphNode by id.
func (g *NodeGraph) Node(id int) (*GraphNode, bool) {
	gn, ok := g.nodes[id]
	return gn, ok
}

// Nodes returns every GraphNode in unspecified order.
func (g *NodeGraph) Nodes() []*GraphNode {
	out := make([]*GraphNode, 0, len(g.nodes))
	for _, gn := range g.nodes {
		out = append(out, gn)
	}
	return out
}

// Connections returns the connection table.
func (g *NodeGraph) Connections() []Connection { return g.conns }

// Time returns the graph's current evaluation time.
func (g *NodeGraph) Time() float64 { return g.time }

// SetTime broadcasts a new evaluation time to every node in the graph
// (spec.md §9's `@time` wrangle builtin), marking each Dirty so the
// next cook reflects it.
func (g *NodeGraph) SetTime(t float64) {
	g.time = t
	for _, gn := range g.nodes {
		gn.Node.SetTime(t)
	}
}

// DisplayNode returns the id of the node marked for export, or -1 if
// none is set.
func (g *NodeGraph) DisplayNode() int { return g.display }

// SetDisplayNode marks a node as the graph's single export point
// (spec.md §4.9); clears the flag on the previous display node.
func (g *NodeGraph) SetDisplayNode(id int) error {
	gn, ok := g.nodes[id]
	if !ok {
		return sop.NewError(sop.UnknownNodeType, "graph: no such node %d", id)
	}
	if g.display >= 0 {
		if prev, ok := g.nodes[g.display]; ok {
			prev.Display = false
		}
	}
	gn.Display = true
	g.display = id
	return nil
}
