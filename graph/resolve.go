package graph

import (
	"nodeflux/port"
	"nodeflux/sop"
)

// resolve implements sop.Resolver against this graph: given an
// upstream output port, find the node that owns it (by Port.Owner)
// and cook it, recursing through the same resolver. This closure is
// the only thing standing between sop.Node.Cook and a node-id lookup,
// keeping the dependency arrow sop -> port, graph -> sop (never the
// reverse).
func (g *NodeGraph) resolve(p *port.Port) sop.Result {
	gn, ok := g.nodes[p.Owner]
	if !ok {
		return sop.Fail(sop.NewError(sop.UnknownNodeType, "graph: dangling port owner %d", p.Owner))
	}
	return gn.Node.Cook(g.resolve)
}

// CookNode cooks a single node (and transitively everything upstream
// of it) and returns its result, without requiring the caller to know
// about execution order.
func (g *NodeGraph) CookNode(id int) sop.Result {
	gn, ok := g.nodes[id]
	if !ok {
		return sop.Fail(sop.NewError(sop.UnknownNodeType, "graph: no such node %d", id))
	}
	return gn.Node.Cook(g.resolve)
}

// CookDisplay cooks the graph's display node.
func (g *NodeGraph) CookDisplay() sop.Result {
	if g.display < 0 {
		return sop.Fail(sop.NewError(sop.InputMissing, "graph: no display node set"))
	}
	return g.CookNode(g.display)
}

// InvalidateNode marks a single node dirty, propagating to every
// downstream consumer via its output port's InvalidateOutputs chain
// (spec.md §4.7's "invalidate_node").
func (g *NodeGraph) InvalidateNode(id int) {
	if gn, ok := g.nodes[id]; ok {
		gn.Node.MarkDirty()
	}
}
