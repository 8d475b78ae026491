package graph

import (
	"nodeflux/port"
	"nodeflux/sop"
)

// AddConnection links src's primary output to dst's input at
// inputIndex, both as a live port.Connect (so sop.Node.Cook can
// resolve it) and as an entry in the serializable connection table.
// It rejects the link if it would introduce a cycle.
func (g *NodeGraph) AddConnection(src, dst, inputIndex int) error {
	srcNode, ok := g.nodes[src]
	if !ok {
		return sop.NewError(sop.UnknownNodeType, "graph: no such node %d", src)
	}
	dstNode, ok := g.nodes[dst]
	if !ok {
		return sop.NewError(sop.UnknownNodeType, "graph: no such node %d", dst)
	}
	in := dstNode.Node.Ports.Input(inputIndex)
	if in == nil {
		return sop.NewError(sop.ParameterInvalid, "graph: node %d has no input %d", dst, inputIndex)
	}
	out := srcNode.Node.Ports.Primary()
	if out == nil {
		return sop.NewError(sop.ParameterInvalid, "graph: node %d has no primary output", src)
	}

	g.conns = append(g.conns, Connection{Src: src, Dst: dst, InputIndex: inputIndex})
	if g.hasCycle() {
		g.conns = g.conns[:len(g.conns)-1]
		return sop.NewError(sop.CircularDependency, "graph: connection %d->%d would create a cycle", src, dst)
	}

	if !port.Connect(in, out) {
		g.conns = g.conns[:len(g.conns)-1]
		return sop.NewError(sop.ParameterInvalid, "graph: incompatible port kinds for %d->%d", src, dst)
	}
	dstNode.Node.MarkDirty()
	return nil
}

// RemoveConnection removes a specific link from the table and
// disconnects the live port, leaving the input port's cache
// invalidated so the next cook re-resolves from scratch.
func (g *NodeGraph) RemoveConnection(src, dst, inputIndex int) {
	for i, c := range g.conns {
		if c.Src == src && c.Dst == dst && c.InputIndex == inputIndex {
			g.conns = append(g.conns[:i], g.conns[i+1:]...)
			if dstNode, ok := g.nodes[dst]; ok {
				if in := dstNode.Node.Ports.Input(inputIndex); in != nil {
					port.Disconnect(in)
				}
				dstNode.Node.MarkDirty()
			}
			return
		}
	}
}

// hasCycle walks the connection table with Kahn's algorithm; a
// non-empty remainder after exhausting all zero-indegree nodes means
// a cycle exists.
func (g *NodeGraph) hasCycle() bool {
	indeg := make(map[int]int, len(g.nodes))
	adj := make(map[int][]int, len(g.nodes))
	for id := range g.nodes {
		indeg[id] = 0
	}
	for _, c := range g.conns {
		indeg[c.Dst]++
		adj[c.Src] = append(adj[c.Src], c.Dst)
	}
	var queue []int
	for id, d := range indeg {
		if d == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adj[cur] {
			indeg[next]--
			if indeg[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return visited != len(g.nodes)
}

// ExecutionOrder returns node ids in a valid topological cook order
// (upstream before downstream). Ties between independent subgraphs
// are broken by id for determinism.
func (g *NodeGraph) ExecutionOrder() ([]int, error) {
	indeg := make(map[int]int, len(g.nodes))
	adj := make(map[int][]int, len(g.nodes))
	for id := range g.nodes {
		indeg[id] = 0
	}
	for _, c := range g.conns {
		indeg[c.Dst]++
		adj[c.Src] = append(adj[c.Src], c.Dst)
	}
	var ready []int
	for id, d := range indeg {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sortInts(ready)

	var order []int
	for len(ready) > 0 {
		cur := ready[0]
		ready = ready[1:]
		order = append(order, cur)
		var newlyReady []int
		for _, next := range adj[cur] {
			indeg[next]--
			if indeg[next] == 0 {
				newlyReady = append(newlyReady, next)
			}
		}
		sortInts(newlyReady)
		ready = append(ready, newlyReady...)
	}
	if len(order) != len(g.nodes) {
		return nil, sop.NewError(sop.CircularDependency, "graph: execution order undefined, graph has a cycle")
	}
	return order, nil
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
