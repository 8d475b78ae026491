package exec

import (
	"github.com/google/uuid"

	"nodeflux/geom"
	"nodeflux/graph"
	"nodeflux/sop"
)

// Engine drives a single NodeGraph's execution order end to end
// (spec.md §4.10's ExecutionEngine): compute a topological order,
// cook each node, report progress, and stop early on the first error
// or host cancellation. It holds no state of its own between runs;
// cooked geometry stays cached in the nodes' output ports, so the same
// Engine can re-run the same graph after edits.
type Engine struct {
	Graph *graph.NodeGraph
	Host  HostInterface
}

// New builds an Engine over g. If host is nil, DefaultHostInterface is
// used so callers never need to special-case a missing host.
func New(g *graph.NodeGraph, host HostInterface) *Engine {
	if host == nil {
		host = DefaultHostInterface{}
	}
	return &Engine{Graph: g, Host: host}
}

// RunResult summarizes one ExecuteGraph invocation.
type RunResult struct {
	RunID      string
	Order      []int
	LastNodeID int
	LastError  error
}

// ExecuteGraph cooks every node in g in topological order, so that by
// the time the display node is reached every node it depends on is
// already cached and clean. Each run is stamped with a fresh uuid so
// that progress and log lines emitted during it can be correlated by
// an embedder tailing the host interface's Log channel across
// concurrent runs.
func (e *Engine) ExecuteGraph() RunResult {
	runID := uuid.NewString()
	res := RunResult{RunID: runID}

	order, err := e.Graph.ExecutionOrder()
	if err != nil {
		res.LastError = err
		e.Host.Log(Error, "run "+runID+": "+err.Error())
		return res
	}
	res.Order = order

	total := len(order)
	for i, id := range order {
		if e.Host.IsCancelled() {
			res.LastError = sop.NewError(sop.ResourceFailure, "run %s: cancelled by host", runID)
			e.Host.Log(Warning, res.LastError.Error())
			return res
		}

		gn, ok := e.Graph.Node(id)
		if !ok {
			continue
		}

		r := e.Graph.CookNode(id)
		res.LastNodeID = id
		if r.IsErr() {
			res.LastError = r.Err
			e.Host.Log(Error, "run "+runID+": node "+gn.Name+" failed: "+r.Err.Error())
			return res
		}

		msg := "cooked " + gn.Name
		if !e.Host.ReportProgress(i+1, total, msg) {
			res.LastError = sop.NewError(sop.ResourceFailure, "run %s: aborted by host after node %d", runID, id)
			e.Host.Log(Warning, res.LastError.Error())
			return res
		}
	}
	return res
}

// GetNodeGeometry returns the last cooked output of a node without
// forcing a re-cook, or (geom.Handle{}, false) if it has never cooked
// or is currently dirty.
func (e *Engine) GetNodeGeometry(id int) (geom.Handle, bool) {
	gn, ok := e.Graph.Node(id)
	if !ok {
		return geom.Handle{}, false
	}
	out := gn.Node.Ports.Primary()
	if out == nil || !out.Valid() {
		return geom.Handle{}, false
	}
	return out.GetData(), true
}

// InvalidateNode marks a single node (and transitively its consumers)
// dirty, forcing the next ExecuteGraph to re-cook it.
func (e *Engine) InvalidateNode(id int) {
	e.Graph.InvalidateNode(id)
}

// ClearCache drops every node's cached geometry by marking the whole
// graph dirty, without changing parameter values or connections.
func (e *Engine) ClearCache() {
	for _, gn := range e.Graph.Nodes() {
		gn.Node.MarkDirty()
	}
}
