package sop

import (
	"nodeflux/geom"
	"nodeflux/param"
)

// --- Null ------------------------------------------------------------------

type nullExec struct{}

// NewNull is a transparent pass-through, typically used as a stable
// named anchor for export/wiring (spec.md's "Null" utility node).
func NewNull(id int) *Node {
	return singleInput(id, "null", nullExec{})
}

func (nullExec) Execute(_ *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	return Ok(in)
}

// --- Cache -----------------------------------------------------------------

type cacheExec struct{}

// NewCache is a pass-through at the Executor level: caching itself is
// already provided by Node.Cook's Clean-state short-circuit (spec.md
// §4.7). The node exists as an explicit, named point in the graph
// where a user pins a cook result, matching original_source/'s
// cache_sop.hpp.
//
// Two parameters give the user control over that caching beyond the
// engine's own dirty propagation (spec.md §4.8/§8): lock_cache freezes
// the node's output even while Dirty, so upstream edits stop short of
// it; clear_cache is a one-shot trigger that forces a fresh cook past
// the lock on its very next Cook call, then resets itself.
func NewCache(id int) *Node {
	n := singleInput(id, "cache", cacheExec{})
	n.RegisterParam(&param.Definition{
		Name:        "lock_cache",
		Label:       "Lock Cache",
		Category:    "Cache",
		Description: "keep this node's last cooked output even when upstream data changes",
		Kind:        param.KBool,
		Default:     param.Bool(false),
	})
	n.RegisterParam(&param.Definition{
		Name:        "clear_cache",
		Label:       "Clear Cache",
		Category:    "Cache",
		Description: "force one fresh cook past a cache lock, then re-lock",
		Kind:        param.KBool,
		Default:     param.Bool(false),
	})
	return n
}

// LockCache implements CacheLocker.
func (cacheExec) LockCache(n *Node) bool {
	return n.GetBool("lock_cache", false) && !n.GetBool("clear_cache", false)
}

func (cacheExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	if n.GetBool("clear_cache", false) {
		n.values["clear_cache"] = param.Bool(false)
	}
	return Ok(in)
}

// --- Output ----------------------------------------------------------------

type outputExec struct{}

// NewOutput marks a node as a graph export point (spec.md §4.9's
// "display/render node" semantics, surfaced explicitly as its own
// SOP type rather than only as a GraphNode flag, matching
// original_source/'s output_sop.hpp).
func NewOutput(id int) *Node {
	n := singleInput(id, "output", outputExec{})
	n.RegisterParam(&param.Definition{Name: "label", Kind: param.KString, Default: param.String(""), Category: "Output"})
	return n
}

func (outputExec) Execute(_ *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	return Ok(in)
}
