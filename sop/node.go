// Package sop implements the SOP (surface operator) node lifecycle:
// the per-node cook state machine (spec.md §4.7), parameter storage,
// and the concrete operator library (spec.md §6).
package sop

import (
	"time"

	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/linear"
	"nodeflux/param"
	"nodeflux/port"
)

// State is a node's position in the cook lifecycle.
type State int

const (
	Dirty State = iota
	Computing
	Clean
	ErrorState
)

func (s State) String() string {
	switch s {
	case Dirty:
		return "dirty"
	case Computing:
		return "computing"
	case Clean:
		return "clean"
	case ErrorState:
		return "error"
	default:
		return "state?"
	}
}

// Executor is the operator-specific behavior a concrete SOP supplies.
// inputs holds one resolved geometry handle per declared input port,
// in order (nil where an optional input is not connected).
type Executor interface {
	Execute(n *Node, inputs []geom.Handle) Result
}

// Resolver cooks and returns the node feeding a given input port,
// letting Cook recurse up the graph without importing the graph
// package (which would create an import cycle: graph depends on sop).
type Resolver func(p *port.Port) Result

// Node is the common machinery every concrete SOP embeds. It owns
// parameter storage, port wiring, and the cook state machine; concrete
// operators only implement Executor.Execute.
type Node struct {
	ID       int
	TypeName string
	Name     string

	Ports *port.Collection

	defs   map[string]*param.Definition
	order  []string
	values map[string]param.Value

	Bypass  bool
	Display bool

	timeVal float64

	state    State
	lastErr  error
	cooked   Result
	cookN    int
	lastCook time.Duration

	exec Executor
}

// NewNode builds a Node shell with the universal "input_group"
// parameter (spec.md §4.5) pre-registered, in the Dirty state.
func NewNode(id int, typeName string, exec Executor) *Node {
	n := &Node{
		ID:       id,
		TypeName: typeName,
		Name:     typeName,
		Ports:    port.NewCollection(),
		defs:     make(map[string]*param.Definition),
		values:   make(map[string]param.Value),
		state:    Dirty,
		exec:     exec,
	}
	n.Ports.SetOwner(n)
	n.RegisterParam(&param.Definition{
		Name:        "input_group",
		Label:       "Group",
		Category:    "Grouping",
		Description: "restrict this node's effect to the named group, if any",
		Kind:        param.KString,
		Default:     param.String(""),
	})
	return n
}

// RegisterParam declares a parameter and seeds it with its default
// value. Concrete SOP constructors call this once per parameter.
func (n *Node) RegisterParam(d *param.Definition) {
	n.defs[d.Name] = d
	n.order = append(n.order, d.Name)
	n.values[d.Name] = d.Default
}

// ParamNames returns parameter names in declaration order.
func (n *Node) ParamNames() []string { return n.order }

// ParamDefinition returns a parameter's schema, or nil if unknown.
func (n *Node) ParamDefinition(name string) *param.Definition { return n.defs[name] }

// SetParam sets a parameter's value and marks the node dirty, per
// spec.md §4.7's "parameter change invalidates cached output" rule.
func (n *Node) SetParam(name string, v param.Value) {
	n.values[name] = v
	n.MarkDirty()
}

// Param returns a parameter's current raw value.
func (n *Node) Param(name string) param.Value { return n.values[name] }

func (n *Node) GetInt(name string, def int64) int64 {
	if v, ok := n.values[name]; ok {
		return v.AsInt(def)
	}
	return def
}

func (n *Node) GetFloat(name string, def float32) float32 {
	if v, ok := n.values[name]; ok {
		return v.AsFloat(def)
	}
	return def
}

func (n *Node) GetBool(name string, def bool) bool {
	if v, ok := n.values[name]; ok {
		return v.AsBool(def)
	}
	return def
}

func (n *Node) GetString(name string, def string) string {
	if v, ok := n.values[name]; ok {
		return v.AsString(def)
	}
	return def
}

func (n *Node) GetVec3f(name string, def linear.V3) linear.V3 {
	if v, ok := n.values[name]; ok {
		return v.AsVec3f(def)
	}
	return def
}

// InputGroup returns the universal "input_group" parameter value.
func (n *Node) InputGroup() string { return n.GetString("input_group", "") }

// Time returns the node's current evaluation time, set by the owning
// graph's SetTime (spec.md §9's `@time` wrangle builtin).
func (n *Node) Time() float64 { return n.timeVal }

// SetTime records this node's evaluation time and marks it Dirty, so a
// scrub of the scene's playback time recooks every node whose output
// may depend on it (a superset of the nodes that actually reference
// @time, same tradeoff as a plain parameter change).
func (n *Node) SetTime(t float64) {
	n.timeVal = t
	n.MarkDirty()
}

// DeclareChannel implements the wrangle package's dynamic-channel
// contract: ch("name") registers a Float parameter named name the
// first time it's referenced (spec.md §9, §4.8) and returns its
// current value, so the channel then shows up like any other
// user-editable parameter.
func (n *Node) DeclareChannel(name string) float32 {
	if _, ok := n.defs[name]; !ok {
		n.RegisterParam(&param.Definition{Name: name, Label: name, Category: "Channels", Kind: param.KFloat, Default: param.Float(0)})
	}
	return n.GetFloat(name, 0)
}

// State returns the node's current lifecycle state.
func (n *Node) State() State { return n.state }

// LastError returns the error that put the node in ErrorState, if any.
func (n *Node) LastError() error { return n.lastErr }

// CookCount returns how many times Cook has run the executor (cache
// hits do not count).
func (n *Node) CookCount() int { return n.cookN }

// LastCookDuration returns the wall-clock duration of the most recent
// non-cached cook, for profiling (spec.md's supplemented per-node
// timing, grounded on original_source/.../profiler.hpp).
func (n *Node) LastCookDuration() time.Duration { return n.lastCook }

// Stats is the per-node counters the CLI's --stats flag reports.
type Stats struct {
	TypeName  string
	CookCount int
	LastCook  time.Duration
	State     State
}

// Stats snapshots the node's cook counters.
func (n *Node) Stats() Stats {
	return Stats{TypeName: n.TypeName, CookCount: n.cookN, LastCook: n.lastCook, State: n.state}
}

// MarkDirty transitions the node (and, via InvalidateOutputs, every
// downstream consumer reading its output port) to Dirty.
func (n *Node) MarkDirty() {
	n.state = Dirty
	n.Ports.InvalidateOutputs()
}

// CacheLocker is implemented by SOPs (the Cache SOP) that can suppress
// a recook even while Dirty, per spec.md §4.8/§8's "lock cache"
// control: while locked, the node keeps returning its last cooked
// Result regardless of upstream changes, until unlocked or cleared.
type CacheLocker interface {
	LockCache(n *Node) bool
}

// Cook runs the node's cook lifecycle (spec.md §4.7):
//
//  1. If Clean and the output port cache is still valid, return the
//     cached Result without touching the executor.
//  2. If Computing, the graph has a cycle feeding back into this node;
//     fail with CircularDependency rather than recurse forever.
//  3. Otherwise mark Computing, recursively cook every upstream input
//     via resolve, and on success dispatch to the executor. Bypass
//     nodes skip the executor and pass their primary input straight
//     through. The universal group filter is NOT applied here: it is
//     each concrete Executor's responsibility to call ApplyGroupFilter
//     when spec.md says its SOP honors input_group.
func (n *Node) Cook(resolve Resolver) Result {
	if n.state == Clean && n.Ports.Primary() != nil && n.Ports.Primary().Valid() {
		return n.cooked
	}
	if locker, ok := n.exec.(CacheLocker); ok && n.cookN > 0 && locker.LockCache(n) {
		return n.cooked
	}
	if n.state == Computing {
		err := NewError(CircularDependency, "node %d (%s) is part of a cook cycle", n.ID, n.TypeName)
		n.fail(err)
		return n.cooked
	}

	n.state = Computing
	inputs := make([]geom.Handle, n.Ports.NumInputs())
	for i, p := range n.Ports.Inputs() {
		up := p.Upstream()
		if up == nil {
			continue
		}
		r := resolve(up)
		if r.IsErr() {
			n.fail(r.Err)
			return n.cooked
		}
		inputs[i] = r.Value
	}

	start := time.Now()
	var result Result
	if n.Bypass && len(inputs) > 0 {
		result = Ok(inputs[0])
	} else if n.exec == nil {
		result = Fail(NewError(UnknownNodeType, "node %d has no executor bound", n.ID))
	} else {
		result = n.exec.Execute(n, inputs)
	}
	n.lastCook = time.Since(start)

	if result.IsErr() {
		n.fail(result.Err)
		return n.cooked
	}

	n.cookN++
	n.cooked = result
	n.state = Clean
	if out := n.Ports.Primary(); out != nil {
		out.SetData(result.Value)
	}
	return n.cooked
}

func (n *Node) fail(err error) {
	n.state = ErrorState
	n.lastErr = err
	n.cooked = Fail(err)
}

// ApplyGroupFilter implements the universal SOP behavior from spec.md
// §4.5: when input_group names a non-empty group on class, every
// element NOT in that group is excluded from the operator's effect.
// Concrete SOPs that honor it call this up front and operate on the
// returned (possibly identical) handle instead of the raw input.
//
// Operators that modify geometry in place (e.g. Transform) restrict
// their effect to the group's members directly; operators that delete
// elements to build their result (Blast) instead delete the group's
// complement. ApplyGroupFilter only covers the former case: it never
// mutates in, since in may be a COW-shared handle from an upstream
// node's cache.
func ApplyGroupFilter(in geom.Handle, group string, class attr.Class) (members []int, ok bool) {
	if group == "" {
		return nil, false
	}
	c := in.Read()
	if !geom.HasGroup(c, group, class) {
		return nil, false
	}
	return geom.GetGroupElements(c, group, class), true
}
