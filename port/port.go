// Package port implements typed, directional node ports and the
// value cache that ties a SOP's inputs to its upstream outputs
// (spec.md §4.6).
package port

import "nodeflux/geom"

// Direction is a port's data flow direction.
type Direction int

const (
	Input Direction = iota
	Output
)

// DataKind is what a port carries.
type DataKind int

const (
	Geometry DataKind = iota
	Parameter
)

// Dirtyable is the minimal capability InvalidateCache needs from a
// port's owning node: transition back to Dirty when an upstream
// output this port consumes is invalidated. sop.Node implements it;
// port cannot import sop to reference *sop.Node directly, since sop
// already imports port, so this interface is the seam that lets
// dirty propagation cross the package boundary.
type Dirtyable interface {
	MarkDirty()
}

// Port is one directional, typed connection point on a node. INPUT
// ports may be linked to at most one OUTPUT port; OUTPUT ports may be
// linked to any number of INPUT ports (the fan-out is tracked by each
// input holding its own back-link, per spec.md §9's "arena-own the
// nodes, reference by id" strategy — here applied at the port level:
// an input port holds a non-owning pointer to its upstream output,
// re-resolved on Connect/Disconnect).
type Port struct {
	Name      string
	Dir       Direction
	Kind      DataKind
	Owner     int // owning node id; the graph's resolver looks the node up by it
	upstream  *Port
	consumers map[*Port]bool // only meaningful on an Output port
	cache     geom.Handle
	valid     bool
	coll      *Collection // set by Collection.AddInput/AddOutput; nil for a detached Port
}

// New creates a detached port. A detached port has no owning
// Collection, so InvalidateCache cannot cascade a Dirty state back to
// a node through it — only ports created via Collection.AddInput/
// AddOutput participate in dirty propagation.
func New(name string, dir Direction, kind DataKind, owner int) *Port {
	return &Port{Name: name, Dir: dir, Kind: kind, Owner: owner}
}

// Connect links an input port to an output port. It fails if
// directions don't match (in must be Input, out must be Output) or
// data kinds disagree. It replaces any prior link held by in.
func Connect(in, out *Port) bool {
	if in == nil || out == nil {
		return false
	}
	if in.Dir != Input || out.Dir != Output {
		return false
	}
	if in.Kind != out.Kind {
		return false
	}
	Disconnect(in)
	in.upstream = out
	if out.consumers == nil {
		out.consumers = make(map[*Port]bool)
	}
	out.consumers[in] = true
	in.valid = false
	return true
}

// Disconnect unlinks in from its upstream output, invalidating in's
// cache. It is a no-op if in has no link.
func Disconnect(in *Port) {
	if in == nil || in.upstream == nil {
		return
	}
	delete(in.upstream.consumers, in)
	in.upstream = nil
	in.valid = false
	in.cache = geom.Handle{}
}

// Connected reports whether an input port has an upstream link.
func (p *Port) Connected() bool { return p.Dir == Input && p.upstream != nil }

// Upstream returns the linked output port, or nil.
func (p *Port) Upstream() *Port { return p.upstream }

// GetData returns the port's current data: on an input, the upstream
// output's cached value; on an output, its own cached value.
func (p *Port) GetData() geom.Handle {
	if p.Dir == Input {
		if p.upstream == nil {
			return geom.Handle{}
		}
		return p.upstream.GetData()
	}
	return p.cache
}

// SetData is callable only on output ports (the owning node's cook
// writes its result here). It marks the cache valid and propagates
// invalidation to nothing (consumers observe the new value lazily on
// their next GetData).
func (p *Port) SetData(v geom.Handle) {
	if p.Dir != Output {
		panic("port: SetData called on an input port")
	}
	p.cache = v
	p.valid = true
}

// Valid reports whether the port's own cache (meaningful for outputs)
// is up to date.
func (p *Port) Valid() bool { return p.valid }

// InvalidateCache drops this port's cached data and recursively
// invalidates every downstream input's cache (spec.md §4.6). It also
// marks each consumer's owning node Dirty (not just the port's own
// cache), so a change that only touches an upstream node's parameters
// or wiring still forces every downstream node to recook rather than
// returning a stale cached Result. Marking that node Dirty in turn
// invalidates its own output ports, so the cascade reaches every
// transitive consumer, not just the direct one.
func (p *Port) InvalidateCache() {
	p.valid = false
	p.cache = geom.Handle{}
	if p.Dir != Output {
		return
	}
	for c := range p.consumers {
		c.valid = false
		c.cache = geom.Handle{}
		if c.coll != nil && c.coll.owner != nil {
			c.coll.owner.MarkDirty()
		}
	}
}
