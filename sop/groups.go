package sop

import (
	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/param"
)

// --- Group -------------------------------------------------------------

type groupExec struct{}

// NewGroup creates a group by bounding-box membership test (the
// simplest, always-available selection rule; "group by expression"
// is covered by combining this with Wrangle writing a group attribute
// directly, which ApplyGroupFilter then honors). The bounds test
// applies to point groups only; a primitive group takes every
// primitive.
func NewGroup(id int) *Node {
	n := singleInput(id, "group", groupExec{})
	n.RegisterParam(&param.Definition{Name: "name", Kind: param.KString, Default: param.String("group1"), Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "class", Kind: param.KInt, Default: param.Int(int64(attr.Point)), Options: []string{"point", "primitive"}, Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "bound_min", Kind: param.KVec3f, Default: param.Vec3f([3]float32{}), Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "bound_max", Kind: param.KVec3f, Default: param.Vec3f([3]float32{}), Category: "Group"})
	return n
}

func (groupExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	name := n.GetString("name", "group1")
	class := attr.Class(n.GetInt("class", int64(attr.Point)))
	bmin := n.GetVec3f("bound_min", [3]float32{})
	bmax := n.GetVec3f("bound_max", [3]float32{})

	out := in.Clone()
	c := out.Read()
	geom.CreateGroup(c, name, class)
	if class == attr.Point {
		p := c.Positions()
		if p == nil {
			return Fail(NewError(InputInvalid, "group: missing position attribute"))
		}
		for i := 0; i < p.Size(); i++ {
			if inBox(p.At(i), bmin, bmax) {
				geom.AddToGroup(c, name, class, i)
			}
		}
	} else {
		for i := 0; i < c.Topo.PrimitiveCount(); i++ {
			geom.AddToGroup(c, name, class, i)
		}
	}
	return Ok(out)
}

// --- GroupDelete ---------------------------------------------------------

type groupDeleteExec struct{}

func NewGroupDelete(id int) *Node {
	n := singleInput(id, "group_delete", groupDeleteExec{})
	n.RegisterParam(&param.Definition{Name: "name", Kind: param.KString, Default: param.String(""), Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "class", Kind: param.KInt, Default: param.Int(int64(attr.Point)), Options: []string{"point", "primitive"}, Category: "Group"})
	return n
}

func (groupDeleteExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	out := in.Clone()
	geom.DeleteGroup(out.Read(), n.GetString("name", ""), attr.Class(n.GetInt("class", int64(attr.Point))))
	return Ok(out)
}

// --- GroupCombine --------------------------------------------------------

type groupCombineExec struct{}

func NewGroupCombine(id int) *Node {
	n := singleInput(id, "group_combine", groupCombineExec{})
	n.RegisterParam(&param.Definition{Name: "a", Kind: param.KString, Default: param.String(""), Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "b", Kind: param.KString, Default: param.String(""), Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "dest", Kind: param.KString, Default: param.String("combined"), Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "class", Kind: param.KInt, Default: param.Int(int64(attr.Point)), Options: []string{"point", "primitive"}, Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "operation", Kind: param.KInt, Default: param.Int(int64(geom.Union)), Options: []string{"union", "intersect", "subtract", "xor"}, Category: "Group"})
	return n
}

func (groupCombineExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	class := attr.Class(n.GetInt("class", int64(attr.Point)))
	out := in.Clone()
	geom.CombineGroups(out.Read(), n.GetString("a", ""), n.GetString("b", ""), n.GetString("dest", "combined"), class, geom.CombineOp(n.GetInt("operation", int64(geom.Union))))
	return Ok(out)
}

// --- GroupPromote --------------------------------------------------------

type groupPromoteExec struct{}

// NewGroupPromote converts a point group into a primitive group (or
// vice versa): a primitive is included in the destination primitive
// group if ALL its point-group members are present (the conservative,
// Houdini-style "Group Promote to primitive" rule).
func NewGroupPromote(id int) *Node {
	n := singleInput(id, "group_promote", groupPromoteExec{})
	n.RegisterParam(&param.Definition{Name: "name", Kind: param.KString, Default: param.String(""), Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "to_primitive", Kind: param.KBool, Default: param.Bool(true), Category: "Group"})
	return n
}

func (groupPromoteExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	name := n.GetString("name", "")
	toPrim := n.GetBool("to_primitive", true)
	out := in.Clone()
	c := out.Read()
	if toPrim {
		if !geom.HasGroup(c, name, attr.Point) {
			return Fail(NewError(InputInvalid, "group_promote: point group %q not found", name))
		}
		geom.CreateGroup(c, name, attr.Primitive)
		for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
			all := true
			for _, v := range c.Topo.PrimitiveVertices(pr) {
				if !geom.IsInGroup(c, name, attr.Point, int(c.Topo.VertexPoint(int(v)))) {
					all = false
					break
				}
			}
			if all {
				geom.AddToGroup(c, name, attr.Primitive, pr)
			}
		}
	} else {
		if !geom.HasGroup(c, name, attr.Primitive) {
			return Fail(NewError(InputInvalid, "group_promote: primitive group %q not found", name))
		}
		geom.CreateGroup(c, name, attr.Point)
		for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
			if !geom.IsInGroup(c, name, attr.Primitive, pr) {
				continue
			}
			for _, v := range c.Topo.PrimitiveVertices(pr) {
				geom.AddToGroup(c, name, attr.Point, int(c.Topo.VertexPoint(int(v))))
			}
		}
	}
	return Ok(out)
}

// --- GroupExpand ---------------------------------------------------------

type groupExpandExec struct{}

// NewGroupExpand grows a point group by one topological ring: any
// point sharing a primitive with a member is added.
func NewGroupExpand(id int) *Node {
	n := singleInput(id, "group_expand", groupExpandExec{})
	n.RegisterParam(&param.Definition{Name: "name", Kind: param.KString, Default: param.String(""), Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "iterations", Kind: param.KInt, Default: param.Int(1), IntMin: 1, HasIntRange: true, Category: "Group"})
	return n
}

func (groupExpandExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	name := n.GetString("name", "")
	iterations := int(n.GetInt("iterations", 1))
	out := in.Clone()
	c := out.Read()
	if !geom.HasGroup(c, name, attr.Point) {
		return Fail(NewError(InputInvalid, "group_expand: point group %q not found", name))
	}
	for it := 0; it < iterations; it++ {
		var toAdd []int
		for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
			verts := c.Topo.PrimitiveVertices(pr)
			touched := false
			for _, v := range verts {
				if geom.IsInGroup(c, name, attr.Point, int(c.Topo.VertexPoint(int(v)))) {
					touched = true
					break
				}
			}
			if !touched {
				continue
			}
			for _, v := range verts {
				pt := int(c.Topo.VertexPoint(int(v)))
				if !geom.IsInGroup(c, name, attr.Point, pt) {
					toAdd = append(toAdd, pt)
				}
			}
		}
		for _, pt := range toAdd {
			geom.AddToGroup(c, name, attr.Point, pt)
		}
	}
	return Ok(out)
}

// --- GroupTransfer -------------------------------------------------------

type groupTransferExec struct{}

// NewGroupTransfer copies a named group from input 1 onto input 0,
// assuming both share the same element count and ordering (e.g.
// input 1 is an earlier cook of input 0 before a non-topology-changing
// edit).
func NewGroupTransfer(id int) *Node {
	n := NewNode(id, "group_transfer", groupTransferExec{})
	n.Ports.AddInput("destination", 0, id)
	n.Ports.AddInput("source", 0, id)
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "name", Kind: param.KString, Default: param.String(""), Category: "Group"})
	n.RegisterParam(&param.Definition{Name: "class", Kind: param.KInt, Default: param.Int(int64(attr.Point)), Options: []string{"point", "primitive"}, Category: "Group"})
	return n
}

func (groupTransferExec) Execute(n *Node, inputs []geom.Handle) Result {
	dst, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	src, err := requireInput(inputs, 1)
	if err != nil {
		return Fail(err)
	}
	name := n.GetString("name", "")
	class := attr.Class(n.GetInt("class", int64(attr.Point)))
	if !geom.HasGroup(src.Read(), name, class) {
		return Fail(NewError(InputInvalid, "group_transfer: source group %q not found", name))
	}
	if dst.Read().Count(class) != src.Read().Count(class) {
		return Fail(NewError(InputInvalid, "group_transfer: element count mismatch"))
	}
	out := dst.Clone()
	c := out.Read()
	geom.CreateGroup(c, name, class)
	for i := 0; i < c.Count(class); i++ {
		if geom.IsInGroup(src.Read(), name, class, i) {
			geom.AddToGroup(c, name, class, i)
		}
	}
	return Ok(out)
}
