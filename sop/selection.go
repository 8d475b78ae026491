package sop

import (
	"sort"

	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/param"
)

// --- Blast -----------------------------------------------------------------

type blastExec struct{}

// NewBlast deletes a group's members (the inverse of Delete's
// "keep group" mode), the SOP spec.md names distinctly from Delete
// because Houdini-derived pipelines give it its own keyboard shortcut
// despite identical underlying semantics to Delete+invert.
func NewBlast(id int) *Node {
	n := singleInput(id, "blast", blastExec{})
	n.RegisterParam(&param.Definition{Name: "group", Kind: param.KString, Default: param.String(""), Category: "Select"})
	n.RegisterParam(&param.Definition{Name: "class", Kind: param.KInt, Default: param.Int(int64(attr.Point)), Options: []string{"point", "primitive"}, Category: "Select"})
	n.RegisterParam(&param.Definition{Name: "delete_orphaned_points", Kind: param.KBool, Default: param.Bool(true), Category: "Select"})
	return n
}

func (blastExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	group := n.GetString("group", "")
	class := attr.Class(n.GetInt("class", int64(attr.Point)))
	out, err := geom.DeleteElements(in.Read(), group, class, n.GetBool("delete_orphaned_points", true))
	if err != nil {
		return Fail(WrapError(AlgorithmFailure, err, "blast"))
	}
	return Ok(geom.NewHandle(out))
}

// --- Delete ----------------------------------------------------------------

type deleteExec struct{}

// NewDelete deletes everything NOT in the named group (invert=true is
// the default, matching a typical delete_sop.hpp whose default mode
// keeps the selection and discards the rest).
func NewDelete(id int) *Node {
	n := singleInput(id, "delete", deleteExec{})
	n.RegisterParam(&param.Definition{Name: "group", Kind: param.KString, Default: param.String(""), Category: "Select"})
	n.RegisterParam(&param.Definition{Name: "class", Kind: param.KInt, Default: param.Int(int64(attr.Point)), Options: []string{"point", "primitive"}, Category: "Select"})
	n.RegisterParam(&param.Definition{Name: "invert", Kind: param.KBool, Default: param.Bool(true), Category: "Select"})
	return n
}

func (deleteExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	group := n.GetString("group", "")
	class := attr.Class(n.GetInt("class", int64(attr.Point)))
	if !n.GetBool("invert", true) {
		out, err := geom.DeleteElements(in.Read(), group, class, true)
		if err != nil {
			return Fail(WrapError(AlgorithmFailure, err, "delete"))
		}
		return Ok(geom.NewHandle(out))
	}
	c := in.Read()
	if !geom.HasGroup(c, group, class) {
		return Fail(NewError(InputInvalid, "delete: group %q does not exist", group))
	}
	members := make(map[int]bool)
	for _, i := range geom.GetGroupElements(c, group, class) {
		members[i] = true
	}
	var toDelete []int
	for i := 0; i < c.Count(class); i++ {
		if !members[i] {
			toDelete = append(toDelete, i)
		}
	}
	if len(toDelete) == 0 {
		return Ok(geom.NewHandle(c.Clone()))
	}
	out, err := geom.DeleteElementsByIndices(c, class, toDelete, true)
	if err != nil {
		return Fail(WrapError(AlgorithmFailure, err, "delete"))
	}
	return Ok(geom.NewHandle(out))
}

// --- Sort ------------------------------------------------------------------

type sortExec struct{}

// NewSort reorders points by one position axis (the common "Sort by
// position" mode).
func NewSort(id int) *Node {
	n := singleInput(id, "sort", sortExec{})
	n.RegisterParam(&param.Definition{Name: "axis", Kind: param.KInt, Default: param.Int(1), Options: []string{"x", "y", "z"}, Category: "Sort"})
	n.RegisterParam(&param.Definition{Name: "descending", Kind: param.KBool, Default: param.Bool(false), Category: "Sort"})
	return n
}

func (sortExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	c := in.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "sort: missing position attribute"))
	}
	axis := int(n.GetInt("axis", 1))
	desc := n.GetBool("descending", false)
	order := make([]int32, p.Size())
	for i := range order {
		order[i] = int32(i)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := p.At(int(order[i]))[axis], p.At(int(order[j]))[axis]
		if desc {
			return a > b
		}
		return a < b
	})
	out := geom.New()
	out.Topo.SetPointCount(c.Topo.PointCount())
	for _, name := range c.Points.Names() {
		u := attr.CopyByIndex(c.Points.Get(name), order)
		out.Points.AddStorage(u)
	}
	out.Verts = c.Verts.Clone()
	out.Prims = c.Prims.Clone()
	out.Detail = c.Detail.Clone()
	remap := make([]int32, len(order))
	for newIdx, oldIdx := range order {
		remap[oldIdx] = int32(newIdx)
	}
	out.Topo.SetVertexCount(c.Topo.VertexCount())
	for v := 0; v < c.Topo.VertexCount(); v++ {
		out.Topo.SetVertexPoint(v, remap[c.Topo.VertexPoint(v)])
	}
	for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
		out.Topo.AddPrimitive(c.Topo.PrimitiveVertices(pr))
	}
	out.SyncAttributeSizes()
	return Ok(geom.NewHandle(out))
}

// --- Split -----------------------------------------------------------------

type splitExec struct{}

// NewSplit has two outputs: primary carries the named group's
// members, secondary carries the rest. Engines without multi-output
// wiring can read the primary "geometry" output only; it is still a single Executor
// whose Execute result feeds the primary port, with the secondary
// computed and cached directly on the output port here.
func NewSplit(id int) *Node {
	n := singleInput(id, "split", splitExec{})
	n.Ports.AddOutput("inverse", 0, id)
	n.RegisterParam(&param.Definition{Name: "group", Kind: param.KString, Default: param.String(""), Category: "Select"})
	n.RegisterParam(&param.Definition{Name: "class", Kind: param.KInt, Default: param.Int(int64(attr.Point)), Options: []string{"point", "primitive"}, Category: "Select"})
	return n
}

func (splitExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	group := n.GetString("group", "")
	class := attr.Class(n.GetInt("class", int64(attr.Point)))
	c := in.Read()
	if !geom.HasGroup(c, group, class) {
		return Fail(NewError(InputInvalid, "split: group %q does not exist", group))
	}
	members := geom.GetGroupElements(c, group, class)
	memberSet := make(map[int]bool, len(members))
	for _, i := range members {
		memberSet[i] = true
	}
	var complement []int
	for i := 0; i < c.Count(class); i++ {
		if !memberSet[i] {
			complement = append(complement, i)
		}
	}
	primary, err := geom.DeleteElementsByIndices(c, class, complement, true)
	if err != nil {
		return Fail(WrapError(AlgorithmFailure, err, "split: primary"))
	}
	if len(members) > 0 {
		if secondary, serr := geom.DeleteElementsByIndices(c, class, members, true); serr == nil {
			if out := n.Ports.ByName("inverse"); out != nil {
				out.SetData(geom.NewHandle(secondary))
			}
		}
	}
	return Ok(geom.NewHandle(primary))
}
