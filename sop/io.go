package sop

import (
	"os"
	"path/filepath"
	"strings"

	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/objio"
	"nodeflux/param"
)

// --- File ------------------------------------------------------------------

type fileExec struct{}

// NewFile is a generator SOP that imports geometry from disk (OBJ
// only, per spec.md §6), grounded on original_source/'s file_sop.hpp:
// a zero-input node with a "file_path" parameter and a "reload"
// button that only matters insofar as changing it (or file_path)
// marks the node dirty again.
func NewFile(id int) *Node {
	n := NewNode(id, "file", fileExec{})
	n.Ports.AddOutput("geometry", 0, id)
	n.RegisterParam(&param.Definition{Name: "file_path", Kind: param.KString, Default: param.String(""), Category: "File", Hint: param.HintFilePath})
	n.RegisterParam(&param.Definition{Name: "reload", Kind: param.KBool, Default: param.Bool(false), Category: "File", Hint: param.HintButton})
	return n
}

func (fileExec) Execute(n *Node, _ []geom.Handle) Result {
	path := n.GetString("file_path", "")
	if path == "" {
		return Fail(NewError(ParameterInvalid, "file: file_path is empty"))
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".obj" {
		return Fail(NewError(ParameterInvalid, "file: unsupported format %q (supported: .obj)", ext))
	}
	f, err := os.Open(path)
	if err != nil {
		return Fail(WrapError(ResourceFailure, err, "file: open "+path))
	}
	defer f.Close()
	c, err := objio.Import(f)
	if err != nil {
		return Fail(WrapError(ResourceFailure, err, "file: import "+path))
	}
	return Ok(geom.NewHandle(c))
}

// --- Export ------------------------------------------------------------

type exportExec struct{}

// NewExport is a pass-through SOP with a side effect: when
// "export_now" is set, it writes the input geometry to "file_path" as
// OBJ and always forwards the input unchanged, matching
// original_source/'s export_sop.hpp (an empty file_path is a silent
// no-op, not an error, since the user may still be configuring it).
func NewExport(id int) *Node {
	n := singleInput(id, "export", exportExec{})
	n.RegisterParam(&param.Definition{Name: "file_path", Kind: param.KString, Default: param.String(""), Category: "Export", Hint: param.HintFilePath})
	n.RegisterParam(&param.Definition{Name: "export_now", Kind: param.KBool, Default: param.Bool(false), Category: "Export", Hint: param.HintButton})
	return n
}

func (exportExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	path := n.GetString("file_path", "")
	if path == "" {
		return Ok(in)
	}
	if !n.GetBool("export_now", false) {
		return Ok(in)
	}
	n.SetParam("export_now", param.Bool(false))
	f, ferr := os.Create(path)
	if ferr != nil {
		return Fail(WrapError(ResourceFailure, ferr, "export: create "+path))
	}
	defer f.Close()
	if werr := objio.Export(f, in.Read()); werr != nil {
		return Fail(WrapError(ResourceFailure, werr, "export: write "+path))
	}
	return Ok(in)
}

// --- Extrude -----------------------------------------------------------

type extrudeExec struct{}

// NewExtrude pushes points along their point normal "N" (world +Y when
// the input has none) by "distance", the simple single-step form distinct from
// PolyExtrude's side-wall-stitching variant (spec.md lists both as
// separate closed-set node types).
func NewExtrude(id int) *Node {
	n := singleInput(id, "extrude", extrudeExec{})
	n.RegisterParam(&param.Definition{Name: "distance", Kind: param.KFloat, Default: param.Float(0.1), Category: "Extrude"})
	return n
}

func (extrudeExec) Execute(n *Node, inputs []geom.Handle) Result {
	in, err := requireInput(inputs, 0)
	if err != nil {
		return Fail(err)
	}
	dist := n.GetFloat("distance", 0.1)
	members, filtered := ApplyGroupFilter(in, n.InputGroup(), attr.Point)
	out := in.Clone()
	c := out.Read()
	p := c.Positions()
	if p == nil {
		return Fail(NewError(InputInvalid, "extrude: missing position attribute"))
	}
	nrm := c.PointNormals()
	idx := members
	if !filtered {
		idx = make([]int, p.Size())
		for i := range idx {
			idx[i] = i
		}
	}
	parallelRange(len(idx), func(k int) error {
		i := idx[k]
		v := p.At(i)
		dir := [3]float32{0, 1, 0}
		if nrm != nil {
			nv := nrm.At(i)
			dir = [3]float32{nv[0], nv[1], nv[2]}
		}
		v[0] += dir[0] * dist
		v[1] += dir[1] * dist
		v[2] += dir[2] * dist
		p.Set(i, v)
		return nil
	})
	return Ok(out)
}
