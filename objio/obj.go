// Package objio implements Wavefront OBJ import/export, the one
// external geometry interchange format spec.md §6 requires: recover
// positions, optional vertex normals, and n-gon or triangulated faces
// on import; emit v/vn/f lines (v//vn syntax when normals are
// present) on export. Adapted from gltf's io.Reader/io.Writer codec
// shape (gltf.Unpack/gltf.Pack) to a line-oriented text format rather
// than glTF's binary+JSON chunks.
package objio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"nodeflux/attr"
	"nodeflux/geom"
	"nodeflux/linear"
)

// Import reads an OBJ stream into a fresh geometry container. Faces
// are kept as n-gons (no triangulation); a "v//vn" or "v/vt/vn" face
// token uses only the vertex and (if present) normal indices, per
// spec.md's recovery requirement.
func Import(r io.Reader) (*geom.Container, error) {
	var positions []linear.V3
	var normals []linear.V3

	type faceRecord struct {
		points  []int32
		normals []int32 // -1 entries where absent
	}
	var records []faceRecord

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseV3(fields[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "obj: line %d", lineNo)
			}
			positions = append(positions, v)
		case "vn":
			v, err := parseV3(fields[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "obj: line %d", lineNo)
			}
			normals = append(normals, v)
		case "f":
			rec := faceRecord{}
			for _, tok := range fields[1:] {
				pi, ni, err := parseFaceToken(tok)
				if err != nil {
					return nil, errors.Wrapf(err, "obj: line %d", lineNo)
				}
				rec.points = append(rec.points, pi)
				rec.normals = append(rec.normals, ni)
			}
			records = append(records, rec)
		default:
			// unsupported directive (mtllib, usemtl, g, s, ...): ignored
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "obj: scan")
	}

	c := geom.New()
	c.Topo.SetPointCount(len(positions))
	p := c.EnsurePositionAttribute()
	for i, v := range positions {
		p.Set(i, v)
	}

	hasNormals := len(normals) > 0
	var vertCount int
	for _, rec := range records {
		vertCount += len(rec.points)
	}
	c.Topo.SetVertexCount(vertCount)

	var vn *attr.Storage[linear.V3]
	if hasNormals {
		if err := c.Verts.Add("N", attr.Vec3f, attr.Linear, vertCount); err != nil {
			return nil, errors.Wrap(err, "obj: adding vertex normal attribute")
		}
		vn = c.VertexNormals()
	}

	vi := 0
	for _, rec := range records {
		verts := make([]int32, len(rec.points))
		for k, pi := range rec.points {
			if pi < 0 || int(pi) >= len(positions) {
				return nil, errors.Errorf("obj: face vertex index %d out of range", pi)
			}
			c.Topo.SetVertexPoint(vi, pi)
			if vn != nil && rec.normals[k] >= 0 && int(rec.normals[k]) < len(normals) {
				vn.Set(vi, normals[rec.normals[k]])
			}
			verts[k] = int32(vi)
			vi++
		}
		c.Topo.AddPrimitive(verts)
	}
	c.SyncAttributeSizes()
	return c, nil
}

// parseV3 parses the three numeric fields of a "v"/"vn" line (a
// trailing w component, if present, is ignored).
func parseV3(fields []string) (linear.V3, error) {
	if len(fields) < 3 {
		return linear.V3{}, errors.New("expected 3 components")
	}
	var v linear.V3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return linear.V3{}, errors.Wrapf(err, "component %d", i)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFaceToken parses one "v", "v/vt", "v//vn", or "v/vt/vn" face
// token into 0-based point and normal indices (-1 if absent).
// Negative OBJ indices (relative to the end of the list so far) are
// not supported; out-of-range checking happens at the caller once the
// full vertex count is known.
func parseFaceToken(tok string) (point, normal int32, err error) {
	parts := strings.Split(tok, "/")
	pi, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.Wrapf(err, "face token %q", tok)
	}
	normal = -1
	if len(parts) == 3 && parts[2] != "" {
		ni, err := strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, errors.Wrapf(err, "face token %q", tok)
		}
		normal = int32(ni - 1)
	}
	return int32(pi - 1), normal, nil
}

// Export writes a geometry container as an OBJ stream: one "v" line
// per point, one "vn" line per point/vertex normal (point normals
// preferred, falling back to vertex normals), and one "f" line per
// primitive using "v//vn" syntax when normals are available.
func Export(w io.Writer, c *geom.Container) error {
	bw := bufio.NewWriter(w)
	p := c.Positions()
	if p == nil {
		return errors.New("obj: geometry has no position attribute")
	}
	fmt.Fprintln(bw, "# exported by nodeflux/objio")
	for i := 0; i < p.Size(); i++ {
		v := p.At(i)
		fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
	}

	pn := c.PointNormals()
	vn := c.VertexNormals()
	hasNormals := pn != nil || vn != nil
	if pn != nil {
		for i := 0; i < pn.Size(); i++ {
			v := pn.At(i)
			fmt.Fprintf(bw, "vn %g %g %g\n", v[0], v[1], v[2])
		}
	} else if vn != nil {
		for i := 0; i < vn.Size(); i++ {
			v := vn.At(i)
			fmt.Fprintf(bw, "vn %g %g %g\n", v[0], v[1], v[2])
		}
	}

	for pr := 0; pr < c.Topo.PrimitiveCount(); pr++ {
		verts := c.Topo.PrimitiveVertices(pr)
		bw.WriteString("f")
		for _, v := range verts {
			pt := c.Topo.VertexPoint(int(v)) + 1 // OBJ indices are 1-based
			if !hasNormals {
				fmt.Fprintf(bw, " %d", pt)
				continue
			}
			normIdx := pt
			if pn == nil {
				normIdx = v + 1
			}
			fmt.Fprintf(bw, " %d//%d", pt, normIdx)
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}
