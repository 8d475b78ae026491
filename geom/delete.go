package geom

import (
	"github.com/pkg/errors"

	"nodeflux/attr"
)

// DeleteElements implements spec.md §4.3's critical operation: it
// returns a new Container with every element in the named group
// removed from the given class, or an error if the group is missing,
// empty, or class is not a valid element class.
//
// Deleting primitives: points and point attributes are copied as-is.
// Every surviving primitive is re-emitted with a fresh vertex range;
// its vertex attributes and point indices are copied across. When
// deleteOrphanedPoints is true, points no longer referenced by any
// vertex are dropped afterward.
//
// Deleting points: a point remap is built (old -> new, -1 for
// deleted). Any primitive that references a deleted point through any
// of its vertices is dropped in its entirety; surviving primitives are
// re-emitted with remapped point indices.
func DeleteElements(c *Container, group string, class attr.Class, deleteOrphanedPoints bool) (*Container, error) {
	if class != attr.Point && class != attr.Primitive {
		return nil, errors.Errorf("geom: invalid element class for delete: %v", class)
	}
	if !HasGroup(c, group, class) {
		return nil, errors.Errorf("geom: group %q does not exist", group)
	}
	toDelete := GetGroupElements(c, group, class)
	if len(toDelete) == 0 {
		return nil, errors.Errorf("geom: group %q is empty", group)
	}
	return DeleteElementsByIndices(c, class, toDelete, deleteOrphanedPoints)
}

// DeleteElementsByIndices is DeleteElements with the element set given
// directly as indices rather than as a named group. It is the
// mechanism the universal group filter (spec.md §4.5) and Blast/Delete
// use to delete a computed selection without first materializing it
// as a group attribute on a possibly-shared input container.
func DeleteElementsByIndices(c *Container, class attr.Class, indices []int, deleteOrphanedPoints bool) (*Container, error) {
	if class != attr.Point && class != attr.Primitive {
		return nil, errors.Errorf("geom: invalid element class for delete: %v", class)
	}
	if len(indices) == 0 {
		return nil, errors.New("geom: empty index set for deletion")
	}
	del := make(map[int]bool, len(indices))
	for _, i := range indices {
		del[i] = true
	}
	if class == attr.Primitive {
		return deletePrimitives(c, del, deleteOrphanedPoints)
	}
	return deletePoints(c, del)
}

func deletePrimitives(c *Container, delPrim map[int]bool, deleteOrphanedPoints bool) (*Container, error) {
	out := New()
	// Points and point attributes are carried over unchanged.
	out.Topo.SetPointCount(c.Topo.PointCount())
	pointIdentity := make([]int32, c.Topo.PointCount())
	for i := range pointIdentity {
		pointIdentity[i] = int32(i)
	}
	copyAttrs(out.Points, c.Points, pointIdentity)

	// Rebuild primitives/vertices, skipping deleted ones.
	var vertOld []int32 // new vertex idx -> old vertex idx
	for p := 0; p < c.Topo.PrimitiveCount(); p++ {
		if delPrim[p] {
			continue
		}
		oldVerts := c.Topo.PrimitiveVertices(p)
		newVerts := make([]int32, len(oldVerts))
		for i, ov := range oldVerts {
			newVerts[i] = int32(len(vertOld))
			vertOld = append(vertOld, ov)
		}
		out.Topo.AddPrimitive(newVerts)
	}
	out.Topo.SetVertexCount(len(vertOld))
	for nv, ov := range vertOld {
		out.Topo.SetVertexPoint(nv, c.Topo.VertexPoint(int(ov)))
	}
	copyAttrs(out.Verts, c.Verts, vertOld)
	copyPrimAttrs(out, c, delPrim)
	out.Detail = c.Detail.Clone()

	if deleteOrphanedPoints {
		return dropOrphanedPoints(out)
	}
	out.SyncAttributeSizes()
	return out, nil
}

func copyPrimAttrs(out, c *Container, delPrim map[int]bool) {
	keep := make([]int32, 0, c.Topo.PrimitiveCount())
	for p := 0; p < c.Topo.PrimitiveCount(); p++ {
		if !delPrim[p] {
			keep = append(keep, int32(p))
		}
	}
	copyAttrs(out.Prims, c.Prims, keep)
}

func deletePoints(c *Container, delPoint map[int]bool) (*Container, error) {
	out := New()
	remap := make([]int32, c.Topo.PointCount())
	var keep []int32
	for i := 0; i < c.Topo.PointCount(); i++ {
		if delPoint[i] {
			remap[i] = -1
			continue
		}
		remap[i] = int32(len(keep))
		keep = append(keep, int32(i))
	}
	out.Topo.SetPointCount(len(keep))
	copyAttrs(out.Points, c.Points, keep)

	var vertOld []int32
	for p := 0; p < c.Topo.PrimitiveCount(); p++ {
		oldVerts := c.Topo.PrimitiveVertices(p)
		drop := false
		for _, v := range oldVerts {
			if delPoint[int(c.Topo.VertexPoint(int(v)))] {
				drop = true
				break
			}
		}
		if drop {
			continue
		}
		newVerts := make([]int32, len(oldVerts))
		for i, ov := range oldVerts {
			newVerts[i] = int32(len(vertOld))
			vertOld = append(vertOld, ov)
		}
		out.Topo.AddPrimitive(newVerts)
	}
	out.Topo.SetVertexCount(len(vertOld))
	for nv, ov := range vertOld {
		out.Topo.SetVertexPoint(nv, remap[c.Topo.VertexPoint(int(ov))])
	}
	copyAttrs(out.Verts, c.Verts, vertOld)

	keptPrims := make([]int32, 0, c.Topo.PrimitiveCount())
	for p := 0; p < c.Topo.PrimitiveCount(); p++ {
		oldVerts := c.Topo.PrimitiveVertices(p)
		drop := false
		for _, v := range oldVerts {
			if delPoint[int(c.Topo.VertexPoint(int(v)))] {
				drop = true
				break
			}
		}
		if !drop {
			keptPrims = append(keptPrims, int32(p))
		}
	}
	copyAttrs(out.Prims, c.Prims, keptPrims)
	out.Detail = c.Detail.Clone()
	out.SyncAttributeSizes()
	return out, nil
}

// dropOrphanedPoints rebuilds c's points so that only points still
// referenced by some vertex survive.
func dropOrphanedPoints(c *Container) (*Container, error) {
	referenced := make(map[int32]bool, c.Topo.PointCount())
	for v := 0; v < c.Topo.VertexCount(); v++ {
		referenced[c.Topo.VertexPoint(v)] = true
	}
	remap := make([]int32, c.Topo.PointCount())
	var keep []int32
	for i := 0; i < c.Topo.PointCount(); i++ {
		if !referenced[int32(i)] {
			remap[i] = -1
			continue
		}
		remap[i] = int32(len(keep))
		keep = append(keep, int32(i))
	}
	if len(keep) == c.Topo.PointCount() {
		c.SyncAttributeSizes()
		return c, nil
	}
	c.Points = rebuildSet(c.Points, keep)
	c.Topo.SetPointCount(len(keep))
	for v := 0; v < c.Topo.VertexCount(); v++ {
		c.Topo.SetVertexPoint(v, remap[c.Topo.VertexPoint(v)])
	}
	c.SyncAttributeSizes()
	return c, nil
}

// copyAttrs rebuilds every storage in src under the given index remap
// (see attr.CopyByIndex) and adds it to dst. Callers pass an empty dst;
// a name dst already holds is left as it was.
func copyAttrs(dst, src *attr.Set, indices []int32) {
	for _, name := range src.Names() {
		u := attr.CopyByIndex(src.Get(name), indices)
		dst.AddStorage(u)
	}
}

// rebuildSet returns a fresh Set containing src's attributes
// remapped by indices, used when a set must be replaced wholesale
// (dropOrphanedPoints).
func rebuildSet(src *attr.Set, indices []int32) *attr.Set {
	out := attr.NewSet(src.Class())
	for _, name := range src.Names() {
		u := attr.CopyByIndex(src.Get(name), indices)
		out.AddStorage(u)
	}
	return out
}
