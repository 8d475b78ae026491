package attr

import "nodeflux/linear"

// copyByIndex builds a new Storage[T] of len(indices) entries, where
// entry i comes from src[indices[i]], or the zero value of T when
// indices[i] is negative (a synthesized/defaulted element).
func copyByIndex[T Value](src *Storage[T], indices []int32) *Storage[T] {
	out := NewStorage[T](src.Descriptor(), len(indices))
	for i, idx := range indices {
		if idx >= 0 {
			out.Set(i, src.At(int(idx)))
		}
	}
	return out
}

// CopyByIndex dispatches to the typed copyByIndex for every member of
// the closed attribute Type set, rebuilding u under the given index
// remap. This is the attribute-type dispatch that delete_elements and
// merge rely on (spec.md §4.3 names INT/FLOAT/VEC2F/VEC3F/VEC4F
// explicitly and routes STRING/MAT3F/MAT4F through the same generic
// clone-by-index mechanism).
func CopyByIndex(u Untyped, indices []int32) Untyped {
	switch u.Type() {
	case Int:
		return copyByIndex(u.(*Storage[int32]), indices)
	case Float:
		return copyByIndex(u.(*Storage[float32]), indices)
	case Vec2f:
		return copyByIndex(u.(*Storage[linear.V2]), indices)
	case Vec3f:
		return copyByIndex(u.(*Storage[linear.V3]), indices)
	case Vec4f:
		return copyByIndex(u.(*Storage[linear.V4]), indices)
	case Mat3f:
		return copyByIndex(u.(*Storage[linear.M3]), indices)
	case Mat4f:
		return copyByIndex(u.(*Storage[linear.M4]), indices)
	case String:
		return copyByIndex(u.(*Storage[string]), indices)
	default:
		panic("attr: unknown Type")
	}
}
