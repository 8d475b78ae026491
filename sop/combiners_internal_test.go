package sop

import (
	"testing"

	"nodeflux/attr"
	"nodeflux/linear"
)

// TestMergeAttrSetLaterInputWinsOnTypeConflict exercises the same-name,
// different-type case directly: a declares "foo" as Float, b (the
// later input) declares "foo" as Vec3f. The merged attribute must come
// out Vec3f, with a's span left at the zero vector rather than a
// panicking type assertion.
func TestMergeAttrSetLaterInputWinsOnTypeConflict(t *testing.T) {
	a := attr.NewSet(attr.Point)
	if err := a.Add("foo", attr.Float, attr.Linear, 2); err != nil {
		t.Fatalf("a.Add: %v", err)
	}
	attr.Typed[float32](a.Get("foo")).Set(0, 1)
	attr.Typed[float32](a.Get("foo")).Set(1, 2)

	b := attr.NewSet(attr.Point)
	if err := b.Add("foo", attr.Vec3f, attr.Linear, 1); err != nil {
		t.Fatalf("b.Add: %v", err)
	}
	attr.Typed[linear.V3](b.Get("foo")).Set(0, linear.V3{7, 8, 9})

	dst := attr.NewSet(attr.Point)
	mergeAttrSet(dst, a, b, 2, 1)

	got := dst.Get("foo")
	if got.Descriptor().Type != attr.Vec3f {
		t.Fatalf("merged \"foo\" type = %v, want Vec3f (later input wins)", got.Descriptor().Type)
	}
	typed := attr.Typed[linear.V3](got)
	if v := typed.At(0); v != (linear.V3{}) {
		t.Errorf("a's span at index 0 = %v, want zero value (type mismatch degrades, doesn't convert)", v)
	}
	if v := typed.At(1); v != (linear.V3{}) {
		t.Errorf("a's span at index 1 = %v, want zero value", v)
	}
	if v := typed.At(2); v != (linear.V3{7, 8, 9}) {
		t.Errorf("b's span at index 2 = %v, want {7 8 9}", v)
	}
}

// TestMergeAttrSetSameTypeStillConcatenates guards against the fix
// above accidentally dropping the common, same-type case.
func TestMergeAttrSetSameTypeStillConcatenates(t *testing.T) {
	a := attr.NewSet(attr.Point)
	a.Add("foo", attr.Float, attr.Linear, 1)
	attr.Typed[float32](a.Get("foo")).Set(0, 1)

	b := attr.NewSet(attr.Point)
	b.Add("foo", attr.Float, attr.Linear, 1)
	attr.Typed[float32](b.Get("foo")).Set(0, 2)

	dst := attr.NewSet(attr.Point)
	mergeAttrSet(dst, a, b, 1, 1)

	typed := attr.Typed[float32](dst.Get("foo"))
	if typed.At(0) != 1 || typed.At(1) != 2 {
		t.Errorf("merged values = [%v %v], want [1 2]", typed.At(0), typed.At(1))
	}
}
