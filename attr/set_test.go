package attr

import (
	"testing"

	"nodeflux/linear"
)

func TestAddHasRemove(t *testing.T) {
	s := NewSet(Point)
	if err := s.Add("P", Vec3f, Linear, 4); err != nil {
		t.Fatalf("Add: unexpected error: %v", err)
	}
	if !s.Has("P") {
		t.Fatal("Has(P): want true")
	}
	if err := s.Add("P", Vec3f, Linear, 4); err == nil {
		t.Fatal("Add: duplicate name should fail")
	}
	if !s.Remove("P") {
		t.Fatal("Remove(P): want true")
	}
	if s.Has("P") {
		t.Fatal("Has(P) after Remove: want false")
	}
	if s.Remove("P") {
		t.Fatal("Remove(P) twice: want false")
	}
}

func TestTypedAccess(t *testing.T) {
	s := NewSet(Point)
	s.Add("P", Vec3f, Linear, 2)
	if st := Get[float32](s, "P"); st != nil {
		t.Fatal("Get with wrong Go type should return nil")
	}
	if st := Get[linear.V3](s, "P"); st == nil {
		t.Fatal("Get with matching Go type should return non-nil")
	}
	if st := Get[linear.V3](s, "missing"); st != nil {
		t.Fatal("Get with missing name should return nil")
	}
}

func TestResizeAndValidate(t *testing.T) {
	s := NewSet(Point)
	s.Add("P", Vec3f, Linear, 2)
	s.Add("mass", Float, Linear, 2)
	s.Resize(5)
	if err := s.Validate(5); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := s.Validate(3); err == nil {
		t.Fatal("Validate with wrong count should fail")
	}
}

func TestClone(t *testing.T) {
	s := NewSet(Point)
	s.Add("P", Vec3f, Linear, 1)
	cp := s.Clone()
	cp.Remove("P")
	if !s.Has("P") {
		t.Fatal("Clone should be independent of source")
	}
}
