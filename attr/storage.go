package attr

import (
	"unsafe"

	"nodeflux/linear"
)

// Descriptor is the immutable metadata every Storage carries.
type Descriptor struct {
	Name          string
	Type          Type
	Class         Class
	Interpolation Interpolation
}

// Value is the closed set of Go types a Storage[T] may hold.
type Value interface {
	int32 | float32 | linear.V2 | linear.V3 | linear.V4 |
		linear.M3 | linear.M4 | string
}

// Untyped is the type-erased interface AttributeSet stores.
// Concrete access for a known T goes through a checked downcast
// (see Typed and Get); this interface only exposes what every Storage
// offers regardless of its element type.
type Untyped interface {
	Size() int
	Resize(n int)
	Type() Type
	Descriptor() Descriptor
	Clone() Untyped
	Footprint() int
}

// Storage is a dense, contiguous, index-addressable array of T,
// carrying an immutable Descriptor.
type Storage[T Value] struct {
	desc Descriptor
	data []T
}

// NewStorage creates a Storage of the given descriptor and length,
// zero-initialized.
func NewStorage[T Value](desc Descriptor, n int) *Storage[T] {
	return &Storage[T]{desc: desc, data: make([]T, n)}
}

func (s *Storage[T]) Size() int   { return len(s.data) }
func (s *Storage[T]) Type() Type  { return s.desc.Type }
func (s *Storage[T]) Descriptor() Descriptor { return s.desc }

// Resize grows or truncates the storage, zero-initializing any new
// entries.
func (s *Storage[T]) Resize(n int) {
	if n <= len(s.data) {
		s.data = s.data[:n]
		return
	}
	grown := make([]T, n)
	copy(grown, s.data)
	s.data = grown
}

// At returns the value at index i.
func (s *Storage[T]) At(i int) T { return s.data[i] }

// Set writes the value at index i.
func (s *Storage[T]) Set(i int, v T) { s.data[i] = v }

// Slice exposes the backing array for bulk read/write by owning SOPs.
// Callers must respect the same-length-as-topology invariant.
func (s *Storage[T]) Slice() []T { return s.data }

// Clone returns an owned deep copy.
func (s *Storage[T]) Clone() Untyped {
	cp := make([]T, len(s.data))
	copy(cp, s.data)
	return &Storage[T]{desc: s.desc, data: cp}
}

// Footprint returns an estimate of the storage's memory usage in bytes.
func (s *Storage[T]) Footprint() int {
	var zero T
	return len(s.data) * int(unsafe.Sizeof(zero))
}

// Typed downcasts an Untyped storage to *Storage[T], returning nil if
// the dynamic type does not match (absent-or-wrong-type both return nil,
// as spec.md §4.2 requires of typed access).
func Typed[T Value](u Untyped) *Storage[T] {
	if u == nil {
		return nil
	}
	s, ok := u.(*Storage[T])
	if !ok {
		return nil
	}
	return s
}
