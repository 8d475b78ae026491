package attr

import (
	"fmt"

	"github.com/pkg/errors"

	"nodeflux/linear"
)

// construct builds an Untyped Storage for the given Type.
// This is the factory-table resolution of the "type-erased attribute
// storage" design note: one constructor per member of the closed Type
// set, keyed by a runtime tag instead of a dynamic cast.
func construct(desc Descriptor, n int) Untyped {
	switch desc.Type {
	case Int:
		return NewStorage[int32](desc, n)
	case Float:
		return NewStorage[float32](desc, n)
	case Vec2f:
		return NewStorage[linear.V2](desc, n)
	case Vec3f:
		return NewStorage[linear.V3](desc, n)
	case Vec4f:
		return NewStorage[linear.V4](desc, n)
	case Mat3f:
		return NewStorage[linear.M3](desc, n)
	case Mat4f:
		return NewStorage[linear.M4](desc, n)
	case String:
		return NewStorage[string](desc, n)
	default:
		panic("attr: unknown Type")
	}
}

// Set is an ordered mapping from attribute name to owned Storage,
// scoped to a single element Class.
type Set struct {
	class   Class
	order   []string
	entries map[string]Untyped
}

// NewSet creates an empty AttributeSet for the given element class.
func NewSet(class Class) *Set {
	return &Set{class: class, entries: make(map[string]Untyped)}
}

// Class returns the element class this set is scoped to.
func (s *Set) Class() Class { return s.class }

// Add creates a new attribute. It fails if name already exists; the
// new attribute always takes the set's own element class.
func (s *Set) Add(name string, typ Type, interp Interpolation, size int) error {
	if _, ok := s.entries[name]; ok {
		return errors.Errorf("attribute %q already exists", name)
	}
	desc := Descriptor{Name: name, Type: typ, Class: s.class, Interpolation: interp}
	st := construct(desc, size)
	s.entries[name] = st
	s.order = append(s.order, name)
	return nil
}

// AddStorage inserts an already-constructed Untyped storage, failing
// if the name exists or the descriptor's class mismatches the set.
func (s *Set) AddStorage(u Untyped) error {
	d := u.Descriptor()
	if d.Class != s.class {
		return errors.Errorf("attribute %q: class mismatch", d.Name)
	}
	if _, ok := s.entries[d.Name]; ok {
		return errors.Errorf("attribute %q already exists", d.Name)
	}
	s.entries[d.Name] = u
	s.order = append(s.order, d.Name)
	return nil
}

// Remove deletes an attribute by name, reporting whether it existed.
func (s *Set) Remove(name string) bool {
	if _, ok := s.entries[name]; !ok {
		return false
	}
	delete(s.entries, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports whether an attribute of the given name exists.
func (s *Set) Has(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Get returns the untyped storage for name, or nil if absent.
func (s *Set) Get(name string) Untyped { return s.entries[name] }

// Get returns the typed storage for name, or nil if the name is
// absent or its stored type does not match T.
func Get[T Value](s *Set, name string) *Storage[T] {
	return Typed[T](s.Get(name))
}

// Resize resizes every contained storage to n.
func (s *Set) Resize(n int) {
	for _, name := range s.order {
		s.entries[name].Resize(n)
	}
}

// Clone deep-copies every storage into a new Set.
func (s *Set) Clone() *Set {
	cp := &Set{class: s.class, order: append([]string(nil), s.order...), entries: make(map[string]Untyped, len(s.entries))}
	for name, u := range s.entries {
		cp.entries[name] = u.Clone()
	}
	return cp
}

// AttributeCount returns the number of attributes in the set.
func (s *Set) AttributeCount() int { return len(s.order) }

// Names returns the attribute names in insertion order.
func (s *Set) Names() []string { return append([]string(nil), s.order...) }

// MemoryUsage sums the Footprint of every storage.
func (s *Set) MemoryUsage() int {
	n := 0
	for _, u := range s.entries {
		n += u.Footprint()
	}
	return n
}

// Validate checks that every storage's size matches n (the element
// class's current topology count).
func (s *Set) Validate(n int) error {
	for _, name := range s.order {
		if sz := s.entries[name].Size(); sz != n {
			return fmt.Errorf("attribute %q: size %d does not match element count %d", name, sz, n)
		}
	}
	return nil
}
