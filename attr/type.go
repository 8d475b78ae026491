// Package attr implements typed, named attribute storage for the
// geometry container's four element classes.
package attr

import "nodeflux/linear"

// Class identifies one of the geometry container's element classes.
type Class int

const (
	Point Class = iota
	Vertex
	Primitive
	Detail
)

func (c Class) String() string {
	switch c {
	case Point:
		return "point"
	case Vertex:
		return "vertex"
	case Primitive:
		return "primitive"
	case Detail:
		return "detail"
	default:
		return "class?"
	}
}

// Type is the closed set of attribute value types.
type Type int

const (
	Int Type = iota
	Float
	Vec2f
	Vec3f
	Vec4f
	Mat3f
	Mat4f
	String
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case Vec2f:
		return "vec2f"
	case Vec3f:
		return "vec3f"
	case Vec4f:
		return "vec4f"
	case Mat3f:
		return "mat3f"
	case Mat4f:
		return "mat4f"
	case String:
		return "string"
	default:
		return "type?"
	}
}

// Interpolation is how new elements derive a value for this attribute
// from existing ones (subdivision, merge, topology edits).
type Interpolation int

const (
	Linear Interpolation = iota
	Cubic
	Constant
	Weighted
)

// Zero returns the zero value for a given Type, as an any holding the
// concrete Go type that Storage[T] would use.
func Zero(t Type) any {
	switch t {
	case Int:
		return int32(0)
	case Float:
		return float32(0)
	case Vec2f:
		return linear.V2{}
	case Vec3f:
		return linear.V3{}
	case Vec4f:
		return linear.V4{}
	case Mat3f:
		return linear.M3{}
	case Mat4f:
		return linear.M4{}
	case String:
		return ""
	default:
		panic("attr: unknown Type")
	}
}
