// Package param implements the node parameter variant and its schema
// metadata (spec.md §3, §9 "Parameter variant").
package param

import "nodeflux/linear"

// Kind is the closed set of parameter value alternatives.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KString
	KVec3f
	KCode // textually identical to KString, semantically an expression
)

func (k Kind) String() string {
	switch k {
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KBool:
		return "bool"
	case KString:
		return "string"
	case KVec3f:
		return "vector3"
	case KCode:
		return "code"
	default:
		return "kind?"
	}
}

// Value is a closed sum type over {Int, Float, Bool, String, Vec3f, Code}.
// Exactly the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	I    int64
	F    float32
	B    bool
	S    string // also holds Code
	V    linear.V3
}

func Int(v int64) Value      { return Value{Kind: KInt, I: v} }
func Float(v float32) Value  { return Value{Kind: KFloat, F: v} }
func Bool(v bool) Value      { return Value{Kind: KBool, B: v} }
func String(v string) Value  { return Value{Kind: KString, S: v} }
func Vec3f(v linear.V3) Value { return Value{Kind: KVec3f, V: v} }
func Code(v string) Value    { return Value{Kind: KCode, S: v} }

// AsInt returns the Int/Float-coerced value, or def if Kind does not
// carry a numeric alternative.
func (v Value) AsInt(def int64) int64 {
	switch v.Kind {
	case KInt:
		return v.I
	case KFloat:
		return int64(v.F)
	default:
		return def
	}
}

// AsFloat returns the Float/Int-coerced value, or def otherwise.
func (v Value) AsFloat(def float32) float32 {
	switch v.Kind {
	case KFloat:
		return v.F
	case KInt:
		return float32(v.I)
	default:
		return def
	}
}

// AsBool returns the Bool value, or def otherwise.
func (v Value) AsBool(def bool) bool {
	if v.Kind == KBool {
		return v.B
	}
	return def
}

// AsString returns the String/Code value, or def otherwise.
func (v Value) AsString(def string) string {
	if v.Kind == KString || v.Kind == KCode {
		return v.S
	}
	return def
}

// AsVec3f returns the Vec3f value, or def otherwise.
func (v Value) AsVec3f(def linear.V3) linear.V3 {
	if v.Kind == KVec3f {
		return v.V
	}
	return def
}
