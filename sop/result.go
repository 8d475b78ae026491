package sop

import "nodeflux/geom"

// Result is what execute() returns: either a geometry value (possibly
// nil, only valid for pass-through nodes with no input) or an error.
type Result struct {
	Value geom.Handle
	Err   error
}

// Ok builds a successful Result.
func Ok(v geom.Handle) Result { return Result{Value: v} }

// Fail builds a failed Result.
func Fail(err error) Result { return Result{Err: err} }

// IsErr reports whether the result carries an error.
func (r Result) IsErr() bool { return r.Err != nil }
