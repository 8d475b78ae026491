package sop

import "math/rand"

// deterministicRand returns a closure yielding successive uniform
// [0,1) float32s from a seeded source, so SOPs with a "seed" parameter
// reproduce identical output across cooks (spec.md §8 invariant:
// cooking is a pure function of inputs and parameters).
func deterministicRand(seed int64) func() float32 {
	r := rand.New(rand.NewSource(seed))
	return func() float32 { return r.Float32() }
}
