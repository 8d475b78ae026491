// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import "math"

// Translation sets m to a translation matrix.
func (m *M4) Translation(t *V3) {
	m.I()
	m[3][0] = t[0]
	m[3][1] = t[1]
	m[3][2] = t[2]
}

// Scaling sets m to a scaling matrix.
func (m *M4) Scaling(s *V3) {
	*m = M4{}
	m[0][0] = s[0]
	m[1][1] = s[1]
	m[2][2] = s[2]
	m[3][3] = 1
}

// RotationX sets m to a rotation matrix around the X axis.
// rad is the angle in radians.
func (m *M4) RotationX(rad float32) {
	s, c := float32(math.Sin(float64(rad))), float32(math.Cos(float64(rad)))
	m.I()
	m[1][1] = c
	m[1][2] = s
	m[2][1] = -s
	m[2][2] = c
}

// RotationY sets m to a rotation matrix around the Y axis.
func (m *M4) RotationY(rad float32) {
	s, c := float32(math.Sin(float64(rad))), float32(math.Cos(float64(rad)))
	m.I()
	m[0][0] = c
	m[0][2] = -s
	m[2][0] = s
	m[2][2] = c
}

// RotationZ sets m to a rotation matrix around the Z axis.
func (m *M4) RotationZ(rad float32) {
	s, c := float32(math.Sin(float64(rad))), float32(math.Cos(float64(rad)))
	m.I()
	m[0][0] = c
	m[0][1] = s
	m[1][0] = -s
	m[1][1] = c
}

// RotationAxis sets m to a rotation matrix of rad radians around
// an arbitrary, normalized axis.
func (m *M4) RotationAxis(axis *V3, rad float32) {
	s, c := float32(math.Sin(float64(rad))), float32(math.Cos(float64(rad)))
	t := 1 - c
	x, y, z := axis[0], axis[1], axis[2]
	m[0] = V4{t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0}
	m[1] = V4{t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0}
	m[2] = V4{t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0}
	m[3] = V4{0, 0, 0, 1}
}

// MulPoint transforms a point (w=1) by m and returns the result's xyz.
func MulPoint(m *M4, p *V3) V3 {
	v := V4{p[0], p[1], p[2], 1}
	var r V4
	r.Mul(m, &v)
	return V3{r[0], r[1], r[2]}
}

// MulDir transforms a direction (w=0) by m and returns the result's xyz.
// Used for normals when m carries no non-uniform scale; callers that need
// correct normal transforms under non-uniform scale should use the
// inverse-transpose of m instead.
func MulDir(m *M4, d *V3) V3 {
	v := V4{d[0], d[1], d[2], 0}
	var r V4
	r.Mul(m, &v)
	return V3{r[0], r[1], r[2]}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float32) float32 { return deg * math.Pi / 180 }
