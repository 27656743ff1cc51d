package geom

import "math"

// Rotation is a proper rotation in 2 or 3 dimensions.
type Rotation struct {
	dim int
	m   [3][3]float64
}

// AxisAngle builds a 3D rotation of angle radians about axis (normalized
// here) using Rodrigues' formula.
func AxisAngle(axis Position, angle float64) Rotation {
	u := axis.Scale(1 / axis.Norm())
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := u[0], u[1], u[2]
	return Rotation{dim: 3, m: [3][3]float64{
		{c + x*x*t, x*y*t - z*s, x*z*t + y*s},
		{y*x*t + z*s, c + y*y*t, y*z*t - x*s},
		{z*x*t - y*s, z*y*t + x*s, c + z*z*t},
	}}
}

// Planar builds a 2D rotation of angle radians.
func Planar(angle float64) Rotation {
	c, s := math.Cos(angle), math.Sin(angle)
	return Rotation{dim: 2, m: [3][3]float64{
		{c, -s, 0},
		{s, c, 0},
		{0, 0, 1},
	}}
}

func (r Rotation) Dimension() int { return r.dim }

// Apply rotates v about the origin.
func (r Rotation) Apply(v Position) Position {
	out := make(Position, len(v))
	for i := 0; i < r.dim; i++ {
		sum := 0.0
		for j := 0; j < r.dim; j++ {
			sum += r.m[i][j] * v[j]
		}
		out[i] = sum
	}
	return out
}

// About rotates p about pivot.
func (r Rotation) About(p, pivot Position) Position {
	return r.Apply(p.Sub(pivot)).Add(pivot)
}
