// Package geom provides the small amount of vector geometry the moves need.
package geom

import (
	"fmt"
	"math"
	"strings"
)

// Position is a point or displacement in 2 or 3 dimensions.
type Position []float64

func NewPosition(coords ...float64) Position {
	p := make(Position, len(coords))
	copy(p, coords)
	return p
}

// Zero returns the origin of the given dimension.
func Zero(dim int) Position { return make(Position, dim) }

func (p Position) Clone() Position {
	c := make(Position, len(p))
	copy(c, p)
	return c
}

func (p Position) Dimension() int { return len(p) }

func (p Position) IsValid() bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p Position) Add(other Position) Position {
	result := make(Position, len(p))
	for i := range p {
		result[i] = p[i] + other[i]
	}
	return result
}

func (p Position) Sub(other Position) Position {
	result := make(Position, len(p))
	for i := range p {
		result[i] = p[i] - other[i]
	}
	return result
}

func (p Position) Scale(factor float64) Position {
	result := make(Position, len(p))
	for i := range p {
		result[i] = p[i] * factor
	}
	return result
}

func (p Position) Dot(other Position) float64 {
	sum := 0.0
	for i := range p {
		sum += p[i] * other[i]
	}
	return sum
}

func (p Position) SquaredNorm() float64 { return p.Dot(p) }

func (p Position) Norm() float64 { return math.Sqrt(p.SquaredNorm()) }

func (p Position) SquaredDistance(other Position) float64 {
	sum := 0.0
	for i := range p {
		d := p[i] - other[i]
		sum += d * d
	}
	return sum
}

func (p Position) Distance(other Position) float64 {
	return math.Sqrt(p.SquaredDistance(other))
}

func (p Position) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// GeometricCenter is the unweighted mean of the points. All points must share
// a dimension; an empty slice has no center and returns nil.
func GeometricCenter(points []Position) Position {
	if len(points) == 0 {
		return nil
	}
	center := Zero(len(points[0]))
	for _, p := range points {
		for i := range center {
			center[i] += p[i]
		}
	}
	return center.Scale(1 / float64(len(points)))
}
