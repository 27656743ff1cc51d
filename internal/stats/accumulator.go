// Package stats keeps serializable running statistics.
package stats

import (
	"math"

	"github.com/san-kum/mcsim/internal/serial"
)

const accumulatorVersion = 5030

// Accumulator collects count, sum and sum of squares of observed values,
// together with the extremes.
type Accumulator struct {
	count int64
	sum   float64
	sumSq float64
	min   float64
	max   float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{min: math.Inf(1), max: math.Inf(-1)}
}

func (a *Accumulator) Accumulate(v float64) {
	a.count++
	a.sum += v
	a.sumSq += v * v
	a.min = math.Min(a.min, v)
	a.max = math.Max(a.max, v)
}

func (a *Accumulator) Count() int64 { return a.count }

func (a *Accumulator) Sum() float64 { return a.sum }

func (a *Accumulator) Min() float64 { return a.min }

func (a *Accumulator) Max() float64 { return a.max }

func (a *Accumulator) Average() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// Stdev is the sample standard deviation; zero below two values.
func (a *Accumulator) Stdev() float64 {
	if a.count < 2 {
		return 0
	}
	n := float64(a.count)
	v := (a.sumSq - a.sum*a.sum/n) / (n - 1)
	if v < 0 {
		return 0
	}
	return math.Sqrt(v)
}

func (a *Accumulator) Reset() { *a = *NewAccumulator() }

func (a *Accumulator) Serialize(w *serial.Writer) {
	w.Version(accumulatorVersion)
	w.Int64(a.count)
	w.Float(a.sum)
	w.Float(a.sumSq)
	w.Float(a.min)
	w.Float(a.max)
}

func ReadAccumulator(r *serial.Reader) *Accumulator {
	r.Version("Accumulator", accumulatorVersion)
	return &Accumulator{
		count: r.Int64(),
		sum:   r.Float(),
		sumSq: r.Float(),
		min:   r.Float(),
		max:   r.Float(),
	}
}
