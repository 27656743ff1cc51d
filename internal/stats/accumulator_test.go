package stats

import (
	"bytes"
	"math"
	"testing"

	"github.com/san-kum/mcsim/internal/serial"
)

func TestAccumulator(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		avg    float64
		stdev  float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{3}, 3, 0},
		{"several", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, math.Sqrt(32.0 / 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAccumulator()
			for _, v := range tt.values {
				a.Accumulate(v)
			}
			if math.Abs(a.Average()-tt.avg) > 1e-12 {
				t.Errorf("Average() = %v, want %v", a.Average(), tt.avg)
			}
			if math.Abs(a.Stdev()-tt.stdev) > 1e-12 {
				t.Errorf("Stdev() = %v, want %v", a.Stdev(), tt.stdev)
			}
			if a.Count() != int64(len(tt.values)) {
				t.Errorf("Count() = %d", a.Count())
			}
		})
	}
}

func TestAccumulatorRoundTrip(t *testing.T) {
	a := NewAccumulator()
	for _, v := range []float64{0.1, -2.5e-11, 7} {
		a.Accumulate(v)
	}
	var buf bytes.Buffer
	w := serial.NewWriter(&buf)
	a.Serialize(w)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	r := serial.NewBytesReader(buf.Bytes())
	got := ReadAccumulator(r)
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if *got != *a {
		t.Errorf("got %+v, want %+v", *got, *a)
	}
}

func TestEmptyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := serial.NewWriter(&buf)
	NewAccumulator().Serialize(w)
	w.Flush()
	got := ReadAccumulator(serial.NewBytesReader(buf.Bytes()))
	if !math.IsInf(got.Min(), 1) || !math.IsInf(got.Max(), -1) {
		t.Errorf("extremes = %v %v", got.Min(), got.Max())
	}
}
