package criteria

import (
	"math"
	"testing"

	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/serial"
)

func TestMetropolis(t *testing.T) {
	rnd := random.NewPCG(7)
	m := NewMetropolis()
	tests := []struct {
		name  string
		delta float64
		want  bool
	}{
		{"downhill", -3, true},
		{"flat", 0, true},
		{"overlap", math.Inf(1), false},
		{"nan", math.NaN(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.IsAccepted(tt.delta, 1, rnd); got != tt.want {
				t.Errorf("IsAccepted(%v) = %v, want %v", tt.delta, got, tt.want)
			}
		})
	}
}

func TestMetropolisRate(t *testing.T) {
	rnd := random.NewPCG(1)
	m := NewMetropolis()
	accepted := 0
	const n = 100000
	for i := 0; i < n; i++ {
		if m.IsAccepted(1, 1, rnd) {
			accepted++
		}
	}
	if rate := float64(accepted) / n; math.Abs(rate-math.Exp(-1)) > 0.01 {
		t.Errorf("acceptance rate %v, want about %v", rate, math.Exp(-1))
	}
}

func TestMetropolisRoundTrip(t *testing.T) {
	RegisterBuiltins()
	m := NewMetropolis()
	m.SetCurrentEnergy(-12.345678901234567)
	data, err := serial.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	r := serial.NewBytesReader(data)
	got := Registry.Read(r)
	if r.Err() != nil {
		t.Fatal(r.Err())
	}
	if got.CurrentEnergy() != m.CurrentEnergy() {
		t.Errorf("got %v, want %v", got.CurrentEnergy(), m.CurrentEnergy())
	}
}
