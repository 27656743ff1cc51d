package random

import (
	"encoding/hex"
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/registry"
	"github.com/san-kum/mcsim/internal/serial"
)

const (
	pcgClassName = "RandomPCG"
	pcgVersion   = 8401

	// defaultSeed is used when callers pass seed==0 so defaults stay reproducible.
	defaultSeed uint64 = 1
)

// PCG draws from a permuted congruential generator.
type PCG struct {
	seed uint64
	src  *rand.PCG
	rng  *rand.Rand
}

// NewPCG seeds a generator; seed 0 selects the fixed default seed.
func NewPCG(seed uint64) *PCG {
	if seed == 0 {
		seed = defaultSeed
	}
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &PCG{seed: seed, src: src, rng: rand.New(src)}
}

func pcgFactory() registry.Factory[Random] {
	return registry.Factory[Random]{
		New: func(p *args.Parser) (Random, error) {
			seed := p.Int("seed", 0)
			if seed < 0 {
				p.Fail("seed", "must be non-negative, got %d", seed)
			}
			return NewPCG(uint64(seed)), p.Err()
		},
		Read: func(r *serial.Reader) Random {
			return readPCG(r)
		},
	}
}

func (g *PCG) ClassName() string { return pcgClassName }

func (g *PCG) Seed() uint64 { return g.seed }

func (g *PCG) Uniform() float64 { return g.rng.Float64() }

func (g *PCG) UniformRange(min, max float64) float64 {
	return min + (max-min)*g.rng.Float64()
}

func (g *PCG) Index(n int) int { return g.rng.IntN(n) }

func (g *PCG) UnitSphereSurface(dim int) geom.Position {
	return unitSphere(g.rng.Float64, dim)
}

func (g *PCG) Serialize(w *serial.Writer) {
	w.Name(g.ClassName())
	w.Version(pcgVersion)
	w.Int64(int64(g.seed))
	state, err := g.src.MarshalBinary()
	if err != nil {
		// MarshalBinary on a PCG never fails; keep the stream unreadable if it does
		state = nil
	}
	w.String(hex.EncodeToString(state))
}

func readPCG(r *serial.Reader) *PCG {
	r.Version(pcgClassName, pcgVersion)
	seed := uint64(r.Int64())
	encoded := r.String()
	if r.Err() != nil {
		return nil
	}
	g := NewPCG(seed)
	state, err := hex.DecodeString(encoded)
	if err == nil {
		err = g.src.UnmarshalBinary(state)
	}
	if err != nil {
		r.Fail(fmt.Errorf("%s: generator state: %w", pcgClassName, err))
		return nil
	}
	return g
}
