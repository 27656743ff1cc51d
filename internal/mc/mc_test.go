package mc_test

import (
	"bytes"
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/criteria"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/perturb"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/random"
	"github.com/san-kum/mcsim/internal/selection"
	"github.com/san-kum/mcsim/internal/serial"
	"github.com/san-kum/mcsim/internal/steppers"
	"github.com/san-kum/mcsim/internal/system"
)

// dimers builds four harmonic dimers on a square, 1.5 apart.
func dimers() *system.System {
	c, err := configuration.New(3)
	Expect(err).NotTo(HaveOccurred())
	typ, err := c.AddParticleType(configuration.ParticleType{
		Name: "dimer",
		Sites: []configuration.Site{
			{Type: 0, Position: geom.Position{0, 0, 0}},
			{Type: 0, Position: geom.Position{1, 0, 0}},
		},
		Bonds: []configuration.Bond{{Type: 0, Model: "BondHarmonic", Sites: [2]int{0, 1},
			Params: map[string]float64{"k_energy_per_length_sq": 100, "equilibrium_length": 1}}},
	})
	Expect(err).NotTo(HaveOccurred())
	for _, origin := range []geom.Position{{0, 0, 0}, {0, 1.5, 0}, {0, 0, 1.5}, {0, 1.5, 1.5}} {
		_, err := c.AddParticleOfType(typ, origin)
		Expect(err).NotTo(HaveOccurred())
	}
	sys, err := system.New(c, system.ThermoParams{Beta: 1})
	Expect(err).NotTo(HaveOccurred())
	sys.AddPotential(potential.NewPair(potential.NewLennardJones(1, 1), 3))
	sys.AddPotential(potential.NewBonded())
	return sys
}

func trial(sel selection.Select, p perturb.Perturb, weight float64) *mc.Trial {
	t, err := mc.NewTrial(sel, p, weight)
	Expect(err).NotTo(HaveOccurred())
	return t
}

func simulation(seed uint64) *mc.MonteCarlo {
	m := mc.New(dimers(), criteria.NewMetropolis(), random.NewPCG(seed))
	m.AddTrial(trial(selection.NewParticle(configuration.AllGroup()), perturb.NewTranslate(0.2), 1))
	m.AddTrial(trial(selection.NewParticle(configuration.AllGroup()), perturb.NewRotateCOM(20), 1))
	m.AddTrial(trial(selection.NewBond(0, 1, 0), perturb.NewDistance(perturb.NoPotential, perturb.DefaultMaxAttempts), 1))
	m.AddModifier(steppers.NewCheckEnergy(1, 1e-9, steppers.CheckPositions{}))
	m.AddModifier(steppers.NewTune(100))
	m.AddModifier(steppers.NewEnergyTrace(10))
	return m
}

func snapshot(m *mc.MonteCarlo) []byte {
	data, err := serial.Marshal(m)
	Expect(err).NotTo(HaveOccurred())
	return data
}

var _ = Describe("MonteCarlo", func() {
	var (
		m   *mc.MonteCarlo
		ctx context.Context
	)

	BeforeEach(func() {
		m = simulation(1234)
		ctx = context.Background()
	})

	Describe("Initialize", func() {
		It("starts the running energy at the recomputed energy", func() {
			Expect(m.Initialize()).To(Succeed())
			Expect(m.Criteria().CurrentEnergy()).To(Equal(m.System().UnoptimizedEnergy()))
		})

		It("rejects a simulation without trials", func() {
			empty := mc.New(dimers(), criteria.NewMetropolis(), random.NewPCG(1))
			Expect(errors.Is(empty.Initialize(), mcsim.ErrConfig)).To(BeTrue())
		})

		It("fails when a distance move has no bond to act on", func() {
			bad := mc.New(dimers(), criteria.NewMetropolis(), random.NewPCG(1))
			bad.AddTrial(trial(selection.NewParticle(configuration.AllGroup()),
				perturb.NewDistance(perturb.NoPotential, 10), 1))
			var cfg *mcsim.ConfigError
			Expect(errors.As(bad.Initialize(), &cfg)).To(BeTrue())
			Expect(cfg.Key).To(Equal("bond_type"))
		})
	})

	Describe("Attempt", func() {
		It("keeps the running energy consistent with every move type", func() {
			Expect(m.Initialize()).To(Succeed())
			Expect(m.Attempt(ctx, 3000)).To(Succeed())
			Expect(m.NumAttempts()).To(BeEquivalentTo(3000))

			for i := 0; i < m.NumTrials(); i++ {
				t := m.Trial(i)
				Expect(t.Attempted()).To(BeNumerically(">", 0), t.Name())
				Expect(t.Accepted()).To(BeNumerically(">", 0), t.Name())
			}
			check := m.Checks()[0]
			Expect(check.Drift().Count()).To(BeEquivalentTo(3000))
			Expect(check.Drift().Max()).To(BeNumerically("<", 1e-9))
			Expect(m.EnergySeries()).To(HaveLen(300))
		})

		It("keeps bond lengths physical under distance moves", func() {
			Expect(m.Attempt(ctx, 1000)).To(Succeed())
			c := m.System().Configuration()
			for i := 0; i < c.NumParticles(); i++ {
				r := c.SitePosition(i, 0).Distance(c.SitePosition(i, 1))
				Expect(r).To(BeNumerically("~", 1, 0.5))
			}
		})

		It("stops on a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			Expect(m.Attempt(cctx, 10)).To(MatchError(context.Canceled))
		})

		It("fails when the running energy drifts", func() {
			Expect(m.Attempt(ctx, 10)).To(Succeed())
			m.Criteria().SetCurrentEnergy(m.Criteria().CurrentEnergy() + 1)
			err := m.Attempt(ctx, 1)
			var drift *mcsim.EnergyDriftError
			Expect(errors.As(err, &drift)).To(BeTrue())
			Expect(drift.Difference()).To(BeNumerically("~", 1, 1e-6))
		})

		It("fails when the distance sampler is exhausted", func() {
			sys := dimers()
			wall, err := potential.Registry.Make("Pair", args.Args{"model": "HardSphere", "sigma": "50", "cutoff": "100"})
			Expect(err).NotTo(HaveOccurred())
			sys.AddPotential(wall)
			bad := mc.New(sys, criteria.NewMetropolis(), random.NewPCG(3))
			bad.AddTrial(trial(selection.NewBond(0, 1, 0), perturb.NewDistance(2, 25), 1))

			err = bad.Attempt(ctx, 1)
			var exhausted *mcsim.SamplingExhaustedError
			Expect(errors.As(err, &exhausted)).To(BeTrue())
			Expect(exhausted.MaxAttempts).To(Equal(25))
		})
	})

	Describe("restart", func() {
		It("continues bit-identically from a checkpoint", func() {
			Expect(m.Attempt(ctx, 500)).To(Succeed())
			saved := snapshot(m)

			Expect(m.Attempt(ctx, 500)).To(Succeed())
			straight := snapshot(m)

			restored, err := mc.Read(bytes.NewReader(saved))
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot(restored)).To(Equal(saved))
			Expect(restored.Attempt(ctx, 500)).To(Succeed())
			Expect(snapshot(restored)).To(Equal(straight))
		})

		It("rejects a stream with a different version", func() {
			saved := snapshot(m)
			bad := bytes.Replace(saved, []byte("MonteCarlo 1 "), []byte("MonteCarlo 2 "), 1)
			_, err := mc.Read(bytes.NewReader(bad))
			Expect(errors.Is(err, mcsim.ErrVersionMismatch)).To(BeTrue())
		})

		It("rejects an unknown class", func() {
			saved := snapshot(m)
			bad := bytes.Replace(saved, []byte("PerturbRotateCOM"), []byte("PerturbRotateXYZ"), 1)
			_, err := mc.Read(bytes.NewReader(bad))
			Expect(errors.Is(err, mcsim.ErrUnregistered)).To(BeTrue())
		})
	})
})
