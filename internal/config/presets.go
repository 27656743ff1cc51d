package config

import (
	"maps"
	"slices"

	"github.com/san-kum/mcsim/internal/args"
)

var harmonicDimer = ParticleType{
	Name: "dimer",
	Sites: []Site{
		{Type: 0, Position: []float64{0, 0, 0}},
		{Type: 0, Position: []float64{1, 0, 0}},
	},
	Bonds: []Bond{{Type: 0, Model: "BondHarmonic", Sites: [2]int{0, 1},
		Params: map[string]float64{"k_energy_per_length_sq": 100, "equilibrium_length": 1}}},
}

var squareWellTrimer = ParticleType{
	Name: "trimer",
	Sites: []Site{
		{Type: 0, Position: []float64{0, 0, 0}},
		{Type: 0, Position: []float64{1, 0, 0}},
		{Type: 0, Position: []float64{2, 0, 0}},
	},
	Bonds: []Bond{
		{Type: 0, Model: "BondSquareWell", Sites: [2]int{0, 1}, Params: map[string]float64{"minimum_distance": 0.9, "maximum_distance": 1.1}},
		{Type: 1, Model: "BondSquareWell", Sites: [2]int{1, 2}, Params: map[string]float64{"minimum_distance": 0.9, "maximum_distance": 1.1}},
	},
}

var lj = Component{Class: "Pair", Args: args.Args{"model": "LennardJones", "cutoff": "3"}}

var checks = []Component{
	{Class: "CheckEnergy", Args: args.Args{"trials_per_update": "1000", "tolerance": "1e-8", "check": "CheckPositions"}},
	{Class: "Tune", Args: args.Args{"trials_per_update": "1000"}},
	{Class: "EnergyTrace", Args: args.Args{"trials_per_update": "100"}},
}

var Presets = map[string]*Config{
	"lj-atoms": {
		Name: "lj-atoms", Dimension: 3, Beta: 1.2, Seed: 1, Attempts: 20000,
		Random: DefaultRandom, Criteria: DefaultCriteria,
		ParticleTypes: []ParticleType{{Name: "atom", Sites: []Site{{Type: 0, Position: []float64{0, 0, 0}}}}},
		Lattice:       &Lattice{Type: 0, Count: 27, Spacing: 1.2},
		Potentials:    []Component{lj},
		Trials: []Trial{
			{Weight: 1, Select: Component{Class: "TrialSelectParticle"}, Perturb: Component{Class: "PerturbTranslate", Args: args.Args{"tunable_param": "0.2"}}},
		},
		Modifiers: checks,
	},
	"lj-dimers": {
		Name: "lj-dimers", Dimension: 3, Beta: 1, Seed: 1, Attempts: 20000,
		Random: DefaultRandom, Criteria: DefaultCriteria,
		ParticleTypes: []ParticleType{harmonicDimer},
		Lattice:       &Lattice{Type: 0, Count: 8, Spacing: 2},
		Potentials:    []Component{lj, {Class: "Bonded"}},
		Trials: []Trial{
			{Weight: 1, Select: Component{Class: "TrialSelectParticle"}, Perturb: Component{Class: "PerturbTranslate", Args: args.Args{"tunable_param": "0.2"}}},
			{Weight: 1, Select: Component{Class: "TrialSelectParticle"}, Perturb: Component{Class: "PerturbRotateCOM"}},
			{Weight: 1, Select: Component{Class: "TrialSelectBond", Args: args.Args{"particle_type": "0", "mobile_site": "1", "anchor_site": "0"}},
				Perturb: Component{Class: "PerturbDistance"}},
		},
		Modifiers: checks,
	},
	"sw-trimers": {
		Name: "sw-trimers", Dimension: 3, Beta: 1, Seed: 1, Attempts: 20000,
		Random: DefaultRandom, Criteria: DefaultCriteria,
		ParticleTypes: []ParticleType{squareWellTrimer},
		Lattice:       &Lattice{Type: 0, Count: 8, Spacing: 3},
		Potentials:    []Component{{Class: "Pair", Args: args.Args{"model": "HardSphere", "sigma": "0.8", "cutoff": "1"}}, {Class: "Bonded"}},
		Trials: []Trial{
			{Weight: 1, Select: Component{Class: "TrialSelectParticle"}, Perturb: Component{Class: "PerturbTranslate", Args: args.Args{"tunable_param": "0.3"}}},
			{Weight: 1, Select: Component{Class: "TrialSelectParticle"}, Perturb: Component{Class: "PerturbRotateCOM"}},
			{Weight: 1, Select: Component{Class: "TrialSelectBond", Args: args.Args{"particle_type": "0", "mobile_site": "2", "anchor_site": "1"}},
				Perturb: Component{Class: "PerturbDistance", Args: args.Args{"potential_acceptance": "0"}}},
		},
		Modifiers: checks,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg, err := p.Clone()
	if err != nil {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
