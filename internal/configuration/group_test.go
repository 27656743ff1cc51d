package configuration

import (
	"bytes"
	"errors"
	"testing"

	"github.com/san-kum/mcsim/internal/args"
	"github.com/san-kum/mcsim/internal/geom"
	"github.com/san-kum/mcsim/internal/mcsim"
	"github.com/san-kum/mcsim/internal/serial"
)

func sampleParticle() *Particle {
	return &Particle{Type: 1, Sites: []Site{
		{Type: 0, Position: geom.Position{0, 0, 0}},
		{Type: 1, Position: geom.Position{1, 0, 0}},
		{Type: 2, Position: geom.Position{2, 0, 0}},
		{Type: 1, Position: geom.Position{3, 0, 0}},
		{Type: 0, Position: geom.Position{4, 0, 0}},
	}}
}

func TestGroupArgs(t *testing.T) {
	tests := []struct {
		name          string
		args          args.Args
		siteTypes     int
		particleTypes int
		dynamic       bool
	}{
		{"empty", args.Args{}, 0, 0, true},
		{"singular", args.Args{"site_type": "1"}, 1, 0, true},
		{"indexed", args.Args{"site_type0": "1", "site_type1": "2", "particle_type0": "0"}, 2, 1, true},
		{"static", args.Args{"particle_type": "3", "dynamic": "false"}, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := MakeGroup(tt.args)
			if err != nil {
				t.Fatalf("MakeGroup: %v", err)
			}
			if len(g.SiteTypes()) != tt.siteTypes || len(g.ParticleTypes()) != tt.particleTypes {
				t.Errorf("got %v / %v", g.SiteTypes(), g.ParticleTypes())
			}
			if g.IsDynamic() != tt.dynamic {
				t.Errorf("dynamic = %v", g.IsDynamic())
			}
		})
	}
}

func TestGroupSpatialRejected(t *testing.T) {
	_, err := MakeGroup(args.Args{"spatial": "true"})
	var cfgErr *mcsim.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Key != "spatial" {
		t.Fatalf("expected spatial config error, got %v", err)
	}
}

func TestGroupWildcard(t *testing.T) {
	g := AllGroup()
	if !g.IsEmpty() {
		t.Error("AllGroup should be empty")
	}
	for _, typ := range []int{-1, 0, 7, 1 << 30, -1 << 30} {
		if !g.IsSiteIn(Site{Type: typ}) {
			t.Errorf("site type %d rejected by wildcard", typ)
		}
		if !g.IsParticleIn(&Particle{Type: typ}) {
			t.Errorf("particle type %d rejected by wildcard", typ)
		}
	}
}

func TestGroupMembership(t *testing.T) {
	g, err := MakeGroup(args.Args{"site_type0": "1", "site_type1": "2", "particle_type": "1"})
	if err != nil {
		t.Fatal(err)
	}
	if g.IsEmpty() {
		t.Error("group with types reported empty")
	}
	if g.IsSiteIn(Site{Type: 0}) || !g.IsSiteIn(Site{Type: 2}) {
		t.Error("site membership wrong")
	}
	if g.IsParticleIn(&Particle{Type: 0}) || !g.IsParticleIn(&Particle{Type: 1}) {
		t.Error("particle membership wrong")
	}
}

func TestGroupRemoveSites(t *testing.T) {
	g, _ := MakeGroup(args.Args{"site_type": "1"})
	p := sampleParticle()
	before := p.NumSites()
	indices := g.SiteIndices(p)
	if len(indices) != 2 || indices[0] != 1 || indices[1] != 3 {
		t.Fatalf("SiteIndices = %v, want [1 3]", indices)
	}

	g.RemoveSites(p)
	if removed := before - p.NumSites(); removed != before-len(indices) {
		t.Errorf("removed %d sites, want %d", removed, before-len(indices))
	}
	for i, s := range p.Sites {
		if !g.IsSiteIn(s) {
			t.Errorf("site %d of type %d survived", i, s.Type)
		}
	}
	if p.Sites[0].Position[0] != 1 || p.Sites[1].Position[0] != 3 {
		t.Errorf("wrong sites kept: %v", p.Sites)
	}
}

func TestGroupSerializeRoundTrip(t *testing.T) {
	g, _ := MakeGroup(args.Args{"site_type0": "4", "site_type1": "-1", "dynamic": "false"})

	var buf bytes.Buffer
	w := serial.NewWriter(&buf)
	g.Serialize(w)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	r := serial.NewReader(&buf)
	got := ReadGroup(r)
	if err := r.Err(); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.IsDynamic() || len(got.SiteTypes()) != 2 || got.SiteTypes()[1] != -1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
