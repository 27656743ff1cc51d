package viz

import (
	"math"

	"github.com/san-kum/mcsim/internal/configuration"
	"github.com/san-kum/mcsim/internal/geom"
)

type Vec3 struct {
	X, Y, Z float64
}

// vec3 embeds a position of any dimension, dropping axes past z and
// padding missing ones with zero.
func vec3(p geom.Position) Vec3 {
	var v Vec3
	if len(p) > 0 {
		v.X = p[0]
	}
	if len(p) > 1 {
		v.Y = p[1]
	}
	if len(p) > 2 {
		v.Z = p[2]
	}
	return v
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Camera is an orthographic view rotated about the x and y axes.
type Camera struct {
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera { return &Camera{RotX: 0.35, RotY: 0.6, Zoom: 1} }

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// frame maps world coordinates onto a canvas, centered on the bounding box
// of the configuration.
type frame struct {
	cam    *Camera
	center Vec3
	scale  float64
	w, h   int
}

func newFrame(c *Canvas, cam *Camera, points []Vec3) frame {
	f := frame{cam: cam, w: c.DotWidth(), h: c.DotHeight(), scale: 1}
	if len(points) == 0 {
		return f
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = Vec3{math.Min(lo.X, p.X), math.Min(lo.Y, p.Y), math.Min(lo.Z, p.Z)}
		hi = Vec3{math.Max(hi.X, p.X), math.Max(hi.Y, p.Y), math.Max(hi.Z, p.Z)}
	}
	f.center = Vec3{(lo.X + hi.X) / 2, (lo.Y + hi.Y) / 2, (lo.Z + hi.Z) / 2}
	span := hi.Sub(lo)
	// the bounding box diagonal covers every rotation of the box
	extent := math.Sqrt(span.X*span.X + span.Y*span.Y + span.Z*span.Z)
	if extent == 0 {
		extent = 1
	}
	f.scale = 0.9 * float64(min(f.w, f.h)) / extent * cam.Zoom
	return f
}

func (f frame) project(p Vec3) (int, int) {
	r := f.cam.rotate(p.Sub(f.center))
	return int(math.Round(r.X*f.scale)) + f.w/2, int(math.Round(-r.Y*f.scale)) + f.h/2
}

// Render draws every site of the configuration as a dot and every bond of
// its particle type as a line.
func Render(c *Canvas, cfg *configuration.Configuration, cam *Camera) {
	if c == nil || cfg == nil || cam == nil {
		return
	}
	var points []Vec3
	for i := 0; i < cfg.NumParticles(); i++ {
		for _, s := range cfg.Particle(i).Sites {
			points = append(points, vec3(s.Position))
		}
	}
	f := newFrame(c, cam, points)
	for i := 0; i < cfg.NumParticles(); i++ {
		p := cfg.Particle(i)
		for _, b := range cfg.ParticleType(p.Type).Bonds {
			if b.Sites[0] >= p.NumSites() || b.Sites[1] >= p.NumSites() {
				continue
			}
			x0, y0 := f.project(vec3(p.Sites[b.Sites[0]].Position))
			x1, y1 := f.project(vec3(p.Sites[b.Sites[1]].Position))
			c.DrawLine(x0, y0, x1, y1)
		}
		for _, s := range p.Sites {
			x, y := f.project(vec3(s.Position))
			c.Set(x, y)
			c.Set(x+1, y)
			c.Set(x, y+1)
			c.Set(x+1, y+1)
		}
	}
}
