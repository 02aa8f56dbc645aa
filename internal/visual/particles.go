package visual

import (
	"math"
	"math/rand"
)

// particle carries the per-particle constants drawn once at field creation
// plus its orbital phase. Position, size, and color are derived per frame
// from the interpolated visual state; nothing here is reallocated after New.
type particle struct {
	angle       float64
	speedJitter float64
	radiusSeed  float64
	sizeJitter  float64
	hueOffset   float64
	wobbleSeed  float64
}

// Dot is one renderable particle for the current frame.
type Dot struct {
	X, Y  float64
	Size  float64
	Hue   float64
	Alpha float64
}

// Field is the particle backdrop model. It owns a fixed set of particles and
// advances their orbital phases from the interpolated Speed parameter; the
// renderer reads dots out each frame and draws them however it likes.
type Field struct {
	particles []particle
	centerX   float64
	centerY   float64
	maxRadius float64
	breath    float64
}

// NewField seeds n particles around (centerX, centerY). All allocation
// happens here; per-frame work mutates in place.
func NewField(n int, centerX, centerY, maxRadius float64, seed int64) *Field {
	rng := rand.New(rand.NewSource(seed))
	f := &Field{
		particles: make([]particle, n),
		centerX:   centerX,
		centerY:   centerY,
		maxRadius: maxRadius,
	}
	for i := range f.particles {
		f.particles[i] = particle{
			angle:       rng.Float64() * 2 * math.Pi,
			speedJitter: 0.6 + rng.Float64()*0.8,
			radiusSeed:  rng.Float64(),
			sizeJitter:  0.5 + rng.Float64(),
			hueOffset:   (rng.Float64() - 0.5) * 40,
			wobbleSeed:  rng.Float64() * 2 * math.Pi,
		}
	}
	return f
}

// Advance rotates every particle by its share of the interpolated speed for a
// frame of dtMs milliseconds.
func (f *Field) Advance(dtMs float64, speed float64) {
	dt := dtMs / 1000
	f.breath += dt
	for i := range f.particles {
		f.particles[i].angle += dt * speed * f.particles[i].speedJitter
	}
}

// Len returns the particle count.
func (f *Field) Len() int {
	return len(f.particles)
}

// Dot derives the renderable state of particle i from the interpolated visual
// state.
func (f *Field) Dot(i int, state Target) Dot {
	p := &f.particles[i]

	wobble := math.Sin(f.breath*1.3+p.wobbleSeed) * 0.06
	radius := (0.18 + (p.radiusSeed*0.82+wobble)*state.Spread) * f.maxRadius

	return Dot{
		X:     f.centerX + math.Cos(p.angle)*radius,
		Y:     f.centerY + math.Sin(p.angle)*radius,
		Size:  state.Size * p.sizeJitter,
		Hue:   state.Hue + p.hueOffset,
		Alpha: 0.35 + 0.65*p.radiusSeed,
	}
}
