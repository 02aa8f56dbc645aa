package visual

import "math"

const (
	paramHue = iota
	paramSize
	paramSpeed
	paramSpread
	numParams
)

// Interpolator eases a fixed set of visual parameters toward their targets
// with per-parameter exponential smoothing. It advances on every frame tick
// regardless of whether the phase changed, so abrupt target swaps become
// smooth motion instead of jumps. All state lives in two fixed arrays; Tick
// allocates nothing.
type Interpolator struct {
	tauMs   float64
	current [numParams]float64
	target  [numParams]float64
}

// NewInterpolator starts with current == target == initial, so the first
// frame renders the initial state exactly.
func NewInterpolator(tauMs float64, initial Target) *Interpolator {
	in := &Interpolator{tauMs: tauMs}
	in.current = [numParams]float64{initial.Hue, initial.Size, initial.Speed, initial.Spread}
	in.target = in.current
	return in
}

// SetTarget swaps the target tuple. The current values are untouched: the
// next ticks ease toward the new target. Hue aims along the shortest arc of
// the color wheel so a swap never spins the long way around.
func (in *Interpolator) SetTarget(t Target) {
	in.target[paramHue] = in.current[paramHue] + shortestArc(in.current[paramHue], t.Hue)
	in.target[paramSize] = t.Size
	in.target[paramSpeed] = t.Speed
	in.target[paramSpread] = t.Spread
}

// Tick advances every parameter by one smoothing step for a frame of dtMs
// milliseconds: current += (target - current) * k with k = 1 - exp(-dt/tau).
// k stays in (0,1) for any positive dt, so the motion converges without
// overshoot and the per-tick change is bounded by the remaining distance.
func (in *Interpolator) Tick(dtMs float64) {
	if dtMs <= 0 {
		return
	}
	k := 1 - math.Exp(-dtMs/in.tauMs)
	for i := 0; i < numParams; i++ {
		in.current[i] += (in.target[i] - in.current[i]) * k
	}
}

// State returns the interpolated tuple for this frame, hue normalized to
// [0,360).
func (in *Interpolator) State() Target {
	return Target{
		Hue:    mod360(in.current[paramHue]),
		Size:   in.current[paramSize],
		Speed:  in.current[paramSpeed],
		Spread: in.current[paramSpread],
	}
}

// shortestArc returns the signed shortest angular distance from a to b in
// degrees, in (-180, 180].
func shortestArc(a, b float64) float64 {
	d := mod360(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

func mod360(v float64) float64 {
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v
}
