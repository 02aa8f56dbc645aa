package visual

import "github.com/maheshbodkhe-creator/reaction-game/internal/game"

// Target is the visual parameter tuple the interpolator eases toward.
// Hue is in degrees on the color wheel, Size in pixels, Speed in radians per
// second of particle orbit, Spread in [0,1] as a fraction of the max orbit
// radius.
type Target struct {
	Hue    float64
	Size   float64
	Speed  float64
	Spread float64
}

// phaseTargets is the static phase-to-visual lookup. One fixed tuple per
// phase; never mutated at runtime.
var phaseTargets = [...]Target{
	game.PhaseIntro:   {Hue: 215, Size: 3.5, Speed: 0.25, Spread: 0.55},
	game.PhaseIdle:    {Hue: 200, Size: 4.0, Speed: 0.40, Spread: 0.65},
	game.PhaseWaiting: {Hue: 18, Size: 5.0, Speed: 0.15, Spread: 0.35},
	game.PhaseGo:      {Hue: 130, Size: 9.0, Speed: 1.80, Spread: 0.95},
	game.PhaseEarly:   {Hue: 355, Size: 6.0, Speed: 1.10, Spread: 0.45},
	game.PhaseResult:  {Hue: 270, Size: 5.0, Speed: 0.55, Spread: 0.70},
	game.PhaseDone:    {Hue: 48, Size: 7.0, Speed: 0.70, Spread: 0.85},
}

// TargetFor looks up the visual target for a phase.
func TargetFor(p game.Phase) Target {
	if p < 0 || int(p) >= len(phaseTargets) {
		return phaseTargets[game.PhaseIdle]
	}
	return phaseTargets[p]
}
