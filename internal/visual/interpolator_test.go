package visual

import (
	"math"
	"testing"

	"github.com/maheshbodkhe-creator/reaction-game/internal/game"
)

const frameMs = 1000.0 / 60.0

func TestInterpolator_ConvergesWithoutOvershoot(t *testing.T) {
	in := NewInterpolator(180, Target{Hue: 0, Size: 0, Speed: 0, Spread: 0})
	in.SetTarget(Target{Hue: 90, Size: 10, Speed: 2, Spread: 1})

	prev := in.State()
	for i := 0; i < 600; i++ {
		in.Tick(frameMs)
		cur := in.State()
		if cur.Size < prev.Size || cur.Size > 10 {
			t.Fatalf("tick %d: size %v not monotone toward 10 (prev %v)", i, cur.Size, prev.Size)
		}
		if cur.Spread < prev.Spread || cur.Spread > 1 {
			t.Fatalf("tick %d: spread %v not monotone toward 1 (prev %v)", i, cur.Spread, prev.Spread)
		}
		prev = cur
	}

	final := in.State()
	if math.Abs(final.Size-10) > 0.01 || math.Abs(final.Speed-2) > 0.01 {
		t.Errorf("after 10s: state = %+v, want near target", final)
	}
}

func TestInterpolator_AbruptTargetChangeIsContinuous(t *testing.T) {
	in := NewInterpolator(180, TargetFor(game.PhaseGo))
	in.SetTarget(TargetFor(game.PhaseGo))
	for i := 0; i < 30; i++ {
		in.Tick(frameMs)
	}
	before := in.State()

	// Go -> Early with no intermediate phase.
	in.SetTarget(TargetFor(game.PhaseEarly))
	afterSwap := in.State()
	if afterSwap != before {
		t.Fatal("SetTarget alone must not move the current state")
	}

	in.Tick(frameMs)
	after := in.State()

	// One tick may move at most k of the full remaining distance.
	k := 1 - math.Exp(-frameMs/180)
	fullDelta := math.Abs(TargetFor(game.PhaseEarly).Size - before.Size)
	step := math.Abs(after.Size - before.Size)
	if step > fullDelta*k+1e-9 {
		t.Errorf("tick step %v exceeds smoothing bound %v", step, fullDelta*k)
	}
	if step >= fullDelta && fullDelta > 0 {
		t.Errorf("state jumped the full target delta in one tick")
	}
}

func TestInterpolator_HueTakesShortestArc(t *testing.T) {
	in := NewInterpolator(180, Target{Hue: 350})
	in.SetTarget(Target{Hue: 10})

	for i := 0; i < 600; i++ {
		in.Tick(frameMs)
		h := in.State().Hue
		// The short way from 350 to 10 passes through 0, never through 180.
		if h > 90 && h < 270 {
			t.Fatalf("hue %v wandered the long way around the wheel", h)
		}
	}
	if h := in.State().Hue; math.Abs(shortestArc(h, 10)) > 0.5 {
		t.Errorf("hue = %v, want near 10", h)
	}
}

func TestInterpolator_ZeroAndNegativeDtAreNoOps(t *testing.T) {
	in := NewInterpolator(180, Target{Size: 5})
	in.SetTarget(Target{Size: 10})
	before := in.State()
	in.Tick(0)
	in.Tick(-16)
	if in.State() != before {
		t.Error("non-positive dt must not advance the state")
	}
}

func TestInterpolator_TickDoesNotAllocate(t *testing.T) {
	in := NewInterpolator(180, Target{})
	in.SetTarget(Target{Hue: 120, Size: 8, Speed: 1, Spread: 0.9})

	allocs := testing.AllocsPerRun(1000, func() {
		in.Tick(frameMs)
		_ = in.State()
	})
	if allocs != 0 {
		t.Errorf("Tick+State allocated %v times per run, want 0", allocs)
	}
}

func TestField_AdvanceDoesNotAllocate(t *testing.T) {
	f := NewField(64, 512, 288, 260, 1)
	state := TargetFor(game.PhaseGo)

	allocs := testing.AllocsPerRun(1000, func() {
		f.Advance(frameMs, state.Speed)
		for i := 0; i < f.Len(); i++ {
			_ = f.Dot(i, state)
		}
	})
	if allocs != 0 {
		t.Errorf("Advance+Dot allocated %v times per run, want 0", allocs)
	}
}

func TestTargetFor_TotalOverPhases(t *testing.T) {
	phases := []game.Phase{
		game.PhaseIntro, game.PhaseIdle, game.PhaseWaiting, game.PhaseGo,
		game.PhaseEarly, game.PhaseResult, game.PhaseDone,
	}
	for _, p := range phases {
		tgt := TargetFor(p)
		if tgt.Size <= 0 || tgt.Spread <= 0 {
			t.Errorf("phase %v has degenerate target %+v", p, tgt)
		}
	}
}
