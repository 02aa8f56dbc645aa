package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maheshbodkhe-creator/reaction-game/internal/timing"
)

// fakeScheduler records scheduled tokens and lets tests decide when (and
// whether) the delay "fires" by calling Controller.TimerFired themselves.
type fakeScheduler struct {
	scheduled []timing.Token
	cancelled []timing.Token
	delayMs   float64
}

func (f *fakeScheduler) Schedule() (timing.Token, float64) {
	tok := timing.Token(uuid.New())
	f.scheduled = append(f.scheduled, tok)
	return tok, f.delayMs
}

func (f *fakeScheduler) Cancel(tok timing.Token) {
	f.cancelled = append(f.cancelled, tok)
}

func (f *fakeScheduler) last() timing.Token {
	return f.scheduled[len(f.scheduled)-1]
}

type testRig struct {
	clock *timing.ManualClock
	sched *fakeScheduler
	ctrl  *Controller
}

func newRig(t *testing.T) *testRig {
	t.Helper()
	clock := timing.NewManualClock()
	sched := &fakeScheduler{delayMs: 2000}
	return &testRig{
		clock: clock,
		sched: sched,
		ctrl:  NewController(clock, sched, 5, zap.NewNop()),
	}
}

// fireStimulus delivers the most recently scheduled token after advancing the
// clock past the delay.
func (r *testRig) fireStimulus() {
	r.clock.Advance(time.Duration(r.sched.delayMs) * time.Millisecond)
	r.ctrl.TimerFired(r.sched.last())
}

// playRound completes one round with the given reaction time, leaving the
// controller in Result.
func (r *testRig) playRound(reaction time.Duration) {
	r.fireStimulus()
	r.clock.Advance(reaction)
	r.ctrl.PrimaryAction()
}

func (r *testRig) checkInvariants(t *testing.T) {
	t.Helper()
	snap := r.ctrl.Snapshot()
	switch snap.Phase {
	case PhaseWaiting, PhaseGo, PhaseEarly, PhaseResult:
		if len(snap.Records) != snap.RoundIndex {
			t.Fatalf("phase %v: history len %d != round index %d",
				snap.Phase, len(snap.Records), snap.RoundIndex)
		}
	case PhaseDone:
		if len(snap.Records) != snap.TotalRounds {
			t.Fatalf("done with %d records, want %d", len(snap.Records), snap.TotalRounds)
		}
	}
	wantStimulus := snap.Phase == PhaseWaiting || snap.Phase == PhaseGo
	if snap.HasStimulus != wantStimulus {
		t.Fatalf("phase %v: HasStimulus = %v, want %v", snap.Phase, snap.HasStimulus, wantStimulus)
	}
	// A full history is only ever observed in Done or in the transient
	// conclusion of the final round, before advance.
	if len(snap.Records) == snap.TotalRounds {
		switch snap.Phase {
		case PhaseDone, PhaseResult, PhaseEarly:
		default:
			t.Fatalf("history full in phase %v", snap.Phase)
		}
	} else if snap.Phase == PhaseDone {
		t.Fatalf("done with %d records, want %d", len(snap.Records), snap.TotalRounds)
	}
}

func TestController_StartsInIntro(t *testing.T) {
	r := newRig(t)
	if r.ctrl.Phase() != PhaseIntro {
		t.Errorf("initial phase = %v, want %v", r.ctrl.Phase(), PhaseIntro)
	}
}

func TestController_DismissIntroIsPermanent(t *testing.T) {
	r := newRig(t)
	r.ctrl.DismissIntro()
	if r.ctrl.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want %v", r.ctrl.Phase(), PhaseIdle)
	}

	// Play a full session, reset, clear, restart; Intro must never return.
	r.ctrl.PrimaryAction() // start
	for i := 0; i < 5; i++ {
		r.playRound(210 * time.Millisecond)
		r.ctrl.PrimaryAction() // advance
	}
	if r.ctrl.Phase() != PhaseDone {
		t.Fatalf("phase = %v, want %v", r.ctrl.Phase(), PhaseDone)
	}
	r.ctrl.Reset()
	if r.ctrl.Phase() != PhaseIdle {
		t.Fatalf("reset: phase = %v, want %v (never Intro)", r.ctrl.Phase(), PhaseIdle)
	}
	r.ctrl.Clear()
	r.ctrl.DismissIntro() // no-op now
	if r.ctrl.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want %v", r.ctrl.Phase(), PhaseIdle)
	}
	if !r.ctrl.Snapshot().IntroSeen {
		t.Error("introSeen must stay set")
	}
}

func TestController_FullSession(t *testing.T) {
	r := newRig(t)
	r.ctrl.DismissIntro()
	r.ctrl.PrimaryAction()
	r.checkInvariants(t)
	if r.ctrl.Phase() != PhaseWaiting {
		t.Fatalf("phase = %v, want %v", r.ctrl.Phase(), PhaseWaiting)
	}

	reactions := []time.Duration{
		150 * time.Millisecond,
		220 * time.Millisecond,
		300 * time.Millisecond,
		400 * time.Millisecond,
		180 * time.Millisecond,
	}
	for i, d := range reactions {
		r.playRound(d)
		r.checkInvariants(t)
		if r.ctrl.Phase() != PhaseResult {
			t.Fatalf("round %d: phase = %v, want %v", i, r.ctrl.Phase(), PhaseResult)
		}
		r.ctrl.PrimaryAction() // advance
		r.checkInvariants(t)
	}

	snap := r.ctrl.Snapshot()
	if snap.Phase != PhaseDone {
		t.Fatalf("phase = %v, want %v", snap.Phase, PhaseDone)
	}
	if !snap.Summary.Defined {
		t.Fatal("summary should be defined")
	}
	if snap.Summary.AverageMs != 250 || snap.Summary.BestMs != 150 || snap.Summary.WorstMs != 400 {
		t.Errorf("summary = %+v, want avg 250 best 150 worst 400", snap.Summary)
	}
	if snap.Summary.Overall != RatingAverage {
		t.Errorf("overall = %v, want %v", snap.Summary.Overall, RatingAverage)
	}
}

func TestController_ReactionTimeAndRating(t *testing.T) {
	r := newRig(t)
	r.ctrl.DismissIntro()
	r.ctrl.PrimaryAction()
	r.playRound(199 * time.Millisecond)

	records := r.ctrl.Snapshot().Records
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.WasEarly {
		t.Error("round should not be early")
	}
	if rec.ReactionMs != 199 {
		t.Errorf("ReactionMs = %d, want 199", rec.ReactionMs)
	}
	if rec.Rating != RatingAmazing {
		t.Errorf("Rating = %v, want %v", rec.Rating, RatingAmazing)
	}
}

func TestController_EarlyClickCancelsAndStaleTimerIsNoOp(t *testing.T) {
	r := newRig(t)
	r.ctrl.DismissIntro()
	r.ctrl.PrimaryAction() // start -> Waiting
	token := r.sched.last()

	// Click before the delay elapses.
	r.ctrl.PrimaryAction()
	r.checkInvariants(t)
	if r.ctrl.Phase() != PhaseEarly {
		t.Fatalf("phase = %v, want %v", r.ctrl.Phase(), PhaseEarly)
	}
	if len(r.sched.cancelled) != 1 || r.sched.cancelled[0] != token {
		t.Errorf("cancelled = %v, want [%v]", r.sched.cancelled, token)
	}

	rec := r.ctrl.Snapshot().Records[0]
	if !rec.WasEarly {
		t.Error("record must be marked early")
	}

	// The originally scheduled timer fires late anyway: must be ignored.
	r.ctrl.TimerFired(token)
	if r.ctrl.Phase() != PhaseEarly {
		t.Errorf("stale timer moved phase to %v", r.ctrl.Phase())
	}

	// Advance into the next round; the stale token must not match the new one.
	r.ctrl.PrimaryAction()
	if r.ctrl.Phase() != PhaseWaiting {
		t.Fatalf("phase = %v, want %v", r.ctrl.Phase(), PhaseWaiting)
	}
	r.ctrl.TimerFired(token)
	if r.ctrl.Phase() != PhaseWaiting {
		t.Errorf("stale timer from round 0 transitioned round 1 to %v", r.ctrl.Phase())
	}
	r.checkInvariants(t)
}

func TestController_AllEarlySessionEndsUndefined(t *testing.T) {
	r := newRig(t)
	r.ctrl.DismissIntro()
	r.ctrl.PrimaryAction()
	for i := 0; i < 5; i++ {
		r.ctrl.PrimaryAction() // early click
		r.checkInvariants(t)
		r.ctrl.PrimaryAction() // advance
		r.checkInvariants(t)
	}
	snap := r.ctrl.Snapshot()
	if snap.Phase != PhaseDone {
		t.Fatalf("phase = %v, want %v", snap.Phase, PhaseDone)
	}
	if snap.Summary.Defined {
		t.Error("all-early session must yield an undefined summary")
	}
}

func TestController_RestartFromDone(t *testing.T) {
	r := newRig(t)
	r.ctrl.DismissIntro()
	r.ctrl.PrimaryAction()
	for i := 0; i < 5; i++ {
		r.playRound(250 * time.Millisecond)
		r.ctrl.PrimaryAction()
	}

	r.ctrl.PrimaryAction() // play again
	snap := r.ctrl.Snapshot()
	if snap.Phase != PhaseWaiting {
		t.Fatalf("phase = %v, want %v", snap.Phase, PhaseWaiting)
	}
	if snap.RoundIndex != 0 || len(snap.Records) != 0 {
		t.Errorf("restart kept state: index %d, %d records", snap.RoundIndex, len(snap.Records))
	}
	r.checkInvariants(t)
}

func TestController_UndefinedEventsAreNoOps(t *testing.T) {
	r := newRig(t)

	// Nothing but dismiss does anything in Intro.
	r.ctrl.PrimaryAction()
	r.ctrl.Clear()
	r.ctrl.Reset()
	r.ctrl.TimerFired(timing.NoToken)
	if r.ctrl.Phase() != PhaseIntro {
		t.Fatalf("phase = %v, want %v", r.ctrl.Phase(), PhaseIntro)
	}

	r.ctrl.DismissIntro()
	r.ctrl.Reset() // reset outside Done is a no-op
	if r.ctrl.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want %v", r.ctrl.Phase(), PhaseIdle)
	}

	// Clear outside Idle is a no-op that keeps history.
	r.ctrl.PrimaryAction()
	r.playRound(300 * time.Millisecond)
	r.ctrl.Clear()
	if len(r.ctrl.Snapshot().Records) != 1 {
		t.Error("clear outside Idle must not touch history")
	}
	r.checkInvariants(t)
}

func TestController_PhaseChangeObserverSeesEveryTransition(t *testing.T) {
	r := newRig(t)

	var seen []Phase
	r.ctrl.OnPhaseChange(func(_, next Phase) { seen = append(seen, next) })

	r.ctrl.DismissIntro()
	r.ctrl.PrimaryAction()
	r.fireStimulus()
	r.ctrl.PrimaryAction()

	want := []Phase{PhaseIdle, PhaseWaiting, PhaseGo, PhaseResult}
	if len(seen) != len(want) {
		t.Fatalf("observed %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("observed %v, want %v", seen, want)
		}
	}
}
