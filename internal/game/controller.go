package game

import (
	"math"

	"go.uber.org/zap"

	"github.com/maheshbodkhe-creator/reaction-game/internal/timing"
)

// Scheduler arms one cancellable randomized delay at a time.
// *timing.DelayScheduler satisfies it; tests substitute a fake.
type Scheduler interface {
	Schedule() (timing.Token, float64)
	Cancel(timing.Token)
}

// Controller owns the session state machine. All methods must be called from
// the single logic goroutine: each event is handled to completion (phase
// change, history append, phase-change notification) before the next one, so
// no partial state is ever observable.
type Controller struct {
	clock timing.Clock
	sched Scheduler
	log   *zap.Logger

	totalRounds int

	phase      Phase
	introSeen  bool
	roundIndex int
	history    *History

	pendingToken   timing.Token
	hasPending     bool
	pendingDelayMs float64

	// stimulusMs is the pending/actual stimulus timestamp. Set iff phase is
	// Waiting (projected) or Go (actual, captured at the instant of entry).
	stimulusMs    float64
	hasStimulus   bool

	onPhaseChange func(old, new Phase)
}

// NewController starts a session in the Intro phase.
func NewController(clock timing.Clock, sched Scheduler, totalRounds int, log *zap.Logger) *Controller {
	return &Controller{
		clock:       clock,
		sched:       sched,
		log:         log,
		totalRounds: totalRounds,
		phase:       PhaseIntro,
		history:     NewHistory(totalRounds),
	}
}

// OnPhaseChange registers a single observer notified after every transition,
// still within the same atomic unit of event handling.
func (c *Controller) OnPhaseChange(fn func(old, new Phase)) {
	c.onPhaseChange = fn
}

// Snapshot is a read-only copy of session state handed to the renderer.
type Snapshot struct {
	Phase       Phase
	IntroSeen   bool
	RoundIndex  int
	TotalRounds int
	Records     []RoundRecord
	Summary     Summary

	// StimulusMs is set iff Phase is Waiting (projected instant) or Go
	// (actual instant).
	StimulusMs  float64
	HasStimulus bool
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:       c.phase,
		IntroSeen:   c.introSeen,
		RoundIndex:  c.roundIndex,
		TotalRounds: c.totalRounds,
		Records:     c.history.Records(),
		Summary:     c.history.Summarize(),
		StimulusMs:  c.stimulusMs,
		HasStimulus: c.hasStimulus,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// DismissIntro acknowledges the instructions. Intro is never reachable again
// for the lifetime of the process, regardless of later resets.
func (c *Controller) DismissIntro() {
	if c.phase != PhaseIntro {
		c.ignore("dismiss-intro")
		return
	}
	c.introSeen = true
	c.setPhase(PhaseIdle)
}

// PrimaryAction is the single player action: pointer-down on the interaction
// pad or the designated key. Both input modalities call this same method, so
// they cannot diverge.
func (c *Controller) PrimaryAction() {
	switch c.phase {
	case PhaseIdle:
		c.start()
	case PhaseWaiting:
		c.earlyClick()
	case PhaseGo:
		c.react()
	case PhaseEarly, PhaseResult:
		c.advance()
	case PhaseDone:
		c.restart()
	default:
		c.ignore("primary-action")
	}
}

// TimerFired handles an elapsed stimulus delay. Only the token scheduled for
// the current waiting period may trigger Waiting -> Go; anything else is a
// stale timer and is ignored.
func (c *Controller) TimerFired(token timing.Token) {
	if c.phase != PhaseWaiting || !c.hasPending || token != c.pendingToken {
		c.log.Debug("stale timer ignored",
			zap.Stringer("phase", c.phase),
			zap.Stringer("token", token))
		return
	}
	c.hasPending = false

	// Capture the stimulus instant before anything else; the stimulus is
	// never observable without stimulusMs already recorded.
	c.stimulusMs = c.clock.NowMs()
	c.hasStimulus = true
	c.setPhase(PhaseGo)
}

// Clear drops the history without leaving Idle.
func (c *Controller) Clear() {
	if c.phase != PhaseIdle {
		c.ignore("clear")
		return
	}
	c.history.Clear()
	c.roundIndex = 0
	c.log.Info("history cleared")
}

// Reset returns a finished session to Idle with an empty history. It never
// returns to Intro.
func (c *Controller) Reset() {
	if c.phase != PhaseDone {
		c.ignore("reset")
		return
	}
	c.history.Clear()
	c.roundIndex = 0
	c.setPhase(PhaseIdle)
}

func (c *Controller) start() {
	c.history.Clear()
	c.roundIndex = 0
	c.scheduleRound()
}

func (c *Controller) restart() {
	c.history.Clear()
	c.roundIndex = 0
	c.scheduleRound()
}

// scheduleRound arms the stimulus delay and enters Waiting. The projected
// stimulus instant is recorded so the pending timestamp is set for the whole
// Waiting/Go span; entry into Go overwrites it with the actual instant.
func (c *Controller) scheduleRound() {
	token, delayMs := c.sched.Schedule()
	c.pendingToken = token
	c.hasPending = true
	c.pendingDelayMs = delayMs
	c.stimulusMs = c.clock.NowMs() + delayMs
	c.hasStimulus = true
	c.setPhase(PhaseWaiting)
}

func (c *Controller) earlyClick() {
	// Cancel before anything else so the leftover timer cannot fire into a
	// later round.
	c.sched.Cancel(c.pendingToken)
	c.hasPending = false

	c.conclude(RoundRecord{
		RoundIndex: c.roundIndex,
		DelayMs:    c.pendingDelayMs,
		StimulusAt: c.stimulusMs,
		WasEarly:   true,
	})
	c.setPhase(PhaseEarly)
}

func (c *Controller) react() {
	reactionMs := roundHalfUp(c.clock.NowMs() - c.stimulusMs)
	c.conclude(RoundRecord{
		RoundIndex: c.roundIndex,
		DelayMs:    c.pendingDelayMs,
		StimulusAt: c.stimulusMs,
		ReactionMs: reactionMs,
		Rating:     Classify(reactionMs),
	})
	c.setPhase(PhaseResult)
}

// conclude appends the record and advances the round counter, keeping
// len(history) == roundIndex outside of Waiting/Go.
func (c *Controller) conclude(r RoundRecord) {
	c.history.Append(r)
	c.roundIndex = c.history.Len()
	c.hasStimulus = false

	if r.WasEarly {
		c.log.Info("round concluded early", zap.Int("round", r.RoundIndex))
	} else {
		c.log.Info("round concluded",
			zap.Int("round", r.RoundIndex),
			zap.Int("reaction_ms", r.ReactionMs),
			zap.Stringer("rating", r.Rating))
	}
}

func (c *Controller) advance() {
	if c.roundIndex < c.totalRounds {
		c.scheduleRound()
		return
	}
	c.setPhase(PhaseDone)
}

func (c *Controller) setPhase(next Phase) {
	prev := c.phase
	c.phase = next
	c.log.Debug("phase transition",
		zap.Stringer("from", prev),
		zap.Stringer("to", next))
	if c.onPhaseChange != nil {
		c.onPhaseChange(prev, next)
	}
}

// ignore absorbs an event with no transition for the current phase.
func (c *Controller) ignore(event string) {
	c.log.Debug("event ignored",
		zap.String("event", event),
		zap.Stringer("phase", c.phase))
}

// roundHalfUp rounds to the nearest integer, ties away from zero upward.
// Half-up vs half-even has no gameplay-significant effect at millisecond
// granularity; half-up is the documented choice.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
