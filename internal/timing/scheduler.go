package timing

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Token identifies one scheduled delay. Tokens are opaque and never reused.
type Token uuid.UUID

// NoToken is the zero Token; it never matches a scheduled delay.
var NoToken Token

func (t Token) String() string { return uuid.UUID(t).String() }

// DelayScheduler arms a single one-shot callback after a uniformly random
// delay. At most one token is live (neither fired nor cancelled) at any time;
// Schedule cancels the previous live token before arming the next.
//
// The timer callback never touches game state. It posts the token on the
// Fired channel, which the host's update loop drains on the single logic
// goroutine. A token that loses the cancel race is dropped here or, failing
// that, rejected by the consumer's own stale-token check.
type DelayScheduler struct {
	clock Clock
	rng   *rand.Rand
	log   *zap.Logger

	minMs int
	maxMs int

	fired chan Token

	mu      sync.Mutex
	live    Token
	hasLive bool
	timer   Timer
}

// NewDelayScheduler returns a scheduler drawing delays uniformly from
// [minMs, maxMs] milliseconds.
func NewDelayScheduler(clock Clock, minMs, maxMs int, log *zap.Logger) *DelayScheduler {
	return &DelayScheduler{
		clock: clock,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   log,
		minMs: minMs,
		maxMs: maxMs,
		fired: make(chan Token, 4),
	}
}

// Fired returns the channel on which elapsed tokens are delivered.
func (s *DelayScheduler) Fired() <-chan Token {
	return s.fired
}

// Schedule draws a random delay, arms a one-shot timer, and returns the new
// token plus the drawn delay in milliseconds. Any previously live token is
// cancelled first, so a leftover timer from an earlier round can never fire
// into a later one.
func (s *DelayScheduler) Schedule() (Token, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()

	delayMs := float64(s.minMs) + s.rng.Float64()*float64(s.maxMs-s.minMs)
	token := Token(uuid.New())

	s.live = token
	s.hasLive = true
	s.timer = s.clock.AfterFunc(time.Duration(delayMs*float64(time.Millisecond)), func() {
		s.deliver(token)
	})

	s.log.Debug("delay scheduled",
		zap.Stringer("token", token),
		zap.Float64("delay_ms", delayMs))
	return token, delayMs
}

// Cancel guarantees the callback for token will not be delivered, provided it
// has not already been. Cancelling an unknown, fired, or already-cancelled
// token is a no-op.
func (s *DelayScheduler) Cancel(token Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasLive || s.live != token {
		return
	}
	s.cancelLocked()
	s.log.Debug("delay cancelled", zap.Stringer("token", token))
}

func (s *DelayScheduler) cancelLocked() {
	if !s.hasLive {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.hasLive = false
	s.timer = nil
}

func (s *DelayScheduler) deliver(token Token) {
	s.mu.Lock()
	if !s.hasLive || s.live != token {
		s.mu.Unlock()
		s.log.Debug("stale timer dropped", zap.Stringer("token", token))
		return
	}
	s.hasLive = false
	s.timer = nil
	s.mu.Unlock()

	select {
	case s.fired <- token:
	default:
		// The consumer is wedged; dropping is safe because the consumer
		// validates tokens anyway.
		s.log.Warn("fired channel full, dropping token", zap.Stringer("token", token))
	}
}
