package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
	"go.uber.org/zap"

	"github.com/maheshbodkhe-creator/reaction-game/internal/config"
	"github.com/maheshbodkhe-creator/reaction-game/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// note is one synthesized tone in a cue.
type note struct {
	freq int
	dur  time.Duration
}

// Cues plays short synthesized tones on phase changes. Audio problems are
// logged and disable cues; they never reach game logic.
type Cues struct {
	enabled bool
	volume  float64
	log     *zap.Logger
}

// NewCues initializes the speaker once. A failed init returns a disabled
// (non-nil, safe to use) Cues.
func NewCues(cfg config.AudioConfig, log *zap.Logger) *Cues {
	c := &Cues{volume: cfg.Volume, log: log}
	if !cfg.Enabled || cfg.Volume == 0 {
		return c
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		log.Warn("speaker init failed, audio cues disabled", zap.Error(err))
		return c
	}
	c.enabled = true
	return c
}

// PhaseChanged is wired as the controller's phase observer: a high blip when
// the stimulus shows, a low buzz on a false start, a two-note chime when the
// session finishes.
func (c *Cues) PhaseChanged(_, next game.Phase) {
	switch next {
	case game.PhaseGo:
		c.play(note{880, 90 * time.Millisecond})
	case game.PhaseEarly:
		c.play(note{180, 220 * time.Millisecond})
	case game.PhaseDone:
		c.play(note{523, 140 * time.Millisecond}, note{659, 220 * time.Millisecond})
	}
}

func (c *Cues) play(notes ...note) {
	if !c.enabled {
		return
	}

	tones := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SinTone(sampleRate, n.freq)
		if err != nil {
			c.log.Warn("tone generation failed", zap.Int("freq", n.freq), zap.Error(err))
			return
		}
		tones = append(tones, beep.Take(sampleRate.N(n.dur), tone))
	}

	speaker.Play(&effects.Volume{
		Streamer: beep.Seq(tones...),
		Base:     2,
		Volume:   math.Log2(c.volume),
	})
}
