package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/maheshbodkhe-creator/reaction-game/internal/audio"
	"github.com/maheshbodkhe-creator/reaction-game/internal/config"
	"github.com/maheshbodkhe-creator/reaction-game/internal/game"
	"github.com/maheshbodkhe-creator/reaction-game/internal/logging"
	"github.com/maheshbodkhe-creator/reaction-game/internal/timing"
	"github.com/maheshbodkhe-creator/reaction-game/internal/visual"
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(px, py int) bool {
	return px >= r.x && px <= r.x+r.w && py >= r.y && py <= r.y+r.h
}

// Control regions. The pad is the primary interaction region; the named
// buttons carry the dismiss/clear/reset actions. Clear and reset share a spot
// since they are never visible in the same phase.
var (
	padRect     = rect{config.PadX, config.PadY, config.PadWidth, config.PadHeight}
	dismissRect = rect{config.PadX + config.PadWidth/2 - 80, config.PadY + config.PadHeight - 70, 160, 40}
	clearRect   = rect{20, config.WindowHeight - 56, 150, 36}
	resetRect   = rect{20, config.WindowHeight - 56, 150, 36}
)

type app struct {
	cfg *config.Config
	log *zap.Logger

	clock  *timing.SystemClock
	sched  *timing.DelayScheduler
	ctrl   *game.Controller
	cues   *audio.Cues
	interp *visual.Interpolator
	field  *visual.Field

	lastFrameMs  float64
	hasLastFrame bool
}

func newApp(cfg *config.Config, log *zap.Logger) *app {
	clock := timing.NewSystemClock()
	sched := timing.NewDelayScheduler(clock, cfg.Game.MinDelayMs, cfg.Game.MaxDelayMs, log)
	ctrl := game.NewController(clock, sched, cfg.Game.TotalRounds, log)
	cues := audio.NewCues(cfg.Audio, log)

	interp := visual.NewInterpolator(cfg.Visual.SmoothingTauMs, visual.TargetFor(ctrl.Phase()))
	field := visual.NewField(
		config.ParticleCount,
		float64(config.WindowWidth)/2, float64(config.WindowHeight)/2,
		float64(config.WindowHeight)*0.48,
		time.Now().UnixNano(),
	)

	ctrl.OnPhaseChange(func(old, next game.Phase) {
		interp.SetTarget(visual.TargetFor(next))
		cues.PhaseChanged(old, next)
	})

	return &app{
		cfg:    cfg,
		log:    log,
		clock:  clock,
		sched:  sched,
		ctrl:   ctrl,
		cues:   cues,
		interp: interp,
		field:  field,
	}
}

func (a *app) Update() error {
	// Elapsed stimulus delays first, so a timer and a click arriving in the
	// same frame resolve in scheduling order.
	for {
		select {
		case token := <-a.sched.Fired():
			a.ctrl.TimerFired(token)
			continue
		default:
		}
		break
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	a.handleInput()

	// Frame tick: the interpolator and field advance every frame no matter
	// what the phase did.
	now := a.clock.NowMs()
	if !a.hasLastFrame {
		a.lastFrameMs = now
		a.hasLastFrame = true
	}
	dt := now - a.lastFrameMs
	a.lastFrameMs = now

	a.interp.Tick(dt)
	a.field.Advance(dt, a.interp.State().Speed)
	return nil
}

func (a *app) handleInput() {
	phaseCfg := game.ConfigFor(a.ctrl.Phase())

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		switch {
		case phaseCfg.ShowDismiss && dismissRect.contains(mx, my):
			a.ctrl.DismissIntro()
		case phaseCfg.ShowClear && clearRect.contains(mx, my):
			a.ctrl.Clear()
		case phaseCfg.ShowReset && resetRect.contains(mx, my):
			a.ctrl.Reset()
		case padRect.contains(mx, my):
			a.ctrl.PrimaryAction()
		}
	}

	// Space is the global key equivalent of the pad press; both go through
	// the same controller method. There is no page to scroll in an ebiten
	// window, so nothing else consumes the key.
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.ctrl.PrimaryAction()
	}
}

func (a *app) Draw(screen *ebiten.Image) {
	state := a.interp.State()
	snap := a.ctrl.Snapshot()

	a.drawBackground(screen, state)
	a.drawParticles(screen, state)
	a.drawPad(screen, state, snap)
	a.drawHUD(screen, snap)
}

// drawBackground fills the window with a dark vertical gradient tinted by the
// interpolated hue.
func (a *app) drawBackground(screen *ebiten.Image, state visual.Target) {
	const strip = 8
	for y := 0; y < config.WindowHeight; y += strip {
		ratio := float64(y) / float64(config.WindowHeight)
		r, g, b := visual.HSVToRGB(state.Hue, 0.55, 0.06+0.07*ratio)
		vector.DrawFilledRect(screen, 0, float32(y), config.WindowWidth, strip,
			color.RGBA{R: r, G: g, B: b, A: 255}, false)
	}
}

func (a *app) drawParticles(screen *ebiten.Image, state visual.Target) {
	for i := 0; i < a.field.Len(); i++ {
		d := a.field.Dot(i, state)
		r, g, b := visual.HSVToRGB(d.Hue, 0.75, 0.95)
		alpha := uint8(255 * visual.Clamp01(d.Alpha))
		vector.DrawFilledCircle(screen, float32(d.X), float32(d.Y), float32(d.Size),
			color.RGBA{R: r, G: g, B: b, A: alpha}, false)
	}
}

func (a *app) drawPad(screen *ebiten.Image, state visual.Target, snap game.Snapshot) {
	phaseCfg := game.ConfigFor(snap.Phase)

	r, g, b := visual.HSVToRGB(state.Hue, 0.65, 0.35)
	vector.DrawFilledRect(screen, float32(padRect.x), float32(padRect.y),
		float32(padRect.w), float32(padRect.h), color.RGBA{R: r, G: g, B: b, A: 170}, false)

	br, bg, bb := visual.HSVToRGB(state.Hue, 0.5, 0.85)
	vector.StrokeRect(screen, float32(padRect.x), float32(padRect.y),
		float32(padRect.w), float32(padRect.h), 2, color.RGBA{R: br, G: bg, B: bb, A: 255}, false)

	drawCenteredText(screen, phaseCfg.Prompt, padRect.x+padRect.w/2, padRect.y+padRect.h/2)

	if snap.Phase == game.PhaseIntro {
		a.drawIntroPanel(screen)
	}
}

func (a *app) drawIntroPanel(screen *ebiten.Image) {
	lines := []string{
		"Wait for the field to turn green, then click",
		"(or press Space) as fast as you can.",
		"Clicking before green counts as a false start.",
	}
	y := padRect.y + 40
	for _, line := range lines {
		drawCenteredText(screen, line, padRect.x+padRect.w/2, y)
		y += 18
	}
	drawButton(screen, dismissRect, "Got it", true)
}

func (a *app) drawHUD(screen *ebiten.Image, snap game.Snapshot) {
	phaseCfg := game.ConfigFor(snap.Phase)

	if snap.Phase != game.PhaseIntro && snap.Phase != game.PhaseIdle {
		round := snap.RoundIndex
		if snap.Phase == game.PhaseWaiting || snap.Phase == game.PhaseGo {
			round++
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Round %d/%d", round, snap.TotalRounds), 20, 16)
	}

	if last, ok := lastRecord(snap); ok && (snap.Phase == game.PhaseResult || snap.Phase == game.PhaseEarly) {
		var text string
		if last.WasEarly {
			text = "False start!"
		} else {
			text = fmt.Sprintf("%d ms - %s", last.ReactionMs, last.Rating)
		}
		drawCenteredText(screen, text, padRect.x+padRect.w/2, padRect.y-24)
	}

	if snap.Phase == game.PhaseDone {
		a.drawSummary(screen, snap.Summary)
	}

	if phaseCfg.ShowClear {
		drawButton(screen, clearRect, "Clear history", len(snap.Records) > 0)
	}
	if phaseCfg.ShowReset {
		drawButton(screen, resetRect, "Reset", true)
	}
}

func (a *app) drawSummary(screen *ebiten.Image, s game.Summary) {
	cx := padRect.x + padRect.w/2
	if !s.Defined {
		drawCenteredText(screen, "No valid rounds - every round was a false start", cx, padRect.y-42)
		return
	}
	drawCenteredText(screen,
		fmt.Sprintf("Average %d ms (%s)", s.AverageMs, s.Overall), cx, padRect.y-56)
	drawCenteredText(screen,
		fmt.Sprintf("Best %d ms / Worst %d ms / False starts %d", s.BestMs, s.WorstMs, s.Earlies),
		cx, padRect.y-38)
}

func drawButton(screen *ebiten.Image, r rect, label string, enabled bool) {
	mx, my := ebiten.CursorPosition()
	var bg color.RGBA
	switch {
	case !enabled:
		bg = color.RGBA{R: 60, G: 64, B: 72, A: 255}
	case r.contains(mx, my):
		bg = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	default:
		bg = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}
	vector.DrawFilledRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), bg, false)
	vector.StrokeRect(screen, float32(r.x), float32(r.y), float32(r.w), float32(r.h), 2,
		color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)
	drawCenteredText(screen, label, r.x+r.w/2, r.y+r.h/2-4)
}

// drawCenteredText approximates centering from the debug font's fixed 8px
// character width.
func drawCenteredText(screen *ebiten.Image, text string, cx, cy int) {
	ebitenutil.DebugPrintAt(screen, text, cx-len(text)*8/2, cy-4)
}

func lastRecord(snap game.Snapshot) (game.RoundRecord, bool) {
	if len(snap.Records) == 0 {
		return game.RoundRecord{}, false
	}
	return snap.Records[len(snap.Records)-1], true
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

func fatal(msg string, err error) {
	full := fmt.Sprintf("%s: %v", msg, err)
	fmt.Fprintln(os.Stderr, full)
	_ = zenity.Error(full, zenity.Title("Reaction Game"))
	os.Exit(1)
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fatal("failed to load configuration", err)
	}

	log, err := logging.Init(cfg.Logging)
	if err != nil {
		fatal("failed to initialize logging", err)
	}
	defer log.Sync()
	cfg.Watch(log)

	log.Info("starting reaction game",
		zap.Int("rounds", cfg.Game.TotalRounds),
		zap.Int("min_delay_ms", cfg.Game.MinDelayMs),
		zap.Int("max_delay_ms", cfg.Game.MaxDelayMs))

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Reaction Game - click when it turns green")

	if err := ebiten.RunGame(newApp(cfg, log)); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Error("game loop failed", zap.Error(err))
		fatal("game loop failed", err)
	}
}
