package game

// Phase is the discrete game phase. Exactly one is active at any instant.
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseIdle
	PhaseWaiting
	PhaseGo
	PhaseEarly
	PhaseResult
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseIdle:
		return "idle"
	case PhaseWaiting:
		return "waiting"
	case PhaseGo:
		return "go"
	case PhaseEarly:
		return "early"
	case PhaseResult:
		return "result"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// PhaseConfig enumerates, per phase, which controls are visible, whether the
// primary action does anything, and the prompt shown on the interaction pad.
// The table is total: every phase has an entry, and the renderer looks it up
// instead of switching on phase attributes ad hoc.
type PhaseConfig struct {
	PrimaryEnabled bool
	ShowDismiss    bool
	ShowClear      bool
	ShowReset      bool
	Prompt         string
}

var phaseConfigs = [...]PhaseConfig{
	PhaseIntro:   {ShowDismiss: true, Prompt: "Test your reaction time over 5 rounds"},
	PhaseIdle:    {PrimaryEnabled: true, ShowClear: true, Prompt: "Click here (or press Space) to start"},
	PhaseWaiting: {PrimaryEnabled: true, Prompt: "Wait for it..."},
	PhaseGo:      {PrimaryEnabled: true, Prompt: "CLICK NOW!"},
	PhaseEarly:   {PrimaryEnabled: true, Prompt: "Too soon! Click to continue"},
	PhaseResult:  {PrimaryEnabled: true, Prompt: "Click for the next round"},
	PhaseDone:    {PrimaryEnabled: true, ShowReset: true, Prompt: "Click to play again"},
}

// ConfigFor returns the UI configuration for p.
func ConfigFor(p Phase) PhaseConfig {
	if p < 0 || int(p) >= len(phaseConfigs) {
		return PhaseConfig{}
	}
	return phaseConfigs[p]
}
