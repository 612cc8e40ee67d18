package core

// Observation is a discrete state index in [0, numStates)
type Observation int

// Action is a discrete action index in [0, numActions)
type Action int

// Mode is the phase an experiment is running in. Its value prefixes
// the statistics recorded for the phase.
type Mode string

const (
	Train Mode = "train"
	Eval  Mode = "eval"
)

func (m Mode) String() string {
	return string(m)
}

// Key returns the statistics key for metric in this mode, e.g. "train_average_returns"
func (m Mode) Key(metric string) string {
	return string(m) + "_" + metric
}

// EpisodeResult summarizes one finished episode
type EpisodeResult struct {
	Mode   Mode
	Steps  int
	Return float64
	// Terminal is false when the episode was cut by the step cap
	Terminal bool
}

// PhaseResult summarizes one training or evaluation phase
type PhaseResult struct {
	Mode     Mode
	Steps    int
	Return   float64
	Episodes int
}

// AverageReturn is the mean undiscounted return per episode, 0 when no episode ran
func (p PhaseResult) AverageReturn() float64 {
	if p.Episodes == 0 {
		return 0
	}
	return p.Return / float64(p.Episodes)
}
