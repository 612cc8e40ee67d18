package core

// Agent selects actions in an environment and learns from the transitions it observes.
//
// Calls within one episode follow BeginEpisode, then any number of Act/Learn
// pairs, then EndEpisode.
type Agent interface {
	// Seed re-initializes the agent's private random source
	Seed(seed int64)
	// BeginEpisode records the initial observation of a new episode
	BeginEpisode(observation Observation) error
	// Act returns the action to take in the current state
	Act() (Action, error)
	// Learn consumes the outcome of the last action
	Learn(reward float64, next Observation, terminal bool) error
	// EndEpisode closes the episode and clears all per-episode tracking
	EndEpisode(reward float64) error
	// SetEvalMode toggles evaluation mode, which disables exploration
	SetEvalMode(eval bool)
	EvalMode() bool
}

// Environment is a sequential decision task with discrete observations and actions
type Environment interface {
	// Seed resets the environment's internal random source
	Seed(seed int64)
	// Reset starts a fresh episode and returns its initial observation
	Reset() (Observation, error)
	// Step advances the environment by one timestep
	Step(action Action) (next Observation, reward float64, terminal bool, err error)
}

// Spaces is implemented by environments that know the size of their
// observation and action spaces.
type Spaces interface {
	ObservationSpaceN() int
	ActionSpaceN() int
}
