package agent

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

// RandomAgent chooses actions uniformly at random and ignores every reward
// and observation.
type RandomAgent struct {
	numActions int
	rng        *rand.Rand
	evalMode   bool
}

var _ core.Agent = (*RandomAgent)(nil)

// NewRandomAgent creates a RandomAgent. Only the WithSeed option has an effect.
func NewRandomAgent(numActions int, opts ...AgentOption) (*RandomAgent, error) {
	if numActions <= 0 {
		return nil, fmt.Errorf("number of actions must be positive, got %d: %w", numActions, labError.ErrInvalidConfig)
	}
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}

	agent := &RandomAgent{numActions: numActions}
	if params.Seed != nil {
		agent.Seed(*params.Seed)
	} else {
		agent.Seed(time.Now().UnixNano())
	}
	return agent, nil
}

func (a *RandomAgent) Seed(seed int64) {
	a.rng = rand.New(rand.NewSource(seed))
}

func (a *RandomAgent) SetEvalMode(eval bool) {
	a.evalMode = eval
}

func (a *RandomAgent) EvalMode() bool {
	return a.evalMode
}

func (a *RandomAgent) BeginEpisode(observation core.Observation) error {
	return nil
}

func (a *RandomAgent) Act() (core.Action, error) {
	return core.Action(a.rng.Intn(a.numActions)), nil
}

func (a *RandomAgent) Learn(reward float64, next core.Observation, terminal bool) error {
	return nil
}

func (a *RandomAgent) EndEpisode(reward float64) error {
	return nil
}
