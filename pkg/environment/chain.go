package environment

import (
	"fmt"
	"math/rand"

	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

const (
	ChainLeft core.Action = iota
	ChainRight
)

type ChainParams struct {
	Length     int     `mapstructure:"length"`
	GoalReward float64 `mapstructure:"goal_reward"`
	StepReward float64 `mapstructure:"step_reward"`
	// Slip is the probability that the opposite move is taken
	Slip float64 `mapstructure:"slip"`
}

// Chain is a line of Length states. Episodes start in state 0 and end when
// the agent reaches the rightmost state.
type Chain struct {
	params  ChainParams
	state   core.Observation
	rng     *rand.Rand
	episode episode
}

func NewChain(params ChainParams) (*Chain, error) {
	if params.Length < 2 {
		return nil, fmt.Errorf("chain needs at least 2 states, got %d: %w", params.Length, labError.ErrInvalidConfig)
	}
	if params.Slip < 0 || params.Slip > 1 {
		return nil, fmt.Errorf("slip probability %v not in [0, 1]: %w", params.Slip, labError.ErrInvalidConfig)
	}
	return &Chain{params: params, rng: newRand()}, nil
}

func (c *Chain) Seed(seed int64) {
	c.rng = rand.New(rand.NewSource(seed))
}

func (c *Chain) ObservationSpaceN() int {
	return c.params.Length
}

func (c *Chain) ActionSpaceN() int {
	return 2
}

func (c *Chain) Reset() (core.Observation, error) {
	c.episode.reset()
	c.state = 0
	return c.state, nil
}

func (c *Chain) Step(action core.Action) (core.Observation, float64, bool, error) {
	if err := c.episode.begin(action, 2); err != nil {
		return 0, 0, false, err
	}
	if c.params.Slip > 0 && c.rng.Float64() < c.params.Slip {
		action = 1 - action
	}

	switch action {
	case ChainRight:
		c.state++
	case ChainLeft:
		if c.state > 0 {
			c.state--
		}
	}

	if int(c.state) == c.params.Length-1 {
		c.episode.end()
		return c.state, c.params.GoalReward, true, nil
	}
	return c.state, c.params.StepReward, false, nil
}
