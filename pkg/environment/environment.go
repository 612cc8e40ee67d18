package environment

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/christopher-wolff-zz/lab-old/pkg/config"
	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

// Environment is an environment that also reports its space sizes
type Environment interface {
	core.Environment
	core.Spaces
}

// episode tracks the lifecycle shared by every built-in environment
type episode struct {
	running bool
	step    int
}

func (e *episode) reset() {
	e.running = true
	e.step = 0
}

// begin validates a step request against the episode and action space
func (e *episode) begin(action core.Action, numActions int) error {
	if !e.running {
		return fmt.Errorf("step called without a running episode: %w", labError.ErrInvalidState)
	}
	if action < 0 || int(action) >= numActions {
		return fmt.Errorf("action %d not in [0, %d): %w", action, numActions, labError.ErrOutOfRange)
	}
	e.step++
	return nil
}

func (e *episode) end() {
	e.running = false
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// FromConfig creates the environment described by cfg
func FromConfig(cfg config.EnvConfig) (Environment, error) {
	switch cfg.Type {
	case config.BanditEnv:
		params := BanditParams{EpisodeLength: 5}
		if err := decode(cfg.Config, &params); err != nil {
			return nil, err
		}
		if params.Rewards == nil {
			params.Rewards = []float64{1, 0}
		}
		return NewBandit(params.Rewards, params.EpisodeLength)
	case config.ChainEnv:
		params := ChainParams{Length: 5, GoalReward: 1}
		if err := decode(cfg.Config, &params); err != nil {
			return nil, err
		}
		return NewChain(params)
	case config.FrozenLakeEnv:
		params := FrozenLakeParams{Slippery: true}
		if err := decode(cfg.Config, &params); err != nil {
			return nil, err
		}
		if params.Map == nil {
			params.Map = DefaultFrozenLakeMap
		}
		return NewFrozenLake(params)
	}
	return nil, fmt.Errorf("unknown environment type %q: %w", cfg.Type, labError.ErrInvalidConfig)
}

func decode(input map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to decode environment config: %v: %w", err, labError.ErrInvalidConfig)
	}
	return nil
}
