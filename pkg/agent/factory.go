package agent

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/christopher-wolff-zz/lab-old/pkg/config"
	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

// QLearningConfig holds the q_learning keys of an agent config map.
// Unset keys keep the agent defaults.
type QLearningConfig struct {
	LearningRate      *float64 `mapstructure:"learning_rate"`
	Discount          *float64 `mapstructure:"discount"`
	Epsilon           *float64 `mapstructure:"epsilon"`
	EpsilonInitial    *float64 `mapstructure:"epsilon_initial"`
	EpsilonFinal      *float64 `mapstructure:"epsilon_final"`
	EpsilonDecaySteps *int     `mapstructure:"epsilon_decay_steps"`
	LearnInEval       *bool    `mapstructure:"learn_in_eval"`
	BootstrapTerminal *bool    `mapstructure:"bootstrap_terminal"`
}

// Options converts the config into agent options
func (c QLearningConfig) Options() ([]AgentOption, error) {
	var opts []AgentOption
	if c.LearningRate != nil {
		opts = append(opts, WithLearningRate(*c.LearningRate))
	}
	if c.Discount != nil {
		opts = append(opts, WithDiscount(*c.Discount))
	}
	if c.LearnInEval != nil {
		opts = append(opts, WithLearnInEval(*c.LearnInEval))
	}
	if c.BootstrapTerminal != nil {
		opts = append(opts, WithBootstrapTerminal(*c.BootstrapTerminal))
	}

	scheduled := c.EpsilonInitial != nil || c.EpsilonFinal != nil || c.EpsilonDecaySteps != nil
	if c.Epsilon != nil {
		if scheduled {
			return nil, fmt.Errorf("epsilon cannot be combined with an epsilon schedule: %w", labError.ErrInvalidConfig)
		}
		opts = append(opts, WithEpsilon(*c.Epsilon))
	}
	if scheduled {
		schedule := defaultAgentParams().Epsilon
		if c.EpsilonInitial != nil {
			schedule.Initial = *c.EpsilonInitial
		}
		if c.EpsilonFinal != nil {
			schedule.Final = *c.EpsilonFinal
		}
		if c.EpsilonDecaySteps != nil {
			schedule.DecaySteps = *c.EpsilonDecaySteps
		}
		opts = append(opts, WithEpsilonSchedule(schedule.Initial, schedule.Final, schedule.DecaySteps))
	}
	return opts, nil
}

// FromConfig creates the agent described by cfg for the given space sizes.
// opts are applied after the options derived from cfg.
func FromConfig(cfg config.AgentConfig, numStates, numActions int, opts ...AgentOption) (core.Agent, error) {
	switch cfg.Type {
	case config.QLearningAgent:
		var qc QLearningConfig
		if err := decode(cfg.Config, &qc); err != nil {
			return nil, err
		}
		derived, err := qc.Options()
		if err != nil {
			return nil, err
		}
		return NewQLearningAgent(numStates, numActions, append(derived, opts...)...)
	case config.RandomAgent:
		if err := decode(cfg.Config, &struct{}{}); err != nil {
			return nil, err
		}
		return NewRandomAgent(numActions, opts...)
	}
	return nil, fmt.Errorf("unknown agent type %q: %w", cfg.Type, labError.ErrInvalidConfig)
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
		return fmt.Errorf("failed to decode agent config: %v: %w", err, labError.ErrInvalidConfig)
	}
	return nil
}
