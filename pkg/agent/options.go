package agent

import (
	"github.com/christopher-wolff-zz/lab-old/pkg/logger"
)

type AgentParams struct {
	LearningRate float64
	Discount     float64
	Epsilon      EpsilonSchedule
	// LearnInEval keeps TD updates running while the agent is in evaluation mode
	LearnInEval bool
	// BootstrapTerminal bootstraps terminal transitions from the next state's
	// values like any other transition. When false their target is the reward alone.
	BootstrapTerminal bool
	Seed              *int64
	Logger            logger.Logger
}

type AgentOption func(*AgentParams)

func WithLearningRate(alpha float64) AgentOption {
	return func(p *AgentParams) {
		p.LearningRate = alpha
	}
}

func WithDiscount(gamma float64) AgentOption {
	return func(p *AgentParams) {
		p.Discount = gamma
	}
}

// WithEpsilon sets a constant exploration rate
func WithEpsilon(epsilon float64) AgentOption {
	return func(p *AgentParams) {
		p.Epsilon = ConstantEpsilon(epsilon)
	}
}

func WithEpsilonSchedule(initial, final float64, decaySteps int) AgentOption {
	return func(p *AgentParams) {
		p.Epsilon = EpsilonSchedule{Initial: initial, Final: final, DecaySteps: decaySteps}
	}
}

func WithLearnInEval(learn bool) AgentOption {
	return func(p *AgentParams) {
		p.LearnInEval = learn
	}
}

func WithBootstrapTerminal(bootstrap bool) AgentOption {
	return func(p *AgentParams) {
		p.BootstrapTerminal = bootstrap
	}
}

func WithSeed(seed int64) AgentOption {
	return func(p *AgentParams) {
		p.Seed = &seed
	}
}

func WithLogger(l logger.Logger) AgentOption {
	return func(p *AgentParams) {
		p.Logger = l
	}
}

func defaultAgentParams() *AgentParams {
	return &AgentParams{
		LearningRate: 0.5,
		Discount:     0.99,
		Epsilon: EpsilonSchedule{
			Initial:    1,
			Final:      0.05,
			DecaySteps: 50000,
		},
		LearnInEval:       true,
		BootstrapTerminal: true,
		Logger:            logger.NewNullLogger(),
	}
}
