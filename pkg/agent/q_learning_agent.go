package agent

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
	"github.com/christopher-wolff-zz/lab-old/pkg/logger"
)

// QLearningAgent learns a ValueTable with one-step TD updates and acts
// epsilon-greedily on it.
type QLearningAgent struct {
	q            *ValueTable
	learningRate float64
	discount     float64
	epsilon      EpsilonSchedule
	learnInEval  bool
	bootstrap    bool
	rng          *rand.Rand
	logger       logger.Logger

	// training steps learned so far, drives the epsilon schedule
	stepCount int
	evalMode  bool

	// per-episode tracking, cleared by EndEpisode
	state     core.Observation
	hasState  bool
	action    core.Action
	hasAction bool
}

var _ core.Agent = (*QLearningAgent)(nil)

// NewQLearningAgent creates a Q-learning agent over numStates x numActions
func NewQLearningAgent(numStates, numActions int, opts ...AgentOption) (*QLearningAgent, error) {
	params := defaultAgentParams()
	for _, opt := range opts {
		opt(params)
	}

	if params.LearningRate < 0 || params.LearningRate > 1 {
		return nil, fmt.Errorf("learning rate %v not in [0, 1]: %w", params.LearningRate, labError.ErrInvalidConfig)
	}
	if params.Discount < 0 || params.Discount > 1 {
		return nil, fmt.Errorf("discount %v not in [0, 1]: %w", params.Discount, labError.ErrInvalidConfig)
	}
	if err := params.Epsilon.Validate(); err != nil {
		return nil, err
	}
	q, err := NewValueTable(numStates, numActions)
	if err != nil {
		return nil, err
	}

	agent := &QLearningAgent{
		q:            q,
		learningRate: params.LearningRate,
		discount:     params.Discount,
		epsilon:      params.Epsilon,
		learnInEval:  params.LearnInEval,
		bootstrap:    params.BootstrapTerminal,
		logger:       params.Logger,
	}
	if params.Seed != nil {
		agent.Seed(*params.Seed)
	} else {
		agent.Seed(time.Now().UnixNano())
	}
	return agent, nil
}

func (a *QLearningAgent) Seed(seed int64) {
	a.rng = rand.New(rand.NewSource(seed))
}

func (a *QLearningAgent) SetEvalMode(eval bool) {
	a.evalMode = eval
}

func (a *QLearningAgent) EvalMode() bool {
	return a.evalMode
}

// Epsilon returns the exploration rate the next Act will use
func (a *QLearningAgent) Epsilon() float64 {
	if a.evalMode {
		return 0
	}
	return a.epsilon.At(a.stepCount)
}

// StepCount returns the number of training transitions learned so far
func (a *QLearningAgent) StepCount() int {
	return a.stepCount
}

// ValueTable returns a copy of the learned values
func (a *QLearningAgent) ValueTable() *ValueTable {
	return a.q.Clone()
}

func (a *QLearningAgent) BeginEpisode(observation core.Observation) error {
	if err := a.q.checkState(observation); err != nil {
		return fmt.Errorf("failed to begin episode: %w", err)
	}
	a.state = observation
	a.hasState = true
	a.hasAction = false
	return nil
}

func (a *QLearningAgent) Act() (core.Action, error) {
	if !a.hasState {
		return 0, fmt.Errorf("act called outside of an episode: %w", labError.ErrInvalidState)
	}

	var action core.Action
	if eps := a.Epsilon(); eps > 0 && a.rng.Float64() < eps {
		_, numActions := a.q.Dims()
		action = core.Action(a.rng.Intn(numActions))
	} else {
		greedy, err := a.q.Argmax(a.state)
		if err != nil {
			return 0, err
		}
		action = greedy
	}

	a.action = action
	a.hasAction = true
	return action, nil
}

// Learn applies the TD(0) update
//
//	Q[s, a] += alpha * (r + gamma * max_a' Q[s', a'] - Q[s, a])
//
// for the last state and action, then moves to next. Terminal transitions
// skip the bootstrap term unless the agent bootstraps terminals.
func (a *QLearningAgent) Learn(reward float64, next core.Observation, terminal bool) error {
	if !a.hasAction {
		return fmt.Errorf("learn called without a preceding action: %w", labError.ErrInvalidState)
	}
	if err := a.q.checkState(next); err != nil {
		return fmt.Errorf("failed to learn: %w", err)
	}

	if !a.evalMode || a.learnInEval {
		target := reward
		if !terminal || a.bootstrap {
			nextMax, err := a.q.Max(next)
			if err != nil {
				return err
			}
			target += a.discount * nextMax
		}
		current, err := a.q.Get(a.state, a.action)
		if err != nil {
			return err
		}
		if err := a.q.Set(a.state, a.action, current+a.learningRate*(target-current)); err != nil {
			return err
		}
	}
	if !a.evalMode {
		a.stepCount++
	}

	a.state = next
	a.hasAction = false
	return nil
}

// EndEpisode clears the episode tracking. The final reward was already
// consumed by the last Learn call.
func (a *QLearningAgent) EndEpisode(reward float64) error {
	a.hasState = false
	a.hasAction = false
	a.logger.Debugf("Episode ended with reward %.2f, epsilon %.3f", reward, a.Epsilon())
	return nil
}
