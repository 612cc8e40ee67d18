package experiment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
	"github.com/christopher-wolff-zz/lab-old/pkg/logger"
	"github.com/christopher-wolff-zz/lab-old/pkg/statistics"
)

// Statistics keys, prefixed by the phase mode (see core.Mode.Key)
const (
	AverageReturnsKey = "average_returns"
	EpisodeCountsKey  = "episode_counts"
	StepsKey          = "steps"
	EpisodeLengthsKey = "episode_lengths"
	EpisodeReturnsKey = "episode_returns"
)

// IterationCallback is invoked after each iteration with the statistics so far
type IterationCallback func(e *Experiment, iteration int, stats *statistics.IterationStatistics)

// EpisodeCallback is invoked after each episode
type EpisodeCallback func(e *Experiment, result core.EpisodeResult, stats *statistics.IterationStatistics)

// Experiment alternates training and evaluation phases of one agent in one environment
type Experiment struct {
	id                 string
	name               string
	agent              core.Agent
	env                core.Environment
	iterations         int
	trainingSteps      int
	evaluationSteps    int
	maxStepsPerEpisode int
	onIteration        IterationCallback
	onEpisode          EpisodeCallback
	logger             logger.Logger

	mode  core.Mode
	stats *statistics.IterationStatistics
}

// New validates the options and wires agent and env together. A configured
// seed is forwarded to both exactly once, here.
func New(agent core.Agent, env core.Environment, opts ...Option) (*Experiment, error) {
	params := defaultParams()
	for _, opt := range opts {
		opt(params)
	}
	if err := params.validate(agent, env); err != nil {
		return nil, err
	}

	e := &Experiment{
		id:                 uuid.NewString(),
		name:               params.Name,
		agent:              agent,
		env:                env,
		iterations:         params.Iterations,
		trainingSteps:      params.TrainingSteps,
		evaluationSteps:    params.EvaluationSteps,
		maxStepsPerEpisode: params.MaxStepsPerEpisode,
		onIteration:        params.IterationCallback,
		onEpisode:          params.EpisodeCallback,
		logger:             params.Logger,
		mode:               core.Train,
		stats:              statistics.New(),
	}
	if params.Seed != nil {
		agent.Seed(*params.Seed)
		env.Seed(*params.Seed)
	}
	return e, nil
}

func (p *Params) validate(agent core.Agent, env core.Environment) error {
	var result *multierror.Error
	if agent == nil {
		result = multierror.Append(result, errors.New("agent is required"))
	}
	if env == nil {
		result = multierror.Append(result, errors.New("environment is required"))
	}
	if p.Iterations <= 0 {
		result = multierror.Append(result, fmt.Errorf("iterations must be positive, got %d", p.Iterations))
	}
	if p.TrainingSteps < 0 {
		result = multierror.Append(result, fmt.Errorf("training steps must be non-negative, got %d", p.TrainingSteps))
	}
	if p.EvaluationSteps < 0 {
		result = multierror.Append(result, fmt.Errorf("evaluation steps must be non-negative, got %d", p.EvaluationSteps))
	}
	if p.MaxStepsPerEpisode <= 0 {
		result = multierror.Append(result, fmt.Errorf("max steps per episode must be positive, got %d", p.MaxStepsPerEpisode))
	}
	if p.Logger == nil {
		result = multierror.Append(result, errors.New("logger is required"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", labError.ErrInvalidConfig, err)
	}
	return nil
}

func (e *Experiment) ID() string {
	return e.id
}

func (e *Experiment) Name() string {
	return e.name
}

func (e *Experiment) Agent() core.Agent {
	return e.agent
}

func (e *Experiment) Environment() core.Environment {
	return e.env
}

// Statistics returns a copy of everything recorded by the current or last run
func (e *Experiment) Statistics() *statistics.IterationStatistics {
	return e.stats.Snapshot()
}

// Run resets the statistics and executes the configured iterations. On
// error the statistics of the completed iterations remain in Statistics.
func (e *Experiment) Run() (*statistics.IterationStatistics, error) {
	e.stats.Reset()
	runLog := e.logger.WithFields(log.Fields{"run": e.id, "experiment": e.name})
	runLog.Infof("Beginning experiment with %d iterations", e.iterations)

	start := time.Now()
	for i := 0; i < e.iterations; i++ {
		iterLog := runLog.WithField("iteration", i)
		iterLog.Debug("Starting iteration")

		train, err := e.RunPhase(e.trainingSteps, core.Train)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: training phase: %w", i, err)
		}
		eval, err := e.RunPhase(e.evaluationSteps, core.Eval)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: evaluation phase: %w", i, err)
		}

		iterLog.WithFields(log.Fields{
			"train_average_return": train.AverageReturn(),
			"eval_average_return":  eval.AverageReturn(),
		}).Info("Iteration finished")

		if e.onIteration != nil {
			e.onIteration(e, i, e.stats)
		}
	}

	runLog.Infof("Experiment finished in %s", time.Since(start).Round(time.Millisecond))
	return e.stats.Snapshot(), nil
}

// RunPhase runs whole episodes in mode until at least minSteps steps were
// taken. The last episode always completes, so the phase may overshoot.
func (e *Experiment) RunPhase(minSteps int, mode core.Mode) (core.PhaseResult, error) {
	e.mode = mode
	e.agent.SetEvalMode(mode == core.Eval)

	result := core.PhaseResult{Mode: mode}
	start := time.Now()
	for result.Steps < minSteps {
		episode, err := e.RunOneEpisode()
		if err != nil {
			return result, err
		}
		result.Steps += episode.Steps
		result.Return += episode.Return
		result.Episodes++
	}

	e.stats.AppendAll(
		statistics.Pair{Key: mode.Key(AverageReturnsKey), Value: result.AverageReturn()},
		statistics.Pair{Key: mode.Key(EpisodeCountsKey), Value: float64(result.Episodes)},
		statistics.Pair{Key: mode.Key(StepsKey), Value: float64(result.Steps)},
	)

	fields := log.Fields{
		"mode":     mode,
		"steps":    result.Steps,
		"episodes": result.Episodes,
	}
	if elapsed := time.Since(start).Seconds(); elapsed > 0 {
		fields["steps_per_second"] = float64(result.Steps) / elapsed
	}
	e.logger.WithFields(fields).Debugf("Average return: %.2f", result.AverageReturn())
	return result, nil
}

// RunOneEpisode resets the environment and plays one episode with the agent
// until the environment terminates it or it reaches the step cap.
func (e *Experiment) RunOneEpisode() (core.EpisodeResult, error) {
	result := core.EpisodeResult{Mode: e.mode}

	observation, err := e.env.Reset()
	if err != nil {
		return result, fmt.Errorf("failed to reset environment: %w", err)
	}
	if err := e.agent.BeginEpisode(observation); err != nil {
		return result, err
	}

	var reward float64
	for result.Steps < e.maxStepsPerEpisode {
		action, err := e.agent.Act()
		if err != nil {
			return result, err
		}
		var terminal bool
		observation, reward, terminal, err = e.env.Step(action)
		if err != nil {
			return result, fmt.Errorf("environment step %d: %w", result.Steps, err)
		}
		if err := e.agent.Learn(reward, observation, terminal); err != nil {
			return result, err
		}
		result.Steps++
		result.Return += reward
		if terminal {
			result.Terminal = true
			break
		}
	}

	if err := e.agent.EndEpisode(reward); err != nil {
		return result, err
	}

	e.stats.AppendAll(
		statistics.Pair{Key: e.mode.Key(EpisodeLengthsKey), Value: float64(result.Steps)},
		statistics.Pair{Key: e.mode.Key(EpisodeReturnsKey), Value: result.Return},
	)
	e.logger.WithFields(log.Fields{
		"mode":     e.mode,
		"steps":    result.Steps,
		"terminal": result.Terminal,
	}).Debugf("Episode return: %.2f", result.Return)

	if e.onEpisode != nil {
		e.onEpisode(e, result, e.stats)
	}
	return result, nil
}
