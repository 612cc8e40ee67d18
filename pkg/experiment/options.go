package experiment

import "github.com/christopher-wolff-zz/lab-old/pkg/logger"

// Params holds the experiment settings applied by Options
type Params struct {
	Name               string
	Iterations         int
	TrainingSteps      int
	EvaluationSteps    int
	MaxStepsPerEpisode int
	Seed               *int64
	IterationCallback  IterationCallback
	EpisodeCallback    EpisodeCallback
	Logger             logger.Logger
}

type Option func(*Params)

func defaultParams() *Params {
	return &Params{
		Name:               "experiment",
		Iterations:         100,
		TrainingSteps:      1000,
		EvaluationSteps:    100,
		MaxStepsPerEpisode: 100,
		Logger:             logger.NewNullLogger(),
	}
}

func WithName(name string) Option {
	return func(p *Params) {
		p.Name = name
	}
}

func WithIterations(n int) Option {
	return func(p *Params) {
		p.Iterations = n
	}
}

// WithTrainingSteps sets the minimum number of steps per training phase
func WithTrainingSteps(n int) Option {
	return func(p *Params) {
		p.TrainingSteps = n
	}
}

// WithEvaluationSteps sets the minimum number of steps per evaluation phase
func WithEvaluationSteps(n int) Option {
	return func(p *Params) {
		p.EvaluationSteps = n
	}
}

func WithMaxStepsPerEpisode(n int) Option {
	return func(p *Params) {
		p.MaxStepsPerEpisode = n
	}
}

func WithSeed(seed int64) Option {
	return func(p *Params) {
		p.Seed = &seed
	}
}

func WithIterationCallback(cb IterationCallback) Option {
	return func(p *Params) {
		p.IterationCallback = cb
	}
}

func WithEpisodeCallback(cb EpisodeCallback) Option {
	return func(p *Params) {
		p.EpisodeCallback = cb
	}
}

func WithLogger(l logger.Logger) Option {
	return func(p *Params) {
		p.Logger = l
	}
}
