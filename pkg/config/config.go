package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

// Agent and environment types known to the factories
const (
	QLearningAgent = "q_learning"
	RandomAgent    = "random"

	BanditEnv     = "bandit"
	ChainEnv      = "chain"
	FrozenLakeEnv = "frozen_lake"
)

// Report formats
const (
	CSVFormat  = "csv"
	HTMLFormat = "html"
	XLSXFormat = "xlsx"
)

type ExperimentConfig struct {
	Name               string       `yaml:"name"`
	Iterations         int          `yaml:"iterations"`
	TrainingSteps      int          `yaml:"training_steps"`
	EvaluationSteps    int          `yaml:"evaluation_steps"`
	MaxStepsPerEpisode int          `yaml:"max_steps_per_episode"`
	Seed               *int64       `yaml:"seed"`
	Agent              AgentConfig  `yaml:"agent"`
	Environment        EnvConfig    `yaml:"environment"`
	Logging            LogConfig    `yaml:"logging"`
	Report             ReportConfig `yaml:"report"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
	Quiet bool   `yaml:"quiet"`
}

type AgentConfig struct {
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config"`
}

type EnvConfig struct {
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config"`
}

type ReportConfig struct {
	// Path is the directory reports are written to, no report when empty
	Path            string   `yaml:"path"`
	Formats         []string `yaml:"formats"`
	SmoothingWindow int      `yaml:"smoothing_window"`
}

// DefaultConfig returns a FrozenLake Q-learning experiment
func DefaultConfig() *ExperimentConfig {
	return &ExperimentConfig{
		Name:               "frozen_lake",
		Iterations:         100,
		TrainingSteps:      1000,
		EvaluationSteps:    100,
		MaxStepsPerEpisode: 100,
		Agent: AgentConfig{
			Type:   QLearningAgent,
			Config: map[string]any{},
		},
		Environment: EnvConfig{
			Type:   FrozenLakeEnv,
			Config: map[string]any{},
		},
		Logging: LogConfig{
			Level: "info",
		},
		Report: ReportConfig{
			Formats:         []string{CSVFormat},
			SmoothingWindow: 1,
		},
	}
}

// LoadConfig reads a YAML experiment configuration on top of the defaults
func LoadConfig(path string) (*ExperimentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data on top of the defaults
func Parse(data []byte) (*ExperimentConfig, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Agent.Config == nil {
		cfg.Agent.Config = map[string]any{}
	}
	if cfg.Environment.Config == nil {
		cfg.Environment.Config = map[string]any{}
	}
	return cfg, nil
}

// Validate reports every invalid field at once
func (c *ExperimentConfig) Validate() error {
	var result *multierror.Error

	if c.Iterations <= 0 {
		result = multierror.Append(result, fmt.Errorf("iterations must be positive, got %d", c.Iterations))
	}
	if c.TrainingSteps < 0 {
		result = multierror.Append(result, fmt.Errorf("training_steps must not be negative, got %d", c.TrainingSteps))
	}
	if c.EvaluationSteps < 0 {
		result = multierror.Append(result, fmt.Errorf("evaluation_steps must not be negative, got %d", c.EvaluationSteps))
	}
	if c.MaxStepsPerEpisode <= 0 {
		result = multierror.Append(result, fmt.Errorf("max_steps_per_episode must be positive, got %d", c.MaxStepsPerEpisode))
	}
	switch c.Agent.Type {
	case QLearningAgent, RandomAgent:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown agent type %q", c.Agent.Type))
	}
	switch c.Environment.Type {
	case BanditEnv, ChainEnv, FrozenLakeEnv:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown environment type %q", c.Environment.Type))
	}
	for _, f := range c.Report.Formats {
		switch f {
		case CSVFormat, HTMLFormat, XLSXFormat:
		default:
			result = multierror.Append(result, fmt.Errorf("unknown report format %q", f))
		}
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		result = multierror.Append(result, fmt.Errorf("logging level: %w", err))
	}
	if c.Report.SmoothingWindow < 0 {
		result = multierror.Append(result, fmt.Errorf("smoothing_window must not be negative, got %d", c.Report.SmoothingWindow))
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", labError.ErrInvalidConfig, err)
	}
	return nil
}
