package environment

import (
	"fmt"
	"math"

	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

type BanditParams struct {
	// Rewards holds the reward paid by each action
	Rewards       []float64 `mapstructure:"rewards"`
	EpisodeLength int       `mapstructure:"episode_length"`
}

// Bandit has a single state and pays a fixed reward per action. Every episode
// lasts exactly EpisodeLength steps.
type Bandit struct {
	rewards       []float64
	episodeLength int
	episode       episode
}

func NewBandit(rewards []float64, episodeLength int) (*Bandit, error) {
	if len(rewards) == 0 {
		return nil, fmt.Errorf("bandit needs at least one action: %w", labError.ErrInvalidConfig)
	}
	for i, r := range rewards {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("reward of action %d is not finite: %w", i, labError.ErrInvalidConfig)
		}
	}
	if episodeLength <= 0 {
		return nil, fmt.Errorf("episode length must be positive, got %d: %w", episodeLength, labError.ErrInvalidConfig)
	}
	r := make([]float64, len(rewards))
	copy(r, rewards)
	return &Bandit{rewards: r, episodeLength: episodeLength}, nil
}

// Seed is a no-op, the bandit is deterministic
func (b *Bandit) Seed(seed int64) {}

func (b *Bandit) ObservationSpaceN() int {
	return 1
}

func (b *Bandit) ActionSpaceN() int {
	return len(b.rewards)
}

func (b *Bandit) Reset() (core.Observation, error) {
	b.episode.reset()
	return 0, nil
}

func (b *Bandit) Step(action core.Action) (core.Observation, float64, bool, error) {
	if err := b.episode.begin(action, len(b.rewards)); err != nil {
		return 0, 0, false, err
	}
	terminal := b.episode.step >= b.episodeLength
	if terminal {
		b.episode.end()
	}
	return 0, b.rewards[action], terminal, nil
}
