package environment

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

// FrozenLake actions
const (
	Left core.Action = iota
	Down
	Right
	Up
)

// DefaultFrozenLakeMap is the classic 4x4 lake.
// S: start, F: frozen, H: hole, G: goal.
var DefaultFrozenLakeMap = []string{
	"SFFF",
	"FHFH",
	"FFFH",
	"HFFG",
}

type FrozenLakeParams struct {
	Map []string `mapstructure:"map"`
	// Slippery moves in the intended or either perpendicular direction with equal probability
	Slippery bool `mapstructure:"slippery"`
}

// FrozenLake is a grid walk from S to G. Falling into a hole ends the episode
// with no reward; reaching the goal pays 1.
type FrozenLake struct {
	grid     [][]byte
	rows     int
	cols     int
	start    core.Observation
	slippery bool
	state    core.Observation
	rng      *rand.Rand
	episode  episode
}

func NewFrozenLake(params FrozenLakeParams) (*FrozenLake, error) {
	if len(params.Map) == 0 {
		return nil, fmt.Errorf("frozen lake map is empty: %w", labError.ErrInvalidConfig)
	}
	cols := len(params.Map[0])
	grid := make([][]byte, len(params.Map))
	starts, goals := 0, 0
	var start core.Observation
	for r, line := range params.Map {
		line = strings.ToUpper(line)
		if len(line) != cols || cols == 0 {
			return nil, fmt.Errorf("frozen lake row %d has length %d, want %d: %w", r, len(line), cols, labError.ErrInvalidConfig)
		}
		for c := 0; c < cols; c++ {
			switch line[c] {
			case 'S':
				starts++
				start = core.Observation(r*cols + c)
			case 'G':
				goals++
			case 'F', 'H':
			default:
				return nil, fmt.Errorf("unknown frozen lake tile %q at (%d, %d): %w", line[c], r, c, labError.ErrInvalidConfig)
			}
		}
		grid[r] = []byte(line)
	}
	if starts != 1 || goals == 0 {
		return nil, fmt.Errorf("frozen lake needs exactly one start and at least one goal: %w", labError.ErrInvalidConfig)
	}

	return &FrozenLake{
		grid:     grid,
		rows:     len(grid),
		cols:     cols,
		start:    start,
		slippery: params.Slippery,
		rng:      newRand(),
	}, nil
}

func (f *FrozenLake) Seed(seed int64) {
	f.rng = rand.New(rand.NewSource(seed))
}

func (f *FrozenLake) ObservationSpaceN() int {
	return f.rows * f.cols
}

func (f *FrozenLake) ActionSpaceN() int {
	return 4
}

func (f *FrozenLake) Reset() (core.Observation, error) {
	f.episode.reset()
	f.state = f.start
	return f.state, nil
}

func (f *FrozenLake) Step(action core.Action) (core.Observation, float64, bool, error) {
	if err := f.episode.begin(action, 4); err != nil {
		return 0, 0, false, err
	}
	if f.slippery {
		// (a-1) mod 4, a, (a+1) mod 4
		action = (action + core.Action(f.rng.Intn(3)) + 3) % 4
	}

	r, c := int(f.state)/f.cols, int(f.state)%f.cols
	switch action {
	case Left:
		c = max(c-1, 0)
	case Down:
		r = min(r+1, f.rows-1)
	case Right:
		c = min(c+1, f.cols-1)
	case Up:
		r = max(r-1, 0)
	}
	f.state = core.Observation(r*f.cols + c)

	switch f.grid[r][c] {
	case 'G':
		f.episode.end()
		return f.state, 1, true, nil
	case 'H':
		f.episode.end()
		return f.state, 0, true, nil
	}
	return f.state, 0, false, nil
}
