package agent

import (
	"fmt"

	"github.com/christopher-wolff-zz/lab-old/pkg/core"
	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

// ValueTable is a dense [state, action] table of expected discounted returns,
// zero-initialized. Its dimensions never change after construction.
type ValueTable struct {
	numStates  int
	numActions int
	values     []float64
}

func NewValueTable(numStates, numActions int) (*ValueTable, error) {
	if numStates <= 0 {
		return nil, fmt.Errorf("number of states must be positive, got %d: %w", numStates, labError.ErrInvalidConfig)
	}
	if numActions <= 0 {
		return nil, fmt.Errorf("number of actions must be positive, got %d: %w", numActions, labError.ErrInvalidConfig)
	}
	return &ValueTable{
		numStates:  numStates,
		numActions: numActions,
		values:     make([]float64, numStates*numActions),
	}, nil
}

// Dims returns (numStates, numActions)
func (t *ValueTable) Dims() (int, int) {
	return t.numStates, t.numActions
}

func (t *ValueTable) Get(s core.Observation, a core.Action) (float64, error) {
	i, err := t.index(s, a)
	if err != nil {
		return 0, err
	}
	return t.values[i], nil
}

func (t *ValueTable) Set(s core.Observation, a core.Action, v float64) error {
	i, err := t.index(s, a)
	if err != nil {
		return err
	}
	t.values[i] = v
	return nil
}

// Row returns a copy of the action values of state s
func (t *ValueTable) Row(s core.Observation) ([]float64, error) {
	if err := t.checkState(s); err != nil {
		return nil, err
	}
	row := make([]float64, t.numActions)
	copy(row, t.row(s))
	return row, nil
}

// Max returns the largest action value of state s
func (t *ValueTable) Max(s core.Observation) (float64, error) {
	if err := t.checkState(s); err != nil {
		return 0, err
	}
	row := t.row(s)
	best := row[0]
	for _, v := range row[1:] {
		if v > best {
			best = v
		}
	}
	return best, nil
}

// Argmax returns the action with the largest value in state s.
// Ties go to the lowest action index.
func (t *ValueTable) Argmax(s core.Observation) (core.Action, error) {
	if err := t.checkState(s); err != nil {
		return 0, err
	}
	row := t.row(s)
	best := 0
	for a := 1; a < len(row); a++ {
		if row[a] > row[best] {
			best = a
		}
	}
	return core.Action(best), nil
}

func (t *ValueTable) Clone() *ValueTable {
	values := make([]float64, len(t.values))
	copy(values, t.values)
	return &ValueTable{
		numStates:  t.numStates,
		numActions: t.numActions,
		values:     values,
	}
}

func (t *ValueTable) row(s core.Observation) []float64 {
	start := int(s) * t.numActions
	return t.values[start : start+t.numActions]
}

func (t *ValueTable) checkState(s core.Observation) error {
	if s < 0 || int(s) >= t.numStates {
		return fmt.Errorf("state %d not in [0, %d): %w", s, t.numStates, labError.ErrOutOfRange)
	}
	return nil
}

func (t *ValueTable) index(s core.Observation, a core.Action) (int, error) {
	if err := t.checkState(s); err != nil {
		return 0, err
	}
	if a < 0 || int(a) >= t.numActions {
		return 0, fmt.Errorf("action %d not in [0, %d): %w", a, t.numActions, labError.ErrOutOfRange)
	}
	return int(s)*t.numActions + int(a), nil
}
