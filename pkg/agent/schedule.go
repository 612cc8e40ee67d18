package agent

import (
	"fmt"

	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

// EpsilonSchedule decays the exploration rate linearly from Initial to Final
// over DecaySteps steps and holds it at Final afterwards.
type EpsilonSchedule struct {
	Initial    float64
	Final      float64
	DecaySteps int
}

// ConstantEpsilon never decays
func ConstantEpsilon(epsilon float64) EpsilonSchedule {
	return EpsilonSchedule{Initial: epsilon, Final: epsilon}
}

// At returns the exploration rate after step steps
func (s EpsilonSchedule) At(step int) float64 {
	if step >= s.DecaySteps {
		return s.Final
	}
	return s.Initial - float64(step)*(s.Initial-s.Final)/float64(s.DecaySteps)
}

func (s EpsilonSchedule) Validate() error {
	if s.Initial < 0 || s.Initial > 1 {
		return fmt.Errorf("initial epsilon %v not in [0, 1]: %w", s.Initial, labError.ErrInvalidConfig)
	}
	if s.Final < 0 || s.Final > 1 {
		return fmt.Errorf("final epsilon %v not in [0, 1]: %w", s.Final, labError.ErrInvalidConfig)
	}
	if s.DecaySteps < 0 {
		return fmt.Errorf("epsilon decay steps must not be negative, got %d: %w", s.DecaySteps, labError.ErrInvalidConfig)
	}
	return nil
}
