// Package error provides the error taxonomy shared by agents, environments
// and experiments, plus exit-coded errors for the lab CLI.
package error

import (
	"errors"
)

var (
	// ErrInvalidConfig reports an invalid hyperparameter, space size or step budget.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidState reports a call made out of the episode sequence,
	// e.g. learning without a preceding action selection.
	ErrInvalidState = errors.New("invalid state")
	// ErrOutOfRange reports an action or observation index outside its space.
	ErrOutOfRange = errors.New("out of range")
)

// LabError carries an exit code along with the error it wraps
type LabError struct {
	err  error
	code int
}

func (e *LabError) Error() string {
	return e.err.Error()
}

func (e *LabError) Unwrap() error {
	return e.err
}

func (e *LabError) ExitCode() int {
	return e.code
}

// NewFromError generates a LabError from an existing error,
// maintaining its error chain
func NewFromError(err error, code int) error {
	if err == nil {
		return nil
	}
	return &LabError{err: err, code: code}
}

// New generates a LabError from a string
func New(err string, code int) error {
	return &LabError{err: errors.New(err), code: code}
}

// ExitCode returns the process exit code for err. Explicit LabError codes win,
// otherwise the taxonomy sentinel found in the chain decides.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var labErr *LabError
	if errors.As(err, &labErr) {
		return labErr.ExitCode()
	}
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return InvalidConfig
	case errors.Is(err, ErrInvalidState):
		return InvalidState
	case errors.Is(err, ErrOutOfRange):
		return OutOfRange
	}
	return Unknown
}
