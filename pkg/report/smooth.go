package report

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	labError "github.com/christopher-wolff-zz/lab-old/pkg/error"
)

// Boundary extension methods for Smooth
const (
	// Same repeats the first and last values
	Same = "same"
	// Mirror reflects the series at both ends
	Mirror = "mirror"
)

// Smooth applies a moving average of the given window to x. The series is
// extended at both ends so the result has the same length as x. For an even
// window the extra value is taken from the right.
func Smooth(x []float64, window int, method string) ([]float64, error) {
	if window < 1 {
		return nil, fmt.Errorf("smoothing window must be positive, got %d: %w", window, labError.ErrInvalidConfig)
	}
	if method != Same && method != Mirror {
		return nil, fmt.Errorf("unknown smoothing method %q: %w", method, labError.ErrInvalidConfig)
	}
	n := len(x)
	if n == 0 {
		return []float64{}, nil
	}

	left := (window - 1) / 2
	extended := make([]float64, n+window-1)
	for i := range extended {
		extended[i] = x[extendIndex(i-left, n, method)]
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = stat.Mean(extended[i:i+window], nil)
	}
	return out, nil
}

// extendIndex maps an index outside [0, n) back into the series
func extendIndex(i, n int, method string) int {
	if method == Mirror {
		for i < 0 || i >= n {
			if i < 0 {
				i = -i - 1
			} else {
				i = 2*n - i - 1
			}
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
