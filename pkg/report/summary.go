package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/christopher-wolff-zz/lab-old/pkg/statistics"
)

// Summary describes the values recorded for one metric
type Summary struct {
	Key    string
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize returns one Summary per metric, in key order. The standard
// deviation is the sample one and 0 for fewer than two values.
func Summarize(stats *statistics.IterationStatistics) []Summary {
	keys := stats.Keys()
	out := make([]Summary, 0, len(keys))
	for _, key := range keys {
		out = append(out, summarize(key, stats.Get(key)))
	}
	return out
}

func summarize(key string, values []float64) Summary {
	s := Summary{Key: key, N: len(values)}
	if s.N == 0 {
		return s
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	if s.N == 1 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	return s
}
