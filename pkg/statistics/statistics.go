package statistics

import "sync"

// Pair is a single recorded metric value
type Pair struct {
	Key   string
	Value float64
}

// IterationStatistics maps metric names to the sequence of values recorded
// for them. Keys keep the order in which they were first appended.
type IterationStatistics struct {
	keys []string
	data map[string][]float64
	mu   sync.RWMutex
}

func New() *IterationStatistics {
	return &IterationStatistics{
		keys: make([]string, 0),
		data: make(map[string][]float64),
	}
}

// Append adds value to the sequence recorded under key
func (s *IterationStatistics) Append(key string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(key, value)
}

// AppendAll appends every pair, in order
func (s *IterationStatistics) AppendAll(pairs ...Pair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range pairs {
		s.append(p.Key, p.Value)
	}
}

func (s *IterationStatistics) append(key string, value float64) {
	if _, ok := s.data[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.data[key] = append(s.data[key], value)
}

// Keys returns the metric names in first-insertion order
func (s *IterationStatistics) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Get returns a copy of the values recorded under key, nil if none were
func (s *IterationStatistics) Get(key string) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values, ok := s.data[key]
	if !ok {
		return nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

func (s *IterationStatistics) Len(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[key])
}

// Last returns the most recent value recorded under key
func (s *IterationStatistics) Last(key string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := s.data[key]
	if len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}

// Snapshot returns a deep copy that later appends will not affect
func (s *IterationStatistics) Snapshot() *IterationStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := New()
	for _, k := range s.keys {
		values := make([]float64, len(s.data[k]))
		copy(values, s.data[k])
		out.keys = append(out.keys, k)
		out.data[k] = values
	}
	return out
}

// Reset drops every recorded metric
func (s *IterationStatistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make([]string, 0)
	s.data = make(map[string][]float64)
}
