package tasks

import (
	"sync"
	"time"
)

// RunRecord captures the outcome of one digest run for the HTTP surface.
// Nothing persists between process restarts.
type RunRecord struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Centers    int           `json:"centers"`
	Listings   int           `json:"listings"`
	Dispatched bool          `json:"dispatched"`
	Error      string        `json:"error,omitempty"`
	HTML       string        `json:"-"`
}

type Status struct {
	mu   sync.RWMutex
	last *RunRecord
}

func NewStatus() *Status {
	return &Status{}
}

func (s *Status) Record(record RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &record
}

// Last returns a copy of the most recent run record, or nil before the first
// run completes.
func (s *Status) Last() *RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil
	}
	record := *s.last
	return &record
}
