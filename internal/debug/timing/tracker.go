// Package timing records how long each named operation of a render took.
package timing

import (
	"sync"
	"time"

	"pencil-sketch/internal/logger"
)

// Stage is one recorded operation, in first-seen order.
type Stage struct {
	Name     string
	Duration time.Duration
	Runs     int
}

type Tracker struct {
	timings map[string][]time.Duration
	order   []string
	mu      sync.RWMutex
	log     logger.Logger
}

func NewTracker(log logger.Logger) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{
		timings: make(map[string][]time.Duration),
		log:     log,
	}
}

// Start begins timing operation. The returned function stops the clock,
// records the duration and returns it.
func (tt *Tracker) Start(operation string) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		duration := time.Since(start)
		tt.Record(operation, duration)
		return duration
	}
}

func (tt *Tracker) Record(operation string, duration time.Duration) {
	tt.mu.Lock()
	if _, seen := tt.timings[operation]; !seen {
		tt.order = append(tt.order, operation)
	}
	tt.timings[operation] = append(tt.timings[operation], duration)
	tt.mu.Unlock()

	tt.log.Debug("timing", "operation completed", map[string]interface{}{
		"operation":   operation,
		"duration_ms": duration.Milliseconds(),
	})
}

func (tt *Tracker) Timings(operation string) []time.Duration {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	timings := tt.timings[operation]
	if timings == nil {
		return nil
	}

	result := make([]time.Duration, len(timings))
	copy(result, timings)
	return result
}

// Stages returns the summed duration of every operation in the order it was
// first recorded.
func (tt *Tracker) Stages() []Stage {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	stages := make([]Stage, 0, len(tt.order))
	for _, name := range tt.order {
		var total time.Duration
		for _, d := range tt.timings[name] {
			total += d
		}
		stages = append(stages, Stage{Name: name, Duration: total, Runs: len(tt.timings[name])})
	}
	return stages
}

func (tt *Tracker) Total() time.Duration {
	var total time.Duration
	for _, s := range tt.Stages() {
		total += s.Duration
	}
	return total
}
