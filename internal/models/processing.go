package models

import "runtime"

// PerformanceSettings bounds the resources a single render may use.
type PerformanceSettings struct {
	// MaxWorkers caps the goroutines of the pure-Go pixel passes.
	MaxWorkers int
	// MemoryLimit is the live Mat byte count above which a warning is
	// logged. Zero disables the check.
	MemoryLimit int64
}

func DefaultPerformanceSettings() PerformanceSettings {
	return PerformanceSettings{
		MaxWorkers:  runtime.NumCPU(),
		MemoryLimit: 1024 * 1024 * 1024,
	}
}

// Workers returns MaxWorkers, or runtime.NumCPU() when it is not positive.
func (s PerformanceSettings) Workers() int {
	if s.MaxWorkers <= 0 {
		return runtime.NumCPU()
	}
	return s.MaxWorkers
}
