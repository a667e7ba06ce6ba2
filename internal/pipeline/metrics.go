package pipeline

import (
	"time"

	"pencil-sketch/internal/debug/timing"
	"pencil-sketch/internal/opencv/memory"
)

// Metrics describes one render.
type Metrics struct {
	Width    int
	Height   int
	Channels int
	Format   string

	Stages []timing.Stage
	Total  time.Duration
	Memory memory.Stats

	// Clamped names the parameters that were pulled back into range.
	Clamped []string
}

// Fields flattens m for structured logging.
func (m *Metrics) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"width":          m.Width,
		"height":         m.Height,
		"channels":       m.Channels,
		"format":         m.Format,
		"total_ms":       m.Total.Milliseconds(),
		"mats_allocated": m.Memory.AllocationCount,
		"peak_bytes":     m.Memory.PeakActiveBytes,
	}
	for _, s := range m.Stages {
		fields[s.Name+"_ms"] = s.Duration.Milliseconds()
	}
	if len(m.Clamped) > 0 {
		fields["clamped"] = m.Clamped
	}
	return fields
}
