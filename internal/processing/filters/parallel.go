package filters

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minRowsPerBand keeps small images on a single goroutine.
const minRowsPerBand = 32

// forEachRowBand splits [0, rows) into contiguous bands and runs fn on each,
// at most workers at a time. workers <= 0 means runtime.NumCPU().
func forEachRowBand(rows, workers int, fn func(y0, y1 int) error) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	bands := rows / minRowsPerBand
	if bands < 1 {
		bands = 1
	}
	if bands > workers {
		bands = workers
	}

	if bands == 1 {
		return fn(0, rows)
	}

	var g errgroup.Group
	g.SetLimit(workers)

	step := (rows + bands - 1) / bands
	for y0 := 0; y0 < rows; y0 += step {
		y1 := min(y0+step, rows)
		g.Go(func() error {
			return fn(y0, y1)
		})
	}

	return g.Wait()
}
