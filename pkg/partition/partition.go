// Package partition splits raster rows between parallel workers.
//
// Every parallel computation in watercoherer follows the same fan-out/fan-in
// pattern: the row range of the grid is divided into contiguous, disjoint
// ranges, one goroutine processes each range, and the caller blocks until
// every goroutine has finished.
package partition

import (
	"sync"

	"watercoherer/internal/models"
)

// Range is the half-open row interval [Start, Stop) assigned to one worker
type Range struct {
	Start int
	Stop  int
}

// Len returns the number of rows in the range
func (r Range) Len() int {
	if r.Stop < r.Start {
		return 0
	}
	return r.Stop - r.Start
}

// Empty reports whether the range holds no rows
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Rows divides [0, height) into exactly workers contiguous ranges.
//
// Each range receives height/workers rows and the first height%workers ranges
// receive one extra row, so range sizes differ by at most one. When there are
// more workers than rows the trailing ranges are empty. A worker count below
// one is treated as one.
func Rows(height, workers int) []Range {
	if workers < 1 {
		workers = 1
	}
	if height < 0 {
		height = 0
	}

	base := height / workers
	extra := height % workers

	ranges := make([]Range, workers)
	start := 0
	for i := 0; i < workers; i++ {
		size := base
		if i < extra {
			size++
		}
		ranges[i] = Range{Start: start, Stop: start + size}
		start += size
	}
	return ranges
}

// Run calls fn once per non-empty range of Rows(height, workers), each call on
// its own goroutine, and returns after all calls have completed.
func Run(height, workers int, fn func(Range)) {
	var wg sync.WaitGroup
	for _, r := range Rows(height, workers) {
		if r.Empty() {
			continue
		}
		wg.Add(1)
		go func(r Range) {
			defer wg.Done()
			fn(r)
		}(r)
	}

	// Wait for all workers to finish
	wg.Wait()
}

// Collector accumulates coordinates from concurrent workers into one set.
// It is the only mutable state shared between workers.
type Collector struct {
	mu  sync.Mutex
	set models.CoordinateSet
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{set: make(models.CoordinateSet)}
}

// Add inserts coordinates into the shared set under the lock
func (c *Collector) Add(coords ...models.Coordinate) {
	if len(coords) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, coord := range coords {
		c.set.Add(coord)
	}
}

// Set returns the collected coordinates. It must only be called once all
// workers have returned.
func (c *Collector) Set() models.CoordinateSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.set
}

// CollectRows scans every row of a height-row grid with the given number of
// workers. For each row, scan appends the matching coordinates to buf and
// returns it; the buffer of each worker is flushed into the shared set once
// per row.
func CollectRows(height, workers int, scan func(y int, buf []models.Coordinate) []models.Coordinate) models.CoordinateSet {
	collector := NewCollector()
	Run(height, workers, func(r Range) {
		var buf []models.Coordinate
		for y := r.Start; y < r.Stop; y++ {
			buf = scan(y, buf[:0])
			collector.Add(buf...)
		}
	})
	return collector.Set()
}
