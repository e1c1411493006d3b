package water

import (
	"watercoherer/internal/models"
)

// Change describes how the water extent moved between two acquisitions
type Change struct {
	// Gained holds pixels that are water only in the later acquisition
	Gained models.CoordinateSet

	// Lost holds pixels that are water only in the earlier acquisition
	Lost models.CoordinateSet

	// Stable holds pixels that are water in both
	Stable models.CoordinateSet
}

// Compare differences two water localizations. Both should have been
// produced under the same cloud mask so that cloud cover on one date does
// not show up as lost water.
func Compare(before, after models.CoordinateSet) Change {
	return Change{
		Gained: after.Difference(before),
		Lost:   before.Difference(after),
		Stable: before.Intersection(after),
	}
}

// Net returns the change in water pixel count
func (c Change) Net() int {
	return c.Gained.Len() - c.Lost.Len()
}
