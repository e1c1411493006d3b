package models

import (
	"sort"
)

// Coordinate is a pixel position inside a raster grid
type Coordinate struct {
	X, Y int
}

// In reports whether the coordinate lies inside a width x height grid
func (c Coordinate) In(width, height int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < width && c.Y < height
}

// CoordinateSet is an unordered set of pixel positions.
// Callers must not depend on iteration order; use Sorted for a stable listing.
type CoordinateSet map[Coordinate]struct{}

// CloudMaskLayers maps a scene label to the cloud pixels detected in it
type CloudMaskLayers map[string]CoordinateSet

// NewCoordinateSet creates a set holding the given coordinates
func NewCoordinateSet(coords ...Coordinate) CoordinateSet {
	s := make(CoordinateSet, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts a coordinate into the set
func (s CoordinateSet) Add(c Coordinate) {
	s[c] = struct{}{}
}

// Has reports whether the coordinate is a member. A nil set has no members.
func (s CoordinateSet) Has(c Coordinate) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of members
func (s CoordinateSet) Len() int {
	return len(s)
}

// AddAll inserts every member of other into s
func (s CoordinateSet) AddAll(other CoordinateSet) {
	for c := range other {
		s[c] = struct{}{}
	}
}

// Union returns a new set with the members of both sets
func (s CoordinateSet) Union(other CoordinateSet) CoordinateSet {
	result := make(CoordinateSet, len(s)+len(other))
	result.AddAll(s)
	result.AddAll(other)
	return result
}

// Difference returns the members of s that are not in other
func (s CoordinateSet) Difference(other CoordinateSet) CoordinateSet {
	result := make(CoordinateSet)
	for c := range s {
		if !other.Has(c) {
			result[c] = struct{}{}
		}
	}
	return result
}

// Intersection returns the members present in both sets
func (s CoordinateSet) Intersection(other CoordinateSet) CoordinateSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	result := make(CoordinateSet)
	for c := range small {
		if large.Has(c) {
			result[c] = struct{}{}
		}
	}
	return result
}

// Render draws the set as a single-band layer holding value at each member.
// Members outside the grid are ignored.
func (s CoordinateSet) Render(width, height int, value float64) *Raster {
	layer := NewLayer(width, height)
	for c := range s {
		layer.Set(c.X, c.Y, value)
	}
	return layer
}

// Sorted lists the members in row-major order (by Y, then X)
func (s CoordinateSet) Sorted() []Coordinate {
	coords := make([]Coordinate, 0, len(s))
	for c := range s {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
	return coords
}
