package models

import (
	"fmt"
)

// Raster represents a multi-channel grid of pixel samples.
// A Raster with a single channel is a band layer.
type Raster struct {
	// Data holds the samples in row-major order with channels interleaved:
	// index = (y*Width + x)*Channels + c
	Data []float64

	// Width is the number of columns in the grid
	Width int

	// Height is the number of rows in the grid
	Height int

	// Channels is the number of samples stored per pixel
	Channels int
}

// NewRaster creates a zero-filled raster of the given dimensions
func NewRaster(width, height, channels int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if channels < 1 {
		channels = 1
	}
	return &Raster{
		Data:     make([]float64, width*height*channels),
		Width:    width,
		Height:   height,
		Channels: channels,
	}
}

// NewLayer creates a zero-filled single-band raster
func NewLayer(width, height int) *Raster {
	return NewRaster(width, height, 1)
}

// LayerFromRows builds a single-band raster from a slice of rows.
// All rows must have the same length.
func LayerFromRows(rows [][]float64) (*Raster, error) {
	if len(rows) == 0 {
		return NewLayer(0, 0), nil
	}
	width := len(rows[0])
	layer := NewLayer(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d samples, expected %d", y, len(row), width)
		}
		copy(layer.Data[y*width:(y+1)*width], row)
	}
	return layer, nil
}

// Contains reports whether (x, y) lies inside the grid
func (r *Raster) Contains(x, y int) bool {
	return Coordinate{X: x, Y: y}.In(r.Width, r.Height)
}

// At returns the channel 0 sample at (x, y), or 0 outside the grid
func (r *Raster) At(x, y int) float64 {
	return r.AtChannel(x, y, 0)
}

// AtChannel returns the sample of channel c at (x, y), or 0 outside the grid
func (r *Raster) AtChannel(x, y, c int) float64 {
	if !r.Contains(x, y) || c < 0 || c >= r.Channels {
		return 0
	}
	return r.Data[(y*r.Width+x)*r.Channels+c]
}

// Set writes the channel 0 sample at (x, y). Writes outside the grid are ignored.
func (r *Raster) Set(x, y int, v float64) {
	r.SetChannel(x, y, 0, v)
}

// SetChannel writes the sample of channel c at (x, y).
// Writes outside the grid are ignored.
func (r *Raster) SetChannel(x, y, c int, v float64) {
	if !r.Contains(x, y) || c < 0 || c >= r.Channels {
		return
	}
	r.Data[(y*r.Width+x)*r.Channels+c] = v
}

// SameShape reports whether both rasters have the same width and height
func (r *Raster) SameShape(other *Raster) bool {
	if r == nil || other == nil {
		return false
	}
	return r.Width == other.Width && r.Height == other.Height
}

// CheckShape returns an error wrapping ErrShapeMismatch when the two layers
// differ in width or height.
func CheckShape(a, b *Raster) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil layer", ErrShapeMismatch)
	}
	if !a.SameShape(b) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, a.Width, a.Height, b.Width, b.Height)
	}
	return nil
}
