// Package ndwi computes the normalized difference water index over pairs of
// co-registered band layers.
//
// Two formulas are supported:
//
//	NDWI = (Xgreen - Xnir) / (Xgreen + Xnir)   GreenNir
//	NDWI = (Xnir - Xswir) / (Xnir + Xswir)     NirSwir
//
// A pixel is valid only when both samples strictly exceed the reflectance
// floor. Valid pixels whose index reaches the threshold are water.
package ndwi

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"watercoherer/internal/models"
	"watercoherer/pkg/partition"
)

// WaterValue is the sample written for water pixels in binary rasters
const WaterValue = 255

// Calculator holds the classification parameters of one index computation.
// It carries no state between calls and is safe for concurrent use.
type Calculator struct {
	// method selects the formula and band pair
	method models.Method

	// threshold is the minimum index value classified as water
	threshold float64

	// floor is the reflectance floor; samples at or below it are no-data
	floor float64
}

// NewCalculator creates a calculator for the given method.
//
// Parameters:
//   - method: GreenNir or NirSwir; any other value is a configuration fault
//   - threshold: index value at or above which a pixel is water
//   - floor: reflectance floor on the raw sample scale, must be non-negative
//
// Returns:
//   - A Calculator, or an error wrapping models.ErrInvalidMethod for an
//     unknown method
func NewCalculator(method models.Method, threshold, floor float64) (*Calculator, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %d", models.ErrInvalidMethod, int(method))
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("threshold must be finite, got %v", threshold)
	}
	if math.IsNaN(floor) || floor < 0 {
		return nil, fmt.Errorf("reflectance floor must be non-negative, got %v", floor)
	}
	return &Calculator{method: method, threshold: threshold, floor: floor}, nil
}

// Method returns the configured formula
func (c *Calculator) Method() models.Method { return c.method }

// Threshold returns the water classification threshold
func (c *Calculator) Threshold() float64 { return c.threshold }

// Floor returns the reflectance floor
func (c *Calculator) Floor() float64 { return c.floor }

// Index computes the normalized difference of two samples.
// The second result is false when either sample is at or below the floor.
func (c *Calculator) Index(a, b float64) (float64, bool) {
	if !(a > c.floor && b > c.floor) {
		return 0, false
	}
	sum := a + b
	if sum == 0 {
		return 0, false
	}
	return (a - b) / sum, true
}

// Classify reports whether the pixel with samples a and b is water
func (c *Calculator) Classify(a, b float64) bool {
	index, ok := c.Index(a, b)
	return ok && index >= c.threshold
}

// ComputeRaster renders the water classification of two layers as a binary
// layer: WaterValue for water, 0 for land and no-data. This is the
// single-threaded reference path.
//
// The result has layerA's dimensions. When the layers differ in shape the
// result is all zero; no error is raised.
func (c *Calculator) ComputeRaster(layerA, layerB *models.Raster) *models.Raster {
	result := models.NewLayer(layerA.Width, layerA.Height)
	if err := models.CheckShape(layerA, layerB); err != nil {
		logrus.WithError(err).Warn("ndwi: returning empty raster")
		return result
	}

	c.fillRows(result, layerA, layerB, partition.Range{Start: 0, Stop: layerA.Height})
	return result
}

// ComputeRasterParallel produces the same raster as ComputeRaster using up to
// workers goroutines. Each worker writes only the rows of its own range, so
// no locking is needed on the output.
func (c *Calculator) ComputeRasterParallel(layerA, layerB *models.Raster, workers int) *models.Raster {
	result := models.NewLayer(layerA.Width, layerA.Height)
	if err := models.CheckShape(layerA, layerB); err != nil {
		logrus.WithError(err).Warn("ndwi: returning empty raster")
		return result
	}

	partition.Run(layerA.Height, workers, func(r partition.Range) {
		c.fillRows(result, layerA, layerB, r)
	})
	return result
}

// fillRows classifies the rows of r into dst
func (c *Calculator) fillRows(dst, layerA, layerB *models.Raster, r partition.Range) {
	width := layerA.Width
	for y := r.Start; y < r.Stop; y++ {
		for x := 0; x < width; x++ {
			if c.Classify(layerA.At(x, y), layerB.At(x, y)) {
				dst.Set(x, y, WaterValue)
			}
		}
	}
}

// Localize returns the coordinates of every water pixel of the two layers.
// A shape mismatch yields an empty set.
func (c *Calculator) Localize(layerA, layerB *models.Raster, workers int) models.CoordinateSet {
	return c.LocalizeExcluding(layerA, layerB, workers, nil)
}

// LocalizeExcluding is Localize with an exclusion set: a pixel in excluded is
// skipped before evaluation and never reaches the result.
func (c *Calculator) LocalizeExcluding(layerA, layerB *models.Raster, workers int, excluded models.CoordinateSet) models.CoordinateSet {
	if err := models.CheckShape(layerA, layerB); err != nil {
		logrus.WithError(err).Warn("ndwi: returning empty localization")
		return make(models.CoordinateSet)
	}

	width := layerA.Width
	return partition.CollectRows(layerA.Height, workers, func(y int, buf []models.Coordinate) []models.Coordinate {
		for x := 0; x < width; x++ {
			coord := models.Coordinate{X: x, Y: y}
			if excluded.Has(coord) {
				continue
			}
			if c.Classify(layerA.At(x, y), layerB.At(x, y)) {
				buf = append(buf, coord)
			}
		}
		return buf
	})
}

// IndexLayer returns the continuous index value of every pixel, with NaN for
// no-data pixels. A shape mismatch yields a layer of layerA's dimensions
// filled with NaN.
func (c *Calculator) IndexLayer(layerA, layerB *models.Raster, workers int) *models.Raster {
	result := models.NewLayer(layerA.Width, layerA.Height)
	if err := models.CheckShape(layerA, layerB); err != nil {
		logrus.WithError(err).Warn("ndwi: returning no-data index layer")
		for i := range result.Data {
			result.Data[i] = math.NaN()
		}
		return result
	}

	width := layerA.Width
	partition.Run(layerA.Height, workers, func(r partition.Range) {
		for y := r.Start; y < r.Stop; y++ {
			for x := 0; x < width; x++ {
				index, ok := c.Index(layerA.At(x, y), layerB.At(x, y))
				if !ok {
					index = math.NaN()
				}
				result.Set(x, y, index)
			}
		}
	})
	return result
}
