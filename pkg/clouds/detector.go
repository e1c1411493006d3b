// Package clouds flags cloud-obscured pixels and merges cloud detections
// from several acquisitions into one temporal mask.
package clouds

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"watercoherer/internal/models"
	"watercoherer/pkg/partition"
)

// Detector thresholds the brightness of a single band
type Detector struct {
	threshold float64
}

// NewDetector creates a detector flagging samples strictly above threshold.
// Conventionally the blue or red band is scanned with a threshold of 120 on
// 8-bit samples.
func NewDetector(threshold float64) (*Detector, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("cloud threshold must be finite, got %v", threshold)
	}
	return &Detector{threshold: threshold}, nil
}

// Threshold returns the brightness threshold
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Detect returns the coordinates of every pixel brighter than the threshold,
// scanning the layer's rows with up to workers goroutines.
func (d *Detector) Detect(layer *models.Raster, workers int) models.CoordinateSet {
	width := layer.Width
	return partition.CollectRows(layer.Height, workers, func(y int, buf []models.Coordinate) []models.Coordinate {
		for x := 0; x < width; x++ {
			if layer.At(x, y) > d.threshold {
				buf = append(buf, models.Coordinate{X: x, Y: y})
			}
		}
		return buf
	})
}

// Merge unions the cloud detections of all scenes into one mask. Applying the
// merged mask to every scene keeps water extents comparable across dates.
func Merge(layers models.CloudMaskLayers) models.CoordinateSet {
	result := make(models.CoordinateSet)
	for label, set := range layers {
		logrus.WithFields(logrus.Fields{
			"scene":  label,
			"pixels": set.Len(),
		}).Debug("clouds: merging scene mask")
		result.AddAll(set)
	}
	return result
}

// Render draws a cloud set as a single-band layer with 255 at cloud pixels.
// Coordinates outside the grid are ignored.
func Render(set models.CoordinateSet, width, height int) *models.Raster {
	return set.Render(width, height, 255)
}

// Coverage returns the fraction of the grid covered by the set
func Coverage(set models.CoordinateSet, width, height int) float64 {
	total := width * height
	if total <= 0 {
		return 0
	}
	inside := 0
	for c := range set {
		if c.In(width, height) {
			inside++
		}
	}
	return float64(inside) / float64(total)
}
