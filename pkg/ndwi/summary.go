package ndwi

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"watercoherer/internal/models"
)

// Summary describes the index distribution of one layer pair
type Summary struct {
	// Pixels is the total number of pixels in the grid
	Pixels int

	// ValidPixels counts pixels whose samples both exceed the reflectance floor
	ValidPixels int

	// WaterPixels counts valid pixels at or above the threshold
	WaterPixels int

	// WaterFraction is WaterPixels / ValidPixels, or 0 without valid pixels
	WaterFraction float64

	// Mean, StdDev, Min, Max and Median describe the index over valid pixels
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

// Summarize computes index statistics over the valid pixels of two layers
func (c *Calculator) Summarize(layerA, layerB *models.Raster, workers int) Summary {
	return c.SummarizeIndex(c.IndexLayer(layerA, layerB, workers))
}

// SummarizeIndex computes the statistics of an index layer as produced by
// IndexLayer. NaN samples are no-data.
func (c *Calculator) SummarizeIndex(indexLayer *models.Raster) Summary {
	summary := Summary{Pixels: len(indexLayer.Data)}
	values := make([]float64, 0, len(indexLayer.Data))
	for _, v := range indexLayer.Data {
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
		if v >= c.threshold {
			summary.WaterPixels++
		}
	}

	summary.ValidPixels = len(values)
	if len(values) == 0 {
		return summary
	}

	summary.WaterFraction = float64(summary.WaterPixels) / float64(summary.ValidPixels)
	summary.Min = floats.Min(values)
	summary.Max = floats.Max(values)

	if len(values) > 1 {
		summary.Mean, summary.StdDev = stat.MeanStdDev(values, nil)
	} else {
		summary.Mean = values[0]
	}

	// Quantile requires sorted input
	sort.Float64s(values)
	summary.Median = stat.Quantile(0.5, stat.Empirical, values, nil)

	return summary
}
