package water

import (
	"watercoherer/internal/models"
)

// Output channels of the classified composite
const (
	BackgroundChannel = 0
	ClearChannel      = 1
	TurbidChannel     = 2
)

// Differencer splits one water localization into clear/deep and
// turbid/shallow water using a reference band.
type Differencer struct {
	// water is the localization being classified
	water models.CoordinateSet

	// clarity is the reference sample at or above which water counts as clear
	clarity float64
}

// NewDifferencer creates a differencer for a fixed water localization.
// The reference clarity threshold is 17 on an 8-bit near infrared band.
func NewDifferencer(water models.CoordinateSet, clarityThreshold float64) *Differencer {
	return &Differencer{water: water, clarity: clarityThreshold}
}

// Classify renders a 3-channel composite of the reference layer's dimensions.
// Every water pixel is marked with 255 in exactly one of ClearChannel or
// TurbidChannel. BackgroundChannel and all non-water pixels stay 0. Water
// coordinates outside the reference grid are ignored.
func (d *Differencer) Classify(reference *models.Raster) *models.Raster {
	result := models.NewRaster(reference.Width, reference.Height, 3)
	for c := range d.water {
		if !reference.Contains(c.X, c.Y) {
			continue
		}
		result.SetChannel(c.X, c.Y, d.channel(reference.At(c.X, c.Y)), 255)
	}
	return result
}

// Counts returns how many water pixels fall into each class
func (d *Differencer) Counts(reference *models.Raster) (clear, turbid int) {
	for c := range d.water {
		if !reference.Contains(c.X, c.Y) {
			continue
		}
		if d.channel(reference.At(c.X, c.Y)) == ClearChannel {
			clear++
		} else {
			turbid++
		}
	}
	return clear, turbid
}

func (d *Differencer) channel(sample float64) int {
	if sample >= d.clarity {
		return ClearChannel
	}
	return TurbidChannel
}
