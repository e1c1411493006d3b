// Package water locates water pixels under a cloud mask, splits them into
// clarity classes and compares water extents between acquisitions.
package water

import (
	"errors"

	"watercoherer/internal/models"
	"watercoherer/pkg/ndwi"
)

// Localizer finds water pixels while suppressing an externally supplied set
// of excluded pixels, usually the merged temporal cloud mask.
type Localizer struct {
	calc *ndwi.Calculator
}

// NewLocalizer creates a localizer using the calculator's method, threshold
// and reflectance floor
func NewLocalizer(calc *ndwi.Calculator) (*Localizer, error) {
	if calc == nil {
		return nil, errors.New("water localizer requires a calculator")
	}
	return &Localizer{calc: calc}, nil
}

// Localize returns the water coordinates of the layer pair. Pixels in
// excluded are skipped entirely: they count neither as valid nor as water.
// A nil excluded set applies no mask.
func (l *Localizer) Localize(layerA, layerB *models.Raster, workers int, excluded models.CoordinateSet) models.CoordinateSet {
	return l.calc.LocalizeExcluding(layerA, layerB, workers, excluded)
}
