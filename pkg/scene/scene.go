// Package scene loads a satellite acquisition from a directory of per-band
// TIFF files and hands individual band layers to the analytics.
package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/tiff"

	"watercoherer/internal/models"
)

// ErrBandNotLoaded is returned when a scene is asked for a band it never loaded
var ErrBandNotLoaded = errors.New("band not loaded")

// Scene is one acquisition: a set of co-registered band layers sharing one
// width and height
type Scene struct {
	// Label identifies the acquisition, usually the directory name
	Label string

	// Width and Height are shared by every band layer
	Width  int
	Height int

	layers map[models.Band]*models.Raster
}

// New creates an empty scene
func New(label string) *Scene {
	return &Scene{Label: label, layers: make(map[models.Band]*models.Raster)}
}

// AddLayer stores a band layer. The first layer fixes the scene dimensions;
// later layers must match them. When a band is added twice the first layer
// is kept and the duplicate is dropped with a warning.
func (s *Scene) AddLayer(band models.Band, layer *models.Raster) error {
	if !band.Valid() {
		return fmt.Errorf("%w: %d", models.ErrInvalidBand, int(band))
	}
	if _, ok := s.layers[band]; ok {
		logrus.WithFields(logrus.Fields{
			"scene": s.Label,
			"band":  band.String(),
		}).Warn("scene: omitted duplicate band layer")
		return nil
	}
	if len(s.layers) == 0 {
		s.Width, s.Height = layer.Width, layer.Height
	} else if layer.Width != s.Width || layer.Height != s.Height {
		return fmt.Errorf("%w: %s band is %dx%d, scene is %dx%d",
			models.ErrShapeMismatch, band, layer.Width, layer.Height, s.Width, s.Height)
	}
	s.layers[band] = layer
	return nil
}

// Layer returns the layer of a band
func (s *Scene) Layer(band models.Band) (*models.Raster, error) {
	layer, ok := s.layers[band]
	if !ok {
		return nil, fmt.Errorf("scene %s: %w: %s", s.Label, ErrBandNotLoaded, band)
	}
	return layer, nil
}

// Bands lists the loaded bands in ascending order
func (s *Scene) Bands() []models.Band {
	bands := make([]models.Band, 0, len(s.layers))
	for _, b := range models.AllBands() {
		if _, ok := s.layers[b]; ok {
			bands = append(bands, b)
		}
	}
	return bands
}

// BandFromFileName maps a band file name to its band.
//
// Band files end in ".TIF" and carry the band digit six characters from the
// end, e.g. "L71188025_02520090921_B40.TIF" is band 4. The second result is
// false for files that are not band files, for digits outside 1..6, which
// are recognised but unused, and for TIFF files without a digit at that
// offset such as quality bands ("_BQA.TIF").
func BandFromFileName(name string) (models.Band, bool, error) {
	if len(name) < 6 || !strings.EqualFold(filepath.Ext(name), ".tif") {
		return 0, false, nil
	}
	digit := name[len(name)-6]
	if digit < '0' || digit > '9' {
		return 0, false, nil
	}
	band := models.Band(digit - '0')
	if !band.Valid() {
		return band, false, nil
	}
	return band, true, nil
}

// Load reads every band file of a scene directory
func Load(dir string) (*Scene, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene directory: %w", err)
	}

	s := New(filepath.Base(filepath.Clean(dir)))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		band, ok, err := BandFromFileName(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			if strings.EqualFold(filepath.Ext(name), ".tif") {
				logrus.WithFields(logrus.Fields{
					"scene": s.Label,
					"file":  name,
					"band":  int(band),
				}).Warn("scene: omitted unused band layer")
			}
			continue
		}

		layer, err := LoadLayer(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load band %s: %w", band, err)
		}
		if err := s.AddLayer(band, layer); err != nil {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"scene":  s.Label,
			"band":   band.String(),
			"width":  layer.Width,
			"height": layer.Height,
		}).Debug("scene: loaded band layer")
	}

	if len(s.layers) == 0 {
		return nil, fmt.Errorf("no band files found in %s", dir)
	}
	return s, nil
}

// LoadLayer decodes a single-band TIFF file into a layer of 8-bit samples
func LoadLayer(path string) (*models.Raster, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := tiff.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FromImage converts an image to a layer of 8-bit gray samples
func FromImage(img image.Image) *models.Raster {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	layer := models.NewLayer(width, height)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width]
			for x, v := range row {
				layer.Data[y*width+x] = float64(v)
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
				layer.Data[y*width+x] = float64(g.Y)
			}
		}
	}
	return layer
}
