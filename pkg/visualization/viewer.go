// Package visualization renders rasters and coordinate sets as images and
// writes them as TIFF files.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"

	"watercoherer/internal/models"
)

// ToImage converts a raster to an image. Single-channel rasters become
// image.Gray; three-channel composites become image.RGBA with channel 0 as
// red, 1 as green and 2 as blue. Samples are clamped to 0..255 and NaN is
// written as 0.
func ToImage(r *models.Raster) (image.Image, error) {
	rect := image.Rect(0, 0, r.Width, r.Height)

	switch r.Channels {
	case 1:
		img := image.NewGray(rect)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				img.SetGray(x, y, color.Gray{Y: clamp(r.At(x, y))})
			}
		}
		return img, nil

	case 3:
		img := image.NewRGBA(rect)
		for y := 0; y < r.Height; y++ {
			for x := 0; x < r.Width; x++ {
				img.SetRGBA(x, y, color.RGBA{
					R: clamp(r.AtChannel(x, y, 0)),
					G: clamp(r.AtChannel(x, y, 1)),
					B: clamp(r.AtChannel(x, y, 2)),
					A: 255,
				})
			}
		}
		return img, nil

	default:
		return nil, fmt.Errorf("cannot render raster with %d channels (must be 1 or 3)", r.Channels)
	}
}

// IndexToImage maps a continuous index layer in [-1, 1] onto 0..255.
// No-data (NaN) pixels are written as 0.
func IndexToImage(r *models.Raster) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			v := r.At(x, y)
			if math.IsNaN(v) {
				continue
			}
			img.SetGray(x, y, color.Gray{Y: clamp((v + 1) * 127.5)})
		}
	}
	return img
}

// Overlay draws a coordinate set as a single-band layer with 255 at each member
func Overlay(set models.CoordinateSet, width, height int) *models.Raster {
	return set.Render(width, height, 255)
}

// SaveImage writes an image as a deflate-compressed TIFF file, creating the
// parent directory if needed
func SaveImage(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	return file.Close()
}

// SaveTIFF renders a raster with ToImage and writes it with SaveImage
func SaveTIFF(r *models.Raster, filename string) error {
	img, err := ToImage(r)
	if err != nil {
		return err
	}
	return SaveImage(img, filename)
}

func clamp(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
