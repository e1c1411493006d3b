package visualization

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"

	"watercoherer/internal/models"
)

// TestToImageGray verifies single-band rasters become clamped gray images
func TestToImageGray(t *testing.T) {
	layer, _ := models.LayerFromRows([][]float64{{-4, 0, 17.4}, {255, 300, math.NaN()}})

	img, err := ToImage(layer)
	if err != nil {
		t.Fatalf("Failed to render layer: %v", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("Expected *image.Gray, got %T", img)
	}

	expected := [][]uint8{{0, 0, 17}, {255, 255, 0}}
	for y, row := range expected {
		for x, want := range row {
			if got := gray.GrayAt(x, y).Y; got != want {
				t.Errorf("(%d,%d): expected %d, got %d", x, y, want, got)
			}
		}
	}
}

// TestToImageComposite maps composite channels to RGB
func TestToImageComposite(t *testing.T) {
	composite := models.NewRaster(2, 1, 3)
	composite.SetChannel(0, 0, 1, 255)
	composite.SetChannel(1, 0, 2, 255)

	img, err := ToImage(composite)
	if err != nil {
		t.Fatalf("Failed to render composite: %v", err)
	}
	rgba := img.(*image.RGBA)

	if c := rgba.RGBAAt(0, 0); c.R != 0 || c.G != 255 || c.B != 0 {
		t.Errorf("Expected green pixel, got %+v", c)
	}
	if c := rgba.RGBAAt(1, 0); c.R != 0 || c.G != 0 || c.B != 255 {
		t.Errorf("Expected blue pixel, got %+v", c)
	}
}

func TestToImageRejectsChannelCount(t *testing.T) {
	if _, err := ToImage(models.NewRaster(2, 2, 2)); err == nil {
		t.Error("Expected an error for a 2-channel raster")
	}
}

func TestIndexToImage(t *testing.T) {
	layer, _ := models.LayerFromRows([][]float64{{-1, 1, math.NaN()}})
	img := IndexToImage(layer)

	if got := img.GrayAt(0, 0).Y; got != 0 {
		t.Errorf("Expected 0 for index -1, got %d", got)
	}
	if got := img.GrayAt(1, 0).Y; got != 255 {
		t.Errorf("Expected 255 for index 1, got %d", got)
	}
	if got := img.GrayAt(2, 0).Y; got != 0 {
		t.Errorf("Expected 0 for no-data, got %d", got)
	}
}

func TestOverlay(t *testing.T) {
	set := models.NewCoordinateSet(models.Coordinate{X: 1, Y: 1}, models.Coordinate{X: 7, Y: 7})
	layer := Overlay(set, 3, 3)

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			want := 0.0
			if x == 1 && y == 1 {
				want = 255
			}
			if got := layer.At(x, y); got != want {
				t.Errorf("(%d,%d): expected %f, got %f", x, y, want, got)
			}
		}
	}
}

// TestSaveTIFF writes a layer and decodes it back
func TestSaveTIFF(t *testing.T) {
	layer := models.NewLayer(4, 3)
	layer.Set(2, 1, 255)
	filename := filepath.Join(t.TempDir(), "out", "ndwi.tiff")

	if err := SaveTIFF(layer, filename); err != nil {
		t.Fatalf("Failed to save TIFF: %v", err)
	}

	file, err := os.Open(filename)
	if err != nil {
		t.Fatalf("Failed to open TIFF: %v", err)
	}
	defer file.Close()

	img, err := tiff.Decode(file)
	if err != nil {
		t.Fatalf("Failed to decode TIFF: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("Expected 4x3 image, got %dx%d", b.Dx(), b.Dy())
	}
	r, _, _, _ := img.At(2, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("Expected water pixel to be 255, got %d", r>>8)
	}
	r, _, _, _ = img.At(0, 0).RGBA()
	if r != 0 {
		t.Errorf("Expected background pixel to be 0, got %d", r>>8)
	}
}
