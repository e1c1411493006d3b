package clouds

import (
	"math"
	"testing"

	"watercoherer/internal/models"
)

func TestDetect(t *testing.T) {
	layer, err := models.LayerFromRows([][]float64{
		{0, 121, 120, 255},
		{119, 130, 10, 0},
		{200, 0, 0, 0},
	})
	if err != nil {
		t.Fatalf("Failed to build layer: %v", err)
	}

	detector, err := NewDetector(120)
	if err != nil {
		t.Fatalf("Failed to create detector: %v", err)
	}

	expected := models.NewCoordinateSet(
		models.Coordinate{X: 1, Y: 0},
		models.Coordinate{X: 3, Y: 0},
		models.Coordinate{X: 1, Y: 1},
		models.Coordinate{X: 0, Y: 2},
	)

	for workers := 1; workers <= 5; workers++ {
		got := detector.Detect(layer, workers)
		if got.Len() != expected.Len() {
			t.Errorf("workers=%d: expected %d cloud pixels, got %d", workers, expected.Len(), got.Len())
		}
		for c := range expected {
			if !got.Has(c) {
				t.Errorf("workers=%d: missing cloud pixel %+v", workers, c)
			}
		}
	}
}

func TestNewDetectorRejectsNaN(t *testing.T) {
	if _, err := NewDetector(math.NaN()); err == nil {
		t.Error("Expected an error for a NaN threshold")
	}
}

// TestMergeDisjointScenes merges two disjoint 2-pixel detections
func TestMergeDisjointScenes(t *testing.T) {
	layers := models.CloudMaskLayers{
		"2009-09-21": models.NewCoordinateSet(models.Coordinate{X: 0, Y: 0}, models.Coordinate{X: 1, Y: 0}),
		"2009-10-07": models.NewCoordinateSet(models.Coordinate{X: 2, Y: 2}, models.Coordinate{X: 3, Y: 3}),
	}

	merged := Merge(layers)
	if merged.Len() != 4 {
		t.Errorf("Expected 4 merged cloud pixels, got %d", merged.Len())
	}
}

func TestMergeOverlappingScenes(t *testing.T) {
	shared := models.Coordinate{X: 5, Y: 5}
	layers := models.CloudMaskLayers{
		"a": models.NewCoordinateSet(shared, models.Coordinate{X: 1, Y: 1}),
		"b": models.NewCoordinateSet(shared),
	}

	if merged := Merge(layers); merged.Len() != 2 {
		t.Errorf("Expected 2 merged cloud pixels, got %d", merged.Len())
	}
	if merged := Merge(nil); merged.Len() != 0 {
		t.Errorf("Expected empty merge of no scenes, got %d", merged.Len())
	}
}

func TestRenderAndCoverage(t *testing.T) {
	set := models.NewCoordinateSet(
		models.Coordinate{X: 0, Y: 0},
		models.Coordinate{X: 1, Y: 1},
		models.Coordinate{X: 10, Y: 10},
	)

	layer := Render(set, 2, 2)
	if layer.At(0, 0) != 255 || layer.At(1, 1) != 255 {
		t.Error("Expected cloud pixels to be 255")
	}
	if layer.At(1, 0) != 0 || layer.At(0, 1) != 0 {
		t.Error("Expected clear pixels to be 0")
	}

	if got := Coverage(set, 2, 2); got != 0.5 {
		t.Errorf("Expected coverage 0.5, got %f", got)
	}
	if got := Coverage(set, 0, 0); got != 0 {
		t.Errorf("Expected coverage 0 on empty grid, got %f", got)
	}
}
