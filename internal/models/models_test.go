package models

import (
	"errors"
	"testing"
)

func TestRasterBounds(t *testing.T) {
	r := NewRaster(3, 2, 3)

	r.SetChannel(2, 1, 2, 7)
	if got := r.AtChannel(2, 1, 2); got != 7 {
		t.Errorf("Expected 7, got %f", got)
	}

	// Out-of-grid access is ignored on write and reads as zero
	r.Set(3, 0, 9)
	r.Set(-1, 0, 9)
	r.SetChannel(0, 0, 3, 9)
	for i, v := range r.Data {
		if v != 0 && i != (1*3+2)*3+2 {
			t.Errorf("Unexpected write at %d", i)
		}
	}
	if r.At(10, 10) != 0 || r.AtChannel(0, 0, -1) != 0 {
		t.Error("Expected zero outside the grid")
	}
}

func TestLayerFromRows(t *testing.T) {
	layer, err := LayerFromRows([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if layer.Width != 2 || layer.Height != 2 || layer.At(1, 1) != 4 {
		t.Errorf("Unexpected layer %+v", layer)
	}

	if _, err := LayerFromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("Expected an error for ragged rows")
	}
}

func TestCheckShape(t *testing.T) {
	if err := CheckShape(NewLayer(4, 4), NewLayer(4, 4)); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if err := CheckShape(NewLayer(4, 4), NewLayer(3, 3)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
	if err := CheckShape(nil, NewLayer(3, 3)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch for nil layer, got %v", err)
	}
}

func TestCoordinateSetOperations(t *testing.T) {
	a := NewCoordinateSet(Coordinate{0, 0}, Coordinate{1, 0}, Coordinate{1, 0})
	b := NewCoordinateSet(Coordinate{1, 0}, Coordinate{0, 2})

	if a.Len() != 2 {
		t.Errorf("Expected duplicate insert to be ignored, got %d members", a.Len())
	}
	if u := a.Union(b); u.Len() != 3 {
		t.Errorf("Expected union of 3, got %d", u.Len())
	}
	if d := a.Difference(b); d.Len() != 1 || !d.Has(Coordinate{0, 0}) {
		t.Errorf("Unexpected difference %v", d)
	}
	if i := a.Intersection(b); i.Len() != 1 || !i.Has(Coordinate{1, 0}) {
		t.Errorf("Unexpected intersection %v", i)
	}

	var empty CoordinateSet
	if empty.Has(Coordinate{0, 0}) || empty.Len() != 0 {
		t.Error("Expected nil set to be empty")
	}

	sorted := a.Union(b).Sorted()
	expected := []Coordinate{{0, 0}, {1, 0}, {0, 2}}
	for i, c := range expected {
		if sorted[i] != c {
			t.Errorf("Sorted[%d]: expected %+v, got %+v", i, c, sorted[i])
		}
	}
}

func TestCoordinateSetRender(t *testing.T) {
	set := NewCoordinateSet(Coordinate{1, 0}, Coordinate{-1, 0}, Coordinate{2, 5})
	layer := set.Render(3, 2, 255)

	if layer.Width != 3 || layer.Height != 2 || layer.Channels != 1 {
		t.Fatalf("Unexpected layer shape %dx%dx%d", layer.Width, layer.Height, layer.Channels)
	}
	marked := 0
	for _, v := range layer.Data {
		if v == 255 {
			marked++
		}
	}
	if marked != 1 || layer.At(1, 0) != 255 {
		t.Errorf("Expected only (1,0) marked, got %v", layer.Data)
	}

	for _, tt := range []struct {
		c  Coordinate
		in bool
	}{
		{Coordinate{0, 0}, true},
		{Coordinate{2, 1}, true},
		{Coordinate{3, 1}, false},
		{Coordinate{0, 2}, false},
		{Coordinate{-1, 0}, false},
	} {
		if got := tt.c.In(3, 2); got != tt.in {
			t.Errorf("%+v.In(3, 2): expected %v, got %v", tt.c, tt.in, got)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name string
		want Method
		err  bool
	}{
		{"green-nir", GreenNir, false},
		{"NIR-SWIR", NirSwir, false},
		{" nirswir ", NirSwir, false},
		{"ndvi", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.name)
		if tt.err {
			if !errors.Is(err, ErrInvalidMethod) {
				t.Errorf("ParseMethod(%q): expected ErrInvalidMethod, got %v", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMethod(%q) = %v, %v", tt.name, got, err)
		}
	}
}

func TestMethodBands(t *testing.T) {
	a, b, err := GreenNir.Bands()
	if err != nil || a != Green || b != NearInfrared {
		t.Errorf("GreenNir.Bands() = %v, %v, %v", a, b, err)
	}
	a, b, err = NirSwir.Bands()
	if err != nil || a != NearInfrared || b != ShortwaveInfrared {
		t.Errorf("NirSwir.Bands() = %v, %v, %v", a, b, err)
	}
	if _, _, err := Method(5).Bands(); !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("Expected ErrInvalidMethod, got %v", err)
	}
}

func TestParseBand(t *testing.T) {
	for _, b := range AllBands() {
		parsed, err := ParseBand(b.String())
		if err != nil || parsed != b {
			t.Errorf("ParseBand(%q) = %v, %v", b.String(), parsed, err)
		}
	}
	if b, err := ParseBand("swir"); err != nil || b != ShortwaveInfrared {
		t.Errorf("ParseBand(swir) = %v, %v", b, err)
	}
	if _, err := ParseBand("panchromatic"); !errors.Is(err, ErrInvalidBand) {
		t.Errorf("Expected ErrInvalidBand, got %v", err)
	}
}
