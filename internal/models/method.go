package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidMethod is returned for a spectral index method outside the
	// supported set. It is a configuration fault and is never defaulted.
	ErrInvalidMethod = errors.New("invalid spectral index method")

	// ErrShapeMismatch reports input layers with different dimensions
	ErrShapeMismatch = errors.New("layer shape mismatch")

	// ErrInvalidBand is returned for a band identifier outside 1..6
	ErrInvalidBand = errors.New("invalid band")
)

// Method selects the band pair and formula of the normalized difference water index
type Method int

const (
	// GreenNir computes (GREEN - NIR) / (GREEN + NIR)
	GreenNir Method = iota
	// NirSwir computes (NIR - SWIR) / (NIR + SWIR)
	NirSwir
)

// String returns the configuration name of the method
func (m Method) String() string {
	switch m {
	case GreenNir:
		return "green-nir"
	case NirSwir:
		return "nir-swir"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Valid reports whether m is one of the supported methods
func (m Method) Valid() bool {
	return m == GreenNir || m == NirSwir
}

// Bands returns the two bands the method reads, in formula order
func (m Method) Bands() (Band, Band, error) {
	switch m {
	case GreenNir:
		return Green, NearInfrared, nil
	case NirSwir:
		return NearInfrared, ShortwaveInfrared, nil
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidMethod, int(m))
	}
}

// ParseMethod converts a configuration name into a Method
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "green-nir", "greennir":
		return GreenNir, nil
	case "nir-swir", "nirswir":
		return NirSwir, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, name)
	}
}

// MarshalText implements encoding.TextMarshaler
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMethod, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
