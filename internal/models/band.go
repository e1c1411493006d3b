package models

import (
	"fmt"
	"strings"
)

// Band identifies one spectral channel of a scene.
// The numeric values follow the digit used in band file names.
type Band int

const (
	Red Band = iota + 1
	Green
	Blue
	NearInfrared
	ShortwaveInfrared
	Thermal
)

var bandNames = map[Band]string{
	Red:               "red",
	Green:             "green",
	Blue:              "blue",
	NearInfrared:      "near infrared",
	ShortwaveInfrared: "shortwave infrared",
	Thermal:           "thermal",
}

// AllBands lists the bands a scene can hold
func AllBands() []Band {
	return []Band{Red, Green, Blue, NearInfrared, ShortwaveInfrared, Thermal}
}

func (b Band) String() string {
	if name, ok := bandNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Band(%d)", int(b))
}

// Valid reports whether b is one of the six known bands
func (b Band) Valid() bool {
	_, ok := bandNames[b]
	return ok
}

// ParseBand accepts a band name ("near infrared", "nir", "swir", ...)
func ParseBand(name string) (Band, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	case "near infrared", "nir":
		return NearInfrared, nil
	case "shortwave infrared", "swir":
		return ShortwaveInfrared, nil
	case "thermal":
		return Thermal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidBand, name)
	}
}

// MarshalText implements encoding.TextMarshaler
func (b Band) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBand, int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Band) UnmarshalText(text []byte) error {
	parsed, err := ParseBand(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
