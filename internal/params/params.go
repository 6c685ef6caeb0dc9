// Package params validates the ordinal difficulty knobs and maps them to
// concrete generation intensities.
package params

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned when a user-supplied level or count falls
// outside its allowed range. The batch never starts after one of these.
var ErrInvalidParameter = errors.New("invalid parameter")

// Level is a validated ordinal difficulty knob in [1,5]. Higher levels map
// to denser and larger artifacts; every mapping below is non-decreasing in
// the level.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 5
)

// ValidateLevel checks that v is an integer in [1,5].
func ValidateLevel(v int) (Level, error) {
	if v < int(MinLevel) || v > int(MaxLevel) {
		return 0, fmt.Errorf("%w: level %d must be between %d and %d", ErrInvalidParameter, v, MinLevel, MaxLevel)
	}
	return Level(v), nil
}

// ValidateCount checks that v is a positive document count.
func ValidateCount(v int) (int, error) {
	if v < 1 {
		return 0, fmt.Errorf("%w: output count %d must be positive", ErrInvalidParameter, v)
	}
	return v, nil
}

// StainCount is the number of stain blobs composited onto a page.
func (l Level) StainCount() int {
	return 3 * int(l)
}

// StainScale is the median stain radius in pixels.
func (l Level) StainScale() float64 {
	return 8 + 7*float64(l-1)
}

// DropoutPercent is the chance, per text pixel, that ink is faded back
// toward the paper color.
func (l Level) DropoutPercent() int {
	return [...]int{0, 2, 5, 9, 14, 20}[l]
}

// BleedPercent is the chance, per text pixel, that ink bleeds into a
// neighboring pixel.
func (l Level) BleedPercent() int {
	return [...]int{0, 3, 7, 12, 18, 25}[l]
}

// SpeckleDensity is the number of stray speckle dots per 10,000 page
// pixels.
func (l Level) SpeckleDensity() int {
	return [...]int{0, 1, 2, 4, 6, 9}[l]
}

// BlurPasses is the number of 3x3 box-blur passes applied to the composite.
func (l Level) BlurPasses() int {
	return [...]int{0, 0, 0, 1, 1, 2}[l]
}
