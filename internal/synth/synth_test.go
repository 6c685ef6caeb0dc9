package synth

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/DanielSaunders/SyntheticDocuments/internal/params"
)

// testConfig keeps pages small so synthesis stays fast under `go test`.
func testConfig() Config {
	return Config{
		PageWidth:  320,
		PageHeight: 240,
		PageMargin: 24,
		FontSize:   16,
	}
}

func TestCreateDeterministic(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	req := GenerationRequest{Seed: 991133, StainLevel: 3, TextNoiseLevel: 4}

	a, err := s.Create(req)
	require.NoError(t, err)
	b, err := s.Create(req)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(a.Composite.Pix, b.Composite.Pix), "composite rasters differ between runs")
	assert.True(t, bytes.Equal(a.Mask.Pix, b.Mask.Pix), "mask rasters differ between runs")
	assert.Equal(t, a.InkPixels, b.InkPixels)
}

func TestCreateDistinctSeedsDiverge(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	a, err := s.Create(GenerationRequest{Seed: 1, StainLevel: 2, TextNoiseLevel: 2})
	require.NoError(t, err)
	b, err := s.Create(GenerationRequest{Seed: 2, StainLevel: 2, TextNoiseLevel: 2})
	require.NoError(t, err)

	assert.False(t, bytes.Equal(a.Composite.Pix, b.Composite.Pix), "different seeds should change the page")
}

func TestMaskIsBinaryAndAligned(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	doc, err := s.Create(GenerationRequest{Seed: 777, StainLevel: 5, TextNoiseLevel: 5})
	require.NoError(t, err)

	assert.Equal(t, doc.Composite.Bounds(), doc.Mask.Bounds())

	on := 0
	for _, v := range doc.Mask.Pix {
		switch v {
		case 0x00:
		case 0xFF:
			on++
		default:
			t.Fatalf("mask contains non-binary value %#x", v)
		}
	}
	assert.Equal(t, doc.InkPixels, on, "mask on-pixel count must match stamped ink pixels")
	assert.Positive(t, on)
}

// The mask must be exactly the pristine text stamp: degradation stages may
// not add or remove mask pixels, and every masked pixel must have been ink
// before any stain or noise touched the page.
func TestMaskUnaffectedByDegradation(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	req := GenerationRequest{Seed: 424242, StainLevel: 5, TextNoiseLevel: 5}

	pristine, _, err := s.compose(req)
	require.NoError(t, err)
	full, err := s.Create(req)
	require.NoError(t, err)

	require.True(t, bytes.Equal(pristine.Mask.Pix, full.Mask.Pix), "degradation changed the mask")

	bounds := pristine.Mask.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if pristine.Mask.GrayAt(x, y).Y == 0 {
				continue
			}
			i := pristine.Composite.PixOffset(x, y)
			require.Less(t, pristine.Composite.Pix[i], uint8(90),
				"masked pixel (%d,%d) was not ink-colored before degradation", x, y)
		}
	}
}

// darkBackgroundFraction measures stain coverage: the share of non-text
// pixels noticeably darker than paper.
func darkBackgroundFraction(doc *Document) float64 {
	bounds := doc.Composite.Bounds()
	dark := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if doc.Mask.GrayAt(x, y).Y != 0 {
				continue
			}
			i := doc.Composite.PixOffset(x, y)
			lum := (299*int(doc.Composite.Pix[i]) + 587*int(doc.Composite.Pix[i+1]) + 114*int(doc.Composite.Pix[i+2])) / 1000
			if lum < 215 {
				dark++
			}
		}
	}
	return float64(dark) / float64(bounds.Dx()*bounds.Dy())
}

func TestStainCoverageMonotonic(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	const seeds = 20
	coverage := func(level params.Level) float64 {
		samples := make([]float64, 0, seeds)
		for i := 0; i < seeds; i++ {
			doc, err := s.Create(GenerationRequest{
				Seed:           uint64(1000 + i),
				StainLevel:     level,
				TextNoiseLevel: 1,
			})
			require.NoError(t, err)
			samples = append(samples, darkBackgroundFraction(doc))
		}
		return stat.Mean(samples, nil)
	}

	c1 := coverage(1)
	c3 := coverage(3)
	c5 := coverage(5)

	assert.Greater(t, c3, c1, "level 3 stains should cover more than level 1")
	assert.Greater(t, c5, c3, "level 5 stains should cover more than level 3")
}

func TestCreateRejectsInvalidLevels(t *testing.T) {
	s, err := New(testConfig())
	require.NoError(t, err)

	for _, req := range []GenerationRequest{
		{Seed: 1, StainLevel: 0, TextNoiseLevel: 1},
		{Seed: 1, StainLevel: 6, TextNoiseLevel: 1},
		{Seed: 1, StainLevel: 1, TextNoiseLevel: -1},
	} {
		_, err := s.Create(req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, params.ErrInvalidParameter))
	}
}

func TestDegenerateLayoutFails(t *testing.T) {
	s, err := New(Config{PageWidth: 40, PageHeight: 40, PageMargin: 10, FontSize: 20})
	require.NoError(t, err)

	_, err = s.Create(GenerationRequest{Seed: 5150, StainLevel: 1, TextNoiseLevel: 1})
	require.Error(t, err)

	var synthErr *SynthesisError
	require.True(t, errors.As(err, &synthErr))
	assert.Equal(t, uint64(5150), synthErr.Seed, "failure must preserve the seed for reproduction")
	assert.Equal(t, params.Level(1), synthErr.StainLevel)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{PageWidth: -1, PageHeight: 100, PageMargin: 10, FontSize: 12})
	assert.Error(t, err)

	_, err = New(Config{PageWidth: 100, PageHeight: 100, PageMargin: -3, FontSize: 12})
	assert.Error(t, err)

	_, err = New(Config{PageWidth: 100, PageHeight: 100, PageMargin: 10, FontSize: -2})
	assert.Error(t, err)
}
