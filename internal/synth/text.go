package synth

import (
	"fmt"
	"image"
	"image/color"
	"math/rand/v2"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// inkThreshold is the glyph coverage above which a pixel counts as ink.
// Thresholding keeps the mask strictly binary despite anti-aliased
// rasterization.
const inkThreshold = 0x70

var letters = []rune("abcdefghijklmnopqrstuvwxyz")

// paintPaper fills the composite with an off-white paper tone carrying
// subtle per-pixel grain.
func paintPaper(img *image.RGBA, rng *rand.Rand) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			d := rng.IntN(13) - 6
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(246 + d)
			img.Pix[i+1] = uint8(242 + d)
			img.Pix[i+2] = uint8(230 + d)
			img.Pix[i+3] = 0xFF
		}
	}
}

// renderText draws pseudo-handwritten words along the placed lines into a
// coverage raster, then stamps every covered pixel into the composite and
// the mask in lockstep. After this step the mask is final.
func (s *Synthesizer) renderText(doc *Document, rng *rand.Rand, lines []textLine) error {
	face, err := opentype.NewFace(s.fnt, &opentype.FaceOptions{
		Size:    s.cfg.FontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return fmt.Errorf("open font face: %w", err)
	}
	defer face.Close()

	cover := image.NewAlpha(doc.Composite.Bounds())
	drawer := &font.Drawer{
		Dst:  cover,
		Src:  image.NewUniform(color.Opaque),
		Face: face,
	}

	right := fixed.I(s.cfg.PageWidth - s.cfg.PageMargin)
	space := font.MeasureString(face, " ")

	for _, line := range lines {
		x := fixed.I(line.startX)
		for {
			word := randomWord(rng)
			width := font.MeasureString(face, word)
			if x+width > right {
				break
			}
			drawer.Dot = fixed.Point26_6{
				X: x,
				Y: fixed.I(line.baseline + rng.IntN(5) - 2),
			}
			drawer.DrawString(word)
			x += width + space + fixed.I(rng.IntN(6))
		}
	}

	s.stamp(doc, rng, cover)
	return nil
}

// stamp writes the thresholded coverage into both rasters. This is the only
// place the mask is ever written.
func (s *Synthesizer) stamp(doc *Document, rng *rand.Rand, cover *image.Alpha) {
	bounds := cover.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if cover.AlphaAt(x, y).A < inkThreshold {
				continue
			}
			shade := uint8(rng.IntN(28))
			i := doc.Composite.PixOffset(x, y)
			doc.Composite.Pix[i+0] = 30 + shade
			doc.Composite.Pix[i+1] = 28 + shade
			doc.Composite.Pix[i+2] = 52 + shade
			doc.Composite.Pix[i+3] = 0xFF
			doc.Mask.SetGray(x, y, color.Gray{Y: 0xFF})
			doc.InkPixels++
		}
	}
}

// randomWord produces a plausible lowercase word, sometimes capitalized,
// sometimes trailed by punctuation.
func randomWord(rng *rand.Rand) string {
	var sb strings.Builder
	n := 2 + rng.IntN(8)
	for i := 0; i < n; i++ {
		r := letters[rng.IntN(len(letters))]
		if i == 0 && rng.IntN(10) == 0 {
			r = r - 'a' + 'A'
		}
		sb.WriteRune(r)
	}
	switch rng.IntN(12) {
	case 0:
		sb.WriteByte(',')
	case 1:
		sb.WriteByte('.')
	}
	return sb.String()
}
