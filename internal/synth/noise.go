package synth

import (
	"image"
	"math/rand/v2"

	"github.com/DanielSaunders/SyntheticDocuments/internal/params"
)

// neighbors is the 8-neighborhood used for ink bleed.
var neighbors = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// applyTextNoise degrades the text on the composite: ink dropout, ink
// bleed, stray speckles and optional blur passes. The mask is read to find
// text pixels but never written.
func applyTextNoise(doc *Document, rng *rand.Rand, level params.Level) {
	bounds := doc.Composite.Bounds()

	drop := level.DropoutPercent()
	bleed := level.BleedPercent()
	if drop > 0 || bleed > 0 {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				if doc.Mask.GrayAt(x, y).Y == 0 {
					continue
				}
				if drop > 0 && rng.IntN(100) < drop {
					fadePixel(doc.Composite, x, y, 60+rng.IntN(36))
				}
				if bleed > 0 && rng.IntN(100) < bleed {
					n := neighbors[rng.IntN(len(neighbors))]
					bleedPixel(doc.Composite, x+n[0], y+n[1])
				}
			}
		}
	}

	speckleCount := level.SpeckleDensity() * bounds.Dx() * bounds.Dy() / 10000
	for i := 0; i < speckleCount; i++ {
		x := bounds.Min.X + rng.IntN(bounds.Dx())
		y := bounds.Min.Y + rng.IntN(bounds.Dy())
		v := uint8(70 + rng.IntN(40))
		if rng.IntN(4) == 0 {
			v = uint8(200 + rng.IntN(30))
		}
		setPixel(doc.Composite, x, y, v)
		// a third of the specks grow into a small cross
		if rng.IntN(3) == 0 {
			setPixel(doc.Composite, x+1, y, v)
			setPixel(doc.Composite, x, y+1, v)
		}
	}

	for p := 0; p < level.BlurPasses(); p++ {
		boxBlur(doc.Composite)
	}
}

// fadePixel pulls an ink pixel back toward the paper tone by pct percent,
// simulating pen skips and faded strokes.
func fadePixel(img *image.RGBA, x, y, pct int) {
	paper := [3]int{246, 242, 230}
	i := img.PixOffset(x, y)
	for c := 0; c < 3; c++ {
		v := int(img.Pix[i+c])
		img.Pix[i+c] = uint8(v + (paper[c]-v)*pct/100)
	}
}

// bleedPixel darkens a neighbor of an ink pixel toward the ink tone.
func bleedPixel(img *image.RGBA, x, y int) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	ink := [3]int{30, 28, 52}
	i := img.PixOffset(x, y)
	for c := 0; c < 3; c++ {
		img.Pix[i+c] = uint8((int(img.Pix[i+c])*2 + ink[c]) / 3)
	}
}

func setPixel(img *image.RGBA, x, y int, v uint8) {
	if !image.Pt(x, y).In(img.Bounds()) {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i+0] = v
	img.Pix[i+1] = v
	img.Pix[i+2] = v
	img.Pix[i+3] = 0xFF
}

// boxBlur runs one 3x3 integer box-blur pass over the composite. Edge
// pixels average over their clamped window.
func boxBlur(img *image.RGBA) {
	bounds := img.Bounds()
	src := make([]uint8, len(img.Pix))
	copy(src, img.Pix)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var sum [3]int
			count := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if !image.Pt(nx, ny).In(bounds) {
						continue
					}
					j := img.PixOffset(nx, ny)
					sum[0] += int(src[j+0])
					sum[1] += int(src[j+1])
					sum[2] += int(src[j+2])
					count++
				}
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(sum[0] / count)
			img.Pix[i+1] = uint8(sum[1] / count)
			img.Pix[i+2] = uint8(sum[2] / count)
		}
	}
}
