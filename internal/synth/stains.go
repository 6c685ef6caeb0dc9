package synth

import (
	"image"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/DanielSaunders/SyntheticDocuments/internal/params"
)

const wobbleSectors = 16

// stain is one irregular blotch or ring. The wobble factors perturb the
// radius per angular sector so edges look organic rather than circular.
type stain struct {
	cx, cy int
	radius float64
	ring   bool
	tint   [3]int
	wobble [wobbleSectors]float64
}

// applyStains composites level-controlled stain blotches onto the page.
// Only the composite is touched; the ground-truth mask never sees a stain.
func applyStains(img *image.RGBA, rng *rand.Rand, level params.Level) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	radii := distuv.LogNormal{
		Mu:    math.Log(level.StainScale()),
		Sigma: 0.45,
		Src:   rng,
	}

	for n := 0; n < level.StainCount(); n++ {
		st := stain{
			cx:     bounds.Min.X + rng.IntN(w),
			cy:     bounds.Min.Y + rng.IntN(h),
			radius: math.Min(math.Max(radii.Rand(), 3), float64(w)/2),
			ring:   rng.IntN(10) < 3,
			tint: [3]int{
				150 + rng.IntN(76),
				120 + rng.IntN(76),
				90 + rng.IntN(76),
			},
		}
		for i := range st.wobble {
			st.wobble[i] = 0.75 + rng.Float64()*0.5
		}
		st.draw(img)
	}
}

func (st *stain) draw(img *image.RGBA) {
	bounds := img.Bounds()
	reach := int(st.radius*1.3) + 1

	thickness := math.Max(2, st.radius*0.14)

	for y := st.cy - reach; y <= st.cy+reach; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := st.cx - reach; x <= st.cx+reach; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x - st.cx)
			dy := float64(y - st.cy)
			dist := math.Hypot(dx, dy)

			edge := st.radius * st.wobbleAt(math.Atan2(dy, dx))
			inside := dist <= edge
			if st.ring {
				inside = math.Abs(dist-edge) <= thickness
			}
			if !inside {
				continue
			}

			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(int(img.Pix[i+0]) * st.tint[0] / 255)
			img.Pix[i+1] = uint8(int(img.Pix[i+1]) * st.tint[1] / 255)
			img.Pix[i+2] = uint8(int(img.Pix[i+2]) * st.tint[2] / 255)
		}
	}
}

// wobbleAt interpolates the sector wobble factors around the stain edge.
func (st *stain) wobbleAt(angle float64) float64 {
	pos := (angle + math.Pi) / (2 * math.Pi) * wobbleSectors
	i := int(pos) % wobbleSectors
	j := (i + 1) % wobbleSectors
	frac := pos - math.Floor(pos)
	return st.wobble[i]*(1-frac) + st.wobble[j]*frac
}
