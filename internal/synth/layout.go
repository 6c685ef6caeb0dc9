package synth

import (
	"errors"
	"math/rand/v2"
)

// textLine is one placed line of simulated handwriting: where its baseline
// sits and where the pen starts.
type textLine struct {
	baseline int
	startX   int
}

// layoutLines places ruled baselines down the page with per-line jitter and
// occasional paragraph gaps. It fails when the configured geometry cannot
// fit a single line, which the caller reports as a degenerate configuration
// rather than silently producing an empty page.
func (s *Synthesizer) layoutLines(rng *rand.Rand) ([]textLine, error) {
	lineHeight := int(s.cfg.FontSize * 17 / 10)
	if lineHeight < 1 {
		lineHeight = 1
	}

	top := s.cfg.PageMargin + lineHeight
	bottom := s.cfg.PageHeight - s.cfg.PageMargin
	right := s.cfg.PageWidth - s.cfg.PageMargin

	if top > bottom || s.cfg.PageMargin >= right {
		return nil, errors.New("page too small to place any text line")
	}

	var lines []textLine
	for baseline := top; baseline <= bottom; baseline += lineHeight {
		// paragraph gap: skip a line now and then
		if rng.IntN(100) < 12 {
			continue
		}
		lines = append(lines, textLine{
			baseline: baseline + rng.IntN(7) - 3,
			startX:   s.cfg.PageMargin + rng.IntN(9),
		})
	}
	if len(lines) == 0 {
		// every candidate was skipped as a paragraph gap; keep one line
		lines = append(lines, textLine{baseline: top, startX: s.cfg.PageMargin})
	}

	return lines, nil
}
