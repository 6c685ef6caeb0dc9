// Package synth constructs synthetic handwritten-document images together
// with their pixel-aligned binary ground-truth masks. All randomness for a
// document flows from the request seed through a generator owned by that
// one call, so output is reproducible and Create is safe to run from many
// workers at once.
package synth

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"

	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"

	"github.com/DanielSaunders/SyntheticDocuments/internal/params"
)

// pcgSalt separates the two PCG stream words so a seed of 0 still yields a
// usable generator state.
const pcgSalt = 0xD1B54A32D192ED03

type Config struct {
	PageWidth  int
	PageHeight int
	PageMargin int
	FontSize   float64
}

func (cfg *Config) applyDefaults() {
	if cfg.PageWidth == 0 {
		cfg.PageWidth = 960
	}
	if cfg.PageHeight == 0 {
		cfg.PageHeight = 1280
	}
	if cfg.PageMargin == 0 {
		cfg.PageMargin = 72
	}
	if cfg.FontSize == 0 {
		cfg.FontSize = 34
	}
}

// Synthesizer builds documents for one page geometry. The parsed font is
// immutable; each Create opens its own face, so a single Synthesizer may be
// shared across workers.
type Synthesizer struct {
	cfg Config
	fnt *opentype.Font
}

func New(cfg Config) (*Synthesizer, error) {
	cfg.applyDefaults()

	if cfg.PageWidth < 1 || cfg.PageHeight < 1 {
		return nil, fmt.Errorf("page dimensions %dx%d are not positive", cfg.PageWidth, cfg.PageHeight)
	}
	if cfg.PageMargin < 0 {
		return nil, fmt.Errorf("page margin %d is negative", cfg.PageMargin)
	}
	if cfg.FontSize <= 0 {
		return nil, fmt.Errorf("font size %v is not positive", cfg.FontSize)
	}

	fnt, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded font: %w", err)
	}

	return &Synthesizer{cfg: cfg, fnt: fnt}, nil
}

// Create synthesizes one document from the request. The composite and the
// mask are written in lockstep while text is stamped; stains and text noise
// afterwards touch the composite only, so the mask stays the pristine
// text-able rendering.
func (s *Synthesizer) Create(req GenerationRequest) (*Document, error) {
	if _, err := params.ValidateLevel(int(req.StainLevel)); err != nil {
		return nil, req.wrapErr(err)
	}
	if _, err := params.ValidateLevel(int(req.TextNoiseLevel)); err != nil {
		return nil, req.wrapErr(err)
	}

	doc, rng, err := s.compose(req)
	if err != nil {
		return nil, err
	}

	applyStains(doc.Composite, rng, req.StainLevel)
	applyTextNoise(doc, rng, req.TextNoiseLevel)

	return doc, nil
}

// compose runs the degradation-free stages: paper, layout, text. It returns
// the generator positioned exactly after the text stamp so Create can
// continue with the degradation stages on the same stream.
func (s *Synthesizer) compose(req GenerationRequest) (*Document, *rand.Rand, error) {
	rng := rand.New(rand.NewPCG(req.Seed, req.Seed^pcgSalt))

	bounds := image.Rect(0, 0, s.cfg.PageWidth, s.cfg.PageHeight)
	doc := &Document{
		Seed:           req.Seed,
		StainLevel:     req.StainLevel,
		TextNoiseLevel: req.TextNoiseLevel,
		Composite:      image.NewRGBA(bounds),
		Mask:           image.NewGray(bounds),
	}

	paintPaper(doc.Composite, rng)

	lines, err := s.layoutLines(rng)
	if err != nil {
		return nil, nil, req.wrapErr(err)
	}

	if err := s.renderText(doc, rng, lines); err != nil {
		return nil, nil, req.wrapErr(err)
	}
	if doc.InkPixels == 0 {
		return nil, nil, req.wrapErr(errors.New("rendering produced no text pixels"))
	}

	return doc, rng, nil
}
