package synth

import (
	"fmt"
	"image"

	"github.com/DanielSaunders/SyntheticDocuments/internal/params"
)

// GenerationRequest fully determines one document: the seed is the only
// source of randomness and the two levels are the only intensity inputs.
// Immutable once constructed.
type GenerationRequest struct {
	Seed           uint64
	StainLevel     params.Level
	TextNoiseLevel params.Level
}

// Document is the synthesis result for one request: the degraded composite
// page and its pristine binary ground-truth mask, always with identical
// bounds. A Document belongs exclusively to the job that created it.
type Document struct {
	Seed           uint64
	StainLevel     params.Level
	TextNoiseLevel params.Level

	// Composite is the "dirty" page: paper texture, text, stains, noise.
	Composite *image.RGBA
	// Mask marks exactly the text pixels stamped before any degradation:
	// 0xFF where ink was placed, 0x00 everywhere else.
	Mask *image.Gray
	// InkPixels counts the pixels stamped as text, which is also the count
	// of 0xFF pixels in Mask.
	InkPixels int
}

// SynthesisError reports a failed document construction. It carries the
// request fields so the failure can be reproduced offline with the same
// seed and levels.
type SynthesisError struct {
	Seed           uint64
	StainLevel     params.Level
	TextNoiseLevel params.Level
	Err            error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed (seed=%d stain=%d text_noise=%d): %v",
		e.Seed, e.StainLevel, e.TextNoiseLevel, e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

func (r GenerationRequest) wrapErr(err error) *SynthesisError {
	return &SynthesisError{
		Seed:           r.Seed,
		StainLevel:     r.StainLevel,
		TextNoiseLevel: r.TextNoiseLevel,
		Err:            err,
	}
}
