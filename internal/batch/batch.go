// Package batch fans independent document-generation jobs across a fixed
// worker pool. Workers share nothing but the output directory; every job
// owns its request, its generator state and its Document.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/DanielSaunders/SyntheticDocuments/internal/params"
	"github.com/DanielSaunders/SyntheticDocuments/internal/seed"
	"github.com/DanielSaunders/SyntheticDocuments/internal/storage"
	"github.com/DanielSaunders/SyntheticDocuments/internal/synth"
)

// Synthesizer is the one operation the orchestrator needs from the
// document synthesizer.
type Synthesizer interface {
	Create(req synth.GenerationRequest) (*synth.Document, error)
}

// Outcome is the result of one job: either both artifact paths or the
// error that stopped it, always with the seed so failures reproduce.
type Outcome struct {
	Index           int
	Seed            uint64
	ImagePath       string
	GroundTruthPath string
	Err             error
}

// Result aggregates a finished batch. Sibling jobs always run to
// completion; failures are collected here instead of aborting the batch.
type Result struct {
	Requested int
	Succeeded int
	Failed    int
	Outcomes  []Outcome
}

// Err reports batch-level failure: non-nil if any job failed.
func (r *Result) Err() error {
	if r.Failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", r.Failed, r.Requested)
	}
	return nil
}

// Manifest builds the dataset manifest for the successful pairs of this
// result. Paths are stored relative to the output directory.
func (r *Result) Manifest(baseSeed uint64, stainLevel, textNoiseLevel int) *storage.Manifest {
	m := &storage.Manifest{
		BaseSeed:       baseSeed,
		StainLevel:     stainLevel,
		TextNoiseLevel: textNoiseLevel,
		Requested:      r.Requested,
		Pairs:          make([]storage.ManifestEntry, 0, r.Succeeded),
	}
	for _, out := range r.Outcomes {
		if out.Err != nil {
			continue
		}
		m.Pairs = append(m.Pairs, storage.ManifestEntry{
			Seed:        out.Seed,
			Image:       filepath.Base(out.ImagePath),
			GroundTruth: filepath.Base(out.GroundTruthPath),
		})
	}
	return m
}

type Runner struct {
	synth     Synthesizer
	alloc     *seed.Allocator
	outputDir string
	workers   int
}

func NewRunner(s Synthesizer, alloc *seed.Allocator, outputDir string, workers int) *Runner {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Runner{synth: s, alloc: alloc, outputDir: outputDir, workers: workers}
}

// Run validates the batch parameters, then executes count jobs across the
// worker pool. Validation failures return before any job is scheduled.
// Per-job failures never stop siblings; inspect Result.Err for the batch
// verdict.
func (r *Runner) Run(ctx context.Context, count, stainLevel, textNoiseLevel int) (*Result, error) {
	n, err := params.ValidateCount(count)
	if err != nil {
		return nil, err
	}
	sl, err := params.ValidateLevel(stainLevel)
	if err != nil {
		return nil, err
	}
	tl, err := params.ValidateLevel(textNoiseLevel)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("count", n).
		Int("stain_level", stainLevel).
		Int("text_noise_level", textNoiseLevel).
		Int("workers", r.workers).
		Str("output_dir", r.outputDir).
		Msg("starting batch")

	type job struct {
		index int
		req   synth.GenerationRequest
	}

	jobs := make(chan job)
	outcomes := make(chan Outcome, n)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcomes <- r.runJob(j.index, j.req)
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		j := job{
			index: i,
			req: synth.GenerationRequest{
				Seed:           r.alloc.ForIndex(i),
				StainLevel:     sl,
				TextNoiseLevel: tl,
			},
		}
		select {
		case jobs <- j:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	res := &Result{Requested: n}
	for out := range outcomes {
		res.Outcomes = append(res.Outcomes, out)
		if out.Err != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}
	sort.Slice(res.Outcomes, func(i, j int) bool {
		return res.Outcomes[i].Index < res.Outcomes[j].Index
	})

	if err := ctx.Err(); err != nil {
		return res, err
	}

	log.Info().
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Msg("batch finished")
	return res, nil
}

func (r *Runner) runJob(index int, req synth.GenerationRequest) Outcome {
	out := Outcome{Index: index, Seed: req.Seed}

	doc, err := r.synth.Create(req)
	if err != nil {
		log.Error().Err(err).
			Int("index", index).
			Uint64("seed", req.Seed).
			Int("stain_level", int(req.StainLevel)).
			Int("text_noise_level", int(req.TextNoiseLevel)).
			Msg("document synthesis failed")
		out.Err = err
		return out
	}

	imgPath, err := storage.Save(doc, r.outputDir)
	if err != nil {
		log.Error().Err(err).Int("index", index).Uint64("seed", req.Seed).Msg("failed to persist image")
		out.Err = err
		return out
	}

	gtPath, err := storage.SaveGroundTruth(doc, r.outputDir)
	if err != nil {
		log.Error().Err(err).Int("index", index).Uint64("seed", req.Seed).Msg("failed to persist ground truth")
		// do not leave an image without its mask
		if rmErr := os.Remove(imgPath); rmErr != nil {
			log.Warn().Err(rmErr).Str("path", imgPath).Msg("could not remove orphaned image")
		}
		out.Err = err
		return out
	}

	out.ImagePath = imgPath
	out.GroundTruthPath = gtPath
	log.Info().Int("index", index).Uint64("seed", req.Seed).Msg("document generated")
	return out
}
