// Command syndoc generates a batch of synthetic handwritten-document
// images paired with binary ground-truth masks of the text pixels.
//
// Usage:
//
//	syndoc [flags] [output_count] [stain_level] [text_noise_level]
//
// output_count defaults to 5; both levels default to 1 and must lie in
// [1,5]. A failed job never stops its siblings, but any failure makes the
// process exit non-zero after all jobs have been attempted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/DanielSaunders/SyntheticDocuments/internal/batch"
	"github.com/DanielSaunders/SyntheticDocuments/internal/config"
	"github.com/DanielSaunders/SyntheticDocuments/internal/params"
	"github.com/DanielSaunders/SyntheticDocuments/internal/seed"
	"github.com/DanielSaunders/SyntheticDocuments/internal/storage"
	"github.com/DanielSaunders/SyntheticDocuments/internal/synth"
	"github.com/DanielSaunders/SyntheticDocuments/internal/utils/logger"
)

func main() {
	logger.Init()

	outputDir := flag.String("output_dir", "", "directory for generated images (default synthetic_<base_seed>)")
	archive := flag.Bool("archive", false, "also bundle the dataset into <output_dir>.zip")
	flag.Usage = usage
	flag.Parse()

	if err := run(*outputDir, *archive, flag.Args()); err != nil {
		if errors.Is(err, params.ErrInvalidParameter) {
			log.Error().Err(err).Msg("invalid arguments")
			flag.Usage()
			os.Exit(2)
		}
		log.Error().Err(err).Msg("generation failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage: %s [flags] [output_count] [stain_level] [text_noise_level]\n\n"+
			"  output_count      number of images to generate (default 5)\n"+
			"  stain_level       amount of noise in stains, 1-5 (default 1)\n"+
			"  text_noise_level  amount of noise in text, 1-5 (default 1)\n\nFlags:\n",
		os.Args[0])
	flag.PrintDefaults()
}

func run(outputDir string, archive bool, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	count, stainLevel, textNoiseLevel, err := parseArgs(args)
	if err != nil {
		return err
	}

	base := cfg.BaseSeed
	if base == 0 {
		if base, err = seed.NewBase(); err != nil {
			return err
		}
	}
	// the base seed plus the levels fully determine the batch
	log.Info().Uint64("base_seed", base).Msg("using base seed")

	if outputDir == "" {
		outputDir = fmt.Sprintf("synthetic_%d", base)
	}

	synthesizer, err := synth.New(synth.Config{
		PageWidth:  cfg.PageWidth,
		PageHeight: cfg.PageHeight,
		PageMargin: cfg.PageMargin,
		FontSize:   cfg.FontSize,
	})
	if err != nil {
		return fmt.Errorf("configure synthesizer: %w", err)
	}

	runner := batch.NewRunner(synthesizer, seed.NewAllocator(base), outputDir, cfg.Workers)
	res, err := runner.Run(context.Background(), count, stainLevel, textNoiseLevel)
	if err != nil {
		return err
	}

	if res.Succeeded > 0 {
		if err := storage.WriteManifest(outputDir, res.Manifest(base, stainLevel, textNoiseLevel)); err != nil {
			log.Warn().Err(err).Msg("could not write manifest")
		}
		if archive {
			if err := storage.Archive(outputDir, outputDir+".zip"); err != nil {
				return err
			}
			log.Info().Str("archive", outputDir+".zip").Msg("dataset archived")
		}
	}

	return res.Err()
}

func parseArgs(args []string) (count, stainLevel, textNoiseLevel int, err error) {
	count, stainLevel, textNoiseLevel = 5, 1, 1

	if len(args) > 3 {
		return 0, 0, 0, fmt.Errorf("%w: expected at most 3 positional arguments, got %d",
			params.ErrInvalidParameter, len(args))
	}

	dst := []*int{&count, &stainLevel, &textNoiseLevel}
	names := []string{"output_count", "stain_level", "text_noise_level"}
	for i, arg := range args {
		v, convErr := strconv.Atoi(arg)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %s %q is not an integer", params.ErrInvalidParameter, names[i], arg)
		}
		*dst[i] = v
	}

	if _, err = params.ValidateCount(count); err != nil {
		return 0, 0, 0, err
	}
	if _, err = params.ValidateLevel(stainLevel); err != nil {
		return 0, 0, 0, err
	}
	if _, err = params.ValidateLevel(textNoiseLevel); err != nil {
		return 0, 0, 0, err
	}
	return count, stainLevel, textNoiseLevel, nil
}
