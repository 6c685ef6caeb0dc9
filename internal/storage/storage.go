// Package storage persists the artifact pair for each document: the
// composite page image and its ground-truth mask, related by a shared
// filename stem derived from the document seed. Seeds are unique within a
// batch, so concurrent workers write without coordination.
package storage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/DanielSaunders/SyntheticDocuments/internal/synth"
)

// PersistenceError reports a filesystem write failure with enough context
// to tie it back to the job that hit it.
type PersistenceError struct {
	Seed uint64
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s for seed %d at %s: %v", e.Op, e.Seed, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ImageName is the filename of the composite image for a seed.
func ImageName(seed uint64) string {
	return fmt.Sprintf("doc_%d.png", seed)
}

// GroundTruthName is the filename of the mask for a seed. It shares the
// stem of ImageName so pairs can be matched programmatically.
func GroundTruthName(seed uint64) string {
	return fmt.Sprintf("doc_%d_gt.png", seed)
}

// Save writes the composite raster under baseDir, creating the directory
// if absent, and returns the written path.
func Save(doc *synth.Document, baseDir string) (string, error) {
	path := filepath.Join(baseDir, ImageName(doc.Seed))
	if err := writePNG(doc.Composite, path); err != nil {
		return "", &PersistenceError{Seed: doc.Seed, Path: path, Op: "image", Err: err}
	}
	return path, nil
}

// SaveGroundTruth writes the binary mask raster under baseDir. It has no
// ordering dependency on Save.
func SaveGroundTruth(doc *synth.Document, baseDir string) (string, error) {
	path := filepath.Join(baseDir, GroundTruthName(doc.Seed))
	if err := writePNG(doc.Mask, path); err != nil {
		return "", &PersistenceError{Seed: doc.Seed, Path: path, Op: "ground truth", Err: err}
	}
	return path, nil
}

// writePNG encodes to a temp file and renames it into place, so a crashed
// or failed write never leaves a truncated artifact behind.
func writePNG(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
