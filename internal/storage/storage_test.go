package storage

import (
	"archive/zip"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielSaunders/SyntheticDocuments/internal/synth"
)

func makeDocument(t *testing.T, seed uint64) *synth.Document {
	t.Helper()

	s, err := synth.New(synth.Config{PageWidth: 200, PageHeight: 160, PageMargin: 16, FontSize: 14})
	require.NoError(t, err)

	doc, err := s.Create(synth.GenerationRequest{Seed: seed, StainLevel: 2, TextNoiseLevel: 2})
	require.NoError(t, err)
	return doc
}

func TestSavePairSharesStem(t *testing.T) {
	dir := t.TempDir()
	doc := makeDocument(t, 314159)

	imgPath, err := Save(doc, dir)
	require.NoError(t, err)
	gtPath, err := SaveGroundTruth(doc, dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "doc_314159.png"), imgPath)
	assert.Equal(t, filepath.Join(dir, "doc_314159_gt.png"), gtPath)

	for _, p := range []string{imgPath, gtPath} {
		f, err := os.Open(p)
		require.NoError(t, err)
		decoded, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 200, 160), decoded.Bounds())
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	doc := makeDocument(t, 99)

	_, err := Save(doc, dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ImageName(99)))
	assert.NoError(t, err)
}

func TestSaveReportsPersistenceError(t *testing.T) {
	// a regular file where the output directory should be
	blocker := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	doc := makeDocument(t, 7)
	_, err := Save(doc, filepath.Join(blocker, "sub"))
	require.Error(t, err)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, uint64(7), perr.Seed)
	assert.Equal(t, "image", perr.Op)
}

func TestManifestRoundtrip(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{
		BaseSeed:       42,
		StainLevel:     2,
		TextNoiseLevel: 3,
		Requested:      2,
		Pairs: []ManifestEntry{
			{Seed: 10, Image: "doc_10.png", GroundTruth: "doc_10_gt.png"},
			{Seed: 11, Image: "doc_11.png", GroundTruth: "doc_11_gt.png"},
		},
	}

	require.NoError(t, WriteManifest(dir, m))

	got, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestArchiveContainsAllFiles(t *testing.T) {
	dir := t.TempDir()
	doc := makeDocument(t, 55)

	_, err := Save(doc, dir)
	require.NoError(t, err)
	_, err = SaveGroundTruth(doc, dir)
	require.NoError(t, err)

	zipPath := filepath.Join(t.TempDir(), "dataset.zip")
	require.NoError(t, Archive(dir, zipPath))

	zr, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names[ImageName(55)])
	assert.True(t, names[GroundTruthName(55)])
}
