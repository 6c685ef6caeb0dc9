package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

const ManifestName = "manifest.json"

// ManifestEntry records one successfully written artifact pair.
type ManifestEntry struct {
	Seed        uint64 `json:"seed"`
	Image       string `json:"image"`
	GroundTruth string `json:"ground_truth"`
}

// Manifest describes a completed batch: the parameters that produced it and
// every pair it wrote. Together with the base seed it is enough to replay
// the batch exactly.
type Manifest struct {
	BaseSeed       uint64          `json:"base_seed"`
	StainLevel     int             `json:"stain_level"`
	TextNoiseLevel int             `json:"text_noise_level"`
	Requested      int             `json:"requested"`
	Pairs          []ManifestEntry `json:"pairs"`
}

// WriteManifest serializes the manifest into dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := sonic.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a previously written manifest from dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := &Manifest{}
	if err := sonic.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return m, nil
}
