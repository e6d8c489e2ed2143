package batch

import (
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Manifest records one batch run.
type Manifest struct {
	RunID    string          `yaml:"run_id"`
	Started  time.Time       `yaml:"started"`
	Finished time.Time       `yaml:"finished"`
	Files    int             `yaml:"files"`
	Failed   int             `yaml:"failed"`
	Entries  []ManifestEntry `yaml:"entries"`
}

// ManifestEntry represents one file in the manifest.
type ManifestEntry struct {
	Path     string   `yaml:"path"`
	Size     int64    `yaml:"size"`
	Format   string   `yaml:"format,omitempty"`
	Layers   int      `yaml:"layers"`
	Points   int      `yaml:"points"`
	Polygons int      `yaml:"polygons"`
	Surfaces int      `yaml:"surfaces"`
	Clips    int      `yaml:"clips"`
	Images   []string `yaml:"images,omitempty"`
	Millis   int64    `yaml:"millis"`
	Error    string   `yaml:"error,omitempty"`
}

// NewManifest builds a manifest for results with a fresh run id.
func NewManifest(started time.Time, results []Result) *Manifest {
	m := &Manifest{
		RunID:    uuid.NewString(),
		Started:  started,
		Finished: time.Now(),
		Files:    len(results),
		Entries:  make([]ManifestEntry, len(results)),
	}
	for i, r := range results {
		e := ManifestEntry{
			Path:     r.Path,
			Size:     r.Size,
			Format:   string(r.Format),
			Layers:   r.Stats.Layers,
			Points:   r.Stats.Points,
			Polygons: r.Stats.Polygons,
			Surfaces: r.Stats.Surfaces,
			Clips:    r.Stats.Clips,
			Images:   r.Images,
			Millis:   r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
			m.Failed++
		}
		m.Entries[i] = e
	}
	return m
}

// WriteManifest writes the manifest as YAML.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
