// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litharvest/internal/harvest"
)

// Manifest is the on-disk record of one invocation: which providers ran,
// over which window, and how every keyword fared.
type Manifest struct {
	GeneratedAt time.Time     `yaml:"generated_at"`
	Runs        []ManifestRun `yaml:"runs"`
}

// ManifestRun describes one provider run.
type ManifestRun struct {
	RunID    string            `yaml:"run_id"`
	Provider string            `yaml:"provider"`
	Window   ManifestWindow    `yaml:"window"`
	Output   string            `yaml:"output,omitempty"`
	Keywords []ManifestKeyword `yaml:"keywords"`
	Summary  ManifestSummary   `yaml:"summary"`
}

// ManifestWindow stores the date window as YYYY-MM-DD strings.
type ManifestWindow struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// ManifestKeyword is the outcome of one keyword.
type ManifestKeyword struct {
	Keyword    string `yaml:"keyword"`
	Records    int    `yaml:"records"`
	Error      string `yaml:"error,omitempty"`
	DurationMS int64  `yaml:"duration_ms"`
}

// ManifestSummary stores run totals.
type ManifestSummary struct {
	Keywords  int `yaml:"keywords"`
	Succeeded int `yaml:"succeeded"`
	Failed    int `yaml:"failed"`
	Records   int `yaml:"records"`
}

// NewManifestRun builds the manifest entry for res. outputPath is the file
// written for the run, empty when none was.
func NewManifestRun(res harvest.Result, outputPath string) ManifestRun {
	run := ManifestRun{
		RunID:    res.RunID,
		Provider: res.Provider,
		Window:   ManifestWindow{Start: res.Window.StartISO(), End: res.Window.EndISO()},
		Output:   outputPath,
		Keywords: make([]ManifestKeyword, 0, len(res.Outcomes)),
	}
	for _, o := range res.Outcomes {
		k := ManifestKeyword{
			Keyword:    o.Keyword,
			Records:    o.Count,
			DurationMS: o.Duration.Milliseconds(),
		}
		if o.Err != nil {
			k.Error = o.Err.Error()
		}
		run.Keywords = append(run.Keywords, k)
	}
	failed := len(res.Failed())
	run.Summary = ManifestSummary{
		Keywords:  len(res.Outcomes),
		Succeeded: len(res.Outcomes) - failed,
		Failed:    failed,
		Records:   len(res.Records),
	}
	return run
}

// WriteManifest saves m to path as YAML.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest loads a previously written manifest from disk.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
