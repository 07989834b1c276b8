package match

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the file name the batch command writes next to its plots.
const ManifestFile = "manifest.yaml"

// Plot records one rendered mirror plot.
type Plot struct {
	Feature   string `yaml:"feature"`
	Reference string `yaml:"reference"`
	Source    string `yaml:"source"`
	Image     string `yaml:"image"`
}

// Manifest lists the plots produced by a batch run.
type Manifest struct {
	Created    time.Time `yaml:"created"`
	ResultsDir string    `yaml:"resultsDir"`
	InputMGF   string    `yaml:"inputMgf"`
	Plots      []Plot    `yaml:"plots"`
}

// Add appends a plot entry.
func (m *Manifest) Add(p Plot) {
	m.Plots = append(m.Plots, p)
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return data, nil
}

// UnmarshalManifest decodes a manifest written by Marshal.
func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}
