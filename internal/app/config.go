package app

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds runtime configuration for one invocation.
type Config struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
	// Merge writes every record from every input into one CSV.
	Merge bool `mapstructure:"merge"`

	// Labels points at a YAML label dictionary merged over the built-in one.
	Labels  string `mapstructure:"labels"`
	Workers int    `mapstructure:"workers"`
	Lossy   bool   `mapstructure:"lossy"`
	BOM     bool   `mapstructure:"bom"`

	// Discovery
	Extensions []string `mapstructure:"extensions"`
	Recursive  bool     `mapstructure:"recursive"`

	// Artifacts
	Manifest bool   `mapstructure:"manifest"`
	PDF      string `mapstructure:"pdf"`
	Summary  bool   `mapstructure:"summary"`

	Verbose bool `mapstructure:"verbose"`
	LogJSON bool `mapstructure:"log_json"`

	// ConfigFile is the settings file that was read, if any.
	ConfigFile string `mapstructure:"-"`
}

// DefaultMergedName is the merged CSV written next to the input when -m is
// given without -o.
const DefaultMergedName = "merged_output.csv"

var defaultExtensions = []string{".rtf", ".htm", ".html"}

// ValidateConfig rejects configurations that cannot run and normalizes the
// extension list to lowercase with a leading dot.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil")
	}
	cfg.Input = strings.TrimSpace(cfg.Input)
	cfg.Output = strings.TrimSpace(cfg.Output)
	if cfg.Input == "" {
		return errors.New("config: input path is required")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", cfg.Workers)
	}
	exts := make([]string, 0, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	if len(exts) == 0 {
		return errors.New("config: at least one input extension is required")
	}
	cfg.Extensions = exts
	return nil
}
