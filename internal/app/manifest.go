package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ECNUser/factiva2csv/internal/pipeline"
)

// manifestEntry describes one input that contributed to a CSV.
type manifestEntry struct {
	File     string   `json:"file"`
	SHA256   string   `json:"sha256"`
	Bytes    int64    `json:"bytes"`
	Format   string   `json:"format,omitempty"`
	Encoding string   `json:"encoding,omitempty"`
	Records  int      `json:"records"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// manifest is the JSON sidecar written next to a CSV. It carries no
// timestamps so identical inputs give identical bytes.
type manifest struct {
	Tool    string          `json:"tool"`
	Version string          `json:"version"`
	Output  string          `json:"output"`
	Records int             `json:"records"`
	Inputs  []manifestEntry `json:"inputs"`
}

func buildManifest(output string, results []pipeline.FileResult) manifest {
	m := manifest{
		Tool:    "factiva2csv",
		Version: BuildVersion,
		Output:  filepath.Base(output),
		Inputs:  make([]manifestEntry, 0, len(results)),
	}
	for _, r := range results {
		e := manifestEntry{
			File:     filepath.Base(r.Path),
			SHA256:   r.Digest,
			Bytes:    r.Size,
			Encoding: r.Encoding,
			Records:  len(r.Records),
		}
		if r.Err == nil {
			e.Format = string(r.Format)
		} else {
			e.Error = r.Err.Error()
		}
		for _, w := range r.Warnings {
			e.Warnings = append(e.Warnings, w.String())
		}
		m.Records += e.Records
		m.Inputs = append(m.Inputs, e)
	}
	return m
}

func marshalManifestJSON(m manifest) ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the CSV.
func deriveManifestSidecarPath(outputPath string) string {
	return outputPath + ".manifest.json"
}

func writeManifest(output string, results []pipeline.FileResult) (string, error) {
	b, err := marshalManifestJSON(buildManifest(output, results))
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}
	path := deriveManifestSidecarPath(output)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}
