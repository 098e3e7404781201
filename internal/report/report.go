// internal/report/report.go

// Package report persists benchmark reports as JSON or YAML and renders them for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/ollamabench/internal/stats"
)

// Format is the on-disk encoding of a report.
type Format int

const (
	// FormatJSON is the default encoding.
	FormatJSON Format = iota
	// FormatYAML is selected by a .yaml or .yml extension.
	FormatYAML
)

// FormatFor picks the encoding from the file extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode serializes r in the given format.
func Encode(r *stats.Report, format Format) ([]byte, error) {
	if r == nil {
		r = stats.NewReport()
	}
	switch format {
	case FormatYAML:
		return encodeYAML(r)
	default:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (*stats.Report, error) {
	if format == FormatYAML {
		return decodeYAML(data)
	}
	r := stats.NewReport()
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Write saves r to path, creating parent directories as needed.
func Write(path string, r *stats.Report) error {
	data, err := Encode(r, FormatFor(path))
	if err != nil {
		return fmt.Errorf("error encoding results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating results directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing results to file: %w", err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) (*stats.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading results file: %w", err)
	}
	r, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return r, nil
}
