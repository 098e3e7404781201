// internal/appconfig/appconfig.go
// Package appconfig defines the benchmark configuration and its defaults.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// DefaultURL is the address of a local Ollama server.
	DefaultURL = "http://localhost:11434"
	// DefaultOutputPath is where the report is written when no output is configured.
	DefaultOutputPath = "benchmark_results.json"
	// DefaultPrompt is used when neither flags nor the config file list any prompts.
	DefaultPrompt = "Why is the sky blue?"
)

// Config represents the merged benchmark configuration (flags > config file > defaults).
type Config struct {
	URL            string   `json:"url" mapstructure:"url"`
	Prompts        []string `json:"prompts" mapstructure:"prompts"`
	SkipModels     []string `json:"skipModels" mapstructure:"skipModels"`
	Output         string   `json:"output" mapstructure:"output"`
	Verbose        bool     `json:"verbose" mapstructure:"verbose"`
	Debug          bool     `json:"debug" mapstructure:"debug"`
	TimeoutSeconds int      `json:"timeout,omitempty" mapstructure:"timeout"`
	LogFile        string   `json:"logFile,omitempty" mapstructure:"logFile"`
	Progress       bool     `json:"progress" mapstructure:"progress"`
	ConfigPath     string   `json:"-" mapstructure:"-"`
}

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	return Config{
		URL:      DefaultURL,
		Prompts:  []string{DefaultPrompt},
		Output:   DefaultOutputPath,
		Progress: true,
	}
}

// ApplyDefaults fills in empty fields that must never be empty.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.URL) == "" {
		c.URL = DefaultURL
	}
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if len(c.Prompts) == 0 {
		c.Prompts = []string{DefaultPrompt}
	}
	if strings.TrimSpace(c.Output) == "" {
		c.Output = DefaultOutputPath
	}
	if c.TimeoutSeconds < 0 {
		c.TimeoutSeconds = 0
	}
}

// RequestTimeout returns the per-request HTTP timeout. Zero means no timeout.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IsSkipped reports whether model is on the skip list.
func (c Config) IsSkipped(model string) bool {
	for _, s := range c.SkipModels {
		if s == model {
			return true
		}
	}
	return false
}

const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "url":        { "type": "string", "minLength": 1 },
    "prompts":    { "type": "array", "items": { "type": "string" } },
    "skipModels": { "type": "array", "items": { "type": "string" } },
    "output":     { "type": "string", "minLength": 1 },
    "verbose":    { "type": "boolean" },
    "debug":      { "type": "boolean" },
    "timeout":    { "type": "integer", "minimum": 0 },
    "logFile":    { "type": "string" },
    "progress":   { "type": "boolean" }
  }
}`

// ValidateFile checks that path is readable and, for JSON files, that it matches the
// config schema. Other formats are left to the loader.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(configSchema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%s failed validation: %s", path, strings.Join(details, "; "))
}
