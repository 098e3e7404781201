// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.URL != DefaultURL {
		t.Fatalf("expected default url, got %q", cfg.URL)
	}
	if len(cfg.Prompts) != 1 || cfg.Prompts[0] != "Why is the sky blue?" {
		t.Fatalf("unexpected default prompts: %v", cfg.Prompts)
	}
	if cfg.Output != "benchmark_results.json" {
		t.Fatalf("unexpected default output: %s", cfg.Output)
	}
	if !cfg.Progress {
		t.Fatalf("expected progress enabled by default")
	}
	if cfg.RequestTimeout() != 0 {
		t.Fatalf("expected no request timeout by default, got %v", cfg.RequestTimeout())
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{URL: " http://gpu-box:11434/ ", TimeoutSeconds: -5}
	cfg.ApplyDefaults()

	if cfg.URL != "http://gpu-box:11434" {
		t.Fatalf("expected trimmed url, got %q", cfg.URL)
	}
	if len(cfg.Prompts) != 1 || cfg.Prompts[0] != DefaultPrompt {
		t.Fatalf("expected default prompt, got %v", cfg.Prompts)
	}
	if cfg.Output != DefaultOutputPath {
		t.Fatalf("expected default output, got %q", cfg.Output)
	}
	if cfg.TimeoutSeconds != 0 {
		t.Fatalf("expected negative timeout clamped to 0, got %d", cfg.TimeoutSeconds)
	}

	cfg = Config{Prompts: []string{"a", "b"}, TimeoutSeconds: 30}
	cfg.ApplyDefaults()
	if len(cfg.Prompts) != 2 {
		t.Fatalf("expected configured prompts kept, got %v", cfg.Prompts)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", cfg.RequestTimeout())
	}
}

func TestIsSkipped(t *testing.T) {
	cfg := Config{SkipModels: []string{"llama3:70b", "phi3"}}
	if !cfg.IsSkipped("phi3") {
		t.Fatalf("expected phi3 skipped")
	}
	if cfg.IsSkipped("phi3:latest") {
		t.Fatalf("skip list must match exact names")
	}
}

func TestValidateFile(t *testing.T) {
	valid := writeFile(t, "config.json", `{
        "prompts": ["Why is the sky blue?", "Write a haiku"],
        "skipModels": ["llama3:70b"],
        "timeout": 120
    }`)
	if err := ValidateFile(valid); err != nil {
		t.Fatalf("ValidateFile() with valid config failed: %v", err)
	}

	wrongType := writeFile(t, "config.json", `{ "prompts": "not a list" }`)
	err := ValidateFile(wrongType)
	if err == nil || !strings.Contains(err.Error(), "failed validation") {
		t.Fatalf("expected validation error, got %v", err)
	}

	negative := writeFile(t, "config.json", `{ "timeout": -1 }`)
	if err := ValidateFile(negative); err == nil {
		t.Fatal("expected negative timeout to fail validation")
	}

	invalidJSON := writeFile(t, "config.json", `{ "prompts": [`)
	if err := ValidateFile(invalidJSON); err == nil {
		t.Fatal("ValidateFile() with invalid JSON should have failed")
	}

	yamlFile := writeFile(t, "config.yaml", "prompts:\n  - hello\n")
	if err := ValidateFile(yamlFile); err != nil {
		t.Fatalf("expected non-JSON files to pass through, got %v", err)
	}

	if err := ValidateFile(filepath.Join(t.TempDir(), "nonexistent.json")); err == nil {
		t.Fatal("ValidateFile() with nonexistent file should have failed")
	}
}

func TestShowConfig(t *testing.T) {
	cfg := Defaults()
	cfg.SkipModels = []string{"a", "b"}
	cfg.TimeoutSeconds = 45

	var buf bytes.Buffer
	ShowConfig(&buf, "config/bench.json", cfg)
	out := buf.String()

	for _, want := range []string{
		"Config file: config/bench.json",
		"URL:             http://localhost:11434",
		"Skip Models:     a, b",
		"Timeout:         45s",
		"Log File:        (stderr only)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}

	buf.Reset()
	ShowConfig(&buf, "", Defaults())
	if !strings.Contains(buf.String(), "No config file loaded") || !strings.Contains(buf.String(), "Timeout:         none") {
		t.Fatalf("unexpected output without config file:\n%s", buf.String())
	}
}
