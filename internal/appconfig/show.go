package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	timeout := "none"
	if d := cfg.RequestTimeout(); d > 0 {
		timeout = d.String()
	}
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = "(stderr only)"
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  URL:             %s\n", cfg.URL)
	fmt.Fprintf(out, "  Prompts:         %s\n", strings.Join(cfg.Prompts, ", "))
	fmt.Fprintf(out, "  Skip Models:     %s\n", strings.Join(cfg.SkipModels, ", "))
	fmt.Fprintf(out, "  Output:          %s\n", cfg.Output)
	fmt.Fprintf(out, "  Verbose:         %v\n", cfg.Verbose)
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Progress:        %v\n", cfg.Progress)
	fmt.Fprintf(out, "  Timeout:         %s\n", timeout)
	fmt.Fprintf(out, "  Log File:        %s\n", logFile)
}
