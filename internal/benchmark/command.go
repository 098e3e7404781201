package benchmark

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/logging"
	"github.com/mwiater/ollamabench/internal/ollama"
	"github.com/mwiater/ollamabench/internal/report"
	"golang.org/x/term"
)

var (
	newGenerator = func(cfg appconfig.Config) (Generator, error) {
		client, err := ollama.New(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	writeReportFn    = report.Write
	stderrIsTerminal = func() bool { return term.IsTerminal(int(os.Stderr.Fd())) }
)

var progressOutput io.Writer = os.Stderr

// RunBenchmark is the CLI entry point: it benchmarks every model on the configured
// server and writes the report to cfg.Output.
func RunBenchmark(ctx context.Context, cfg appconfig.Config, out io.Writer) error {
	cfg.ApplyDefaults()

	client, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	runner := NewRunner(cfg, client, out)
	if cfg.Progress && !cfg.Verbose && stderrIsTerminal() {
		runner.progress = newProgressLine(progressOutput)
	}

	results, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if err := writeReportFn(cfg.Output, results); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nBenchmark results saved to %s\n", cfg.Output)
	logging.LogEvent("benchmark results saved to %s", cfg.Output)
	return nil
}
