// internal/benchmark/benchmark.go
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/logging"
	"github.com/mwiater/ollamabench/internal/stats"
	"go.uber.org/zap"
)

// ErrNoModels is returned when nothing is left to evaluate after discovery and filtering.
var ErrNoModels = errors.New("no models available for benchmarking")

var (
	resultsHeader = color.New(color.FgCyan, color.Bold)
	noDataHeader  = color.New(color.FgYellow)
	skippedHeader = color.New(color.Faint)
)

// Generator is the part of the Ollama client the benchmark needs.
type Generator interface {
	ListModels(ctx context.Context) ([]string, error)
	Generate(ctx context.Context, model, prompt string) (stats.GenerateRecord, error)
}

// Runner evaluates every discovered model against every configured prompt, one request
// at a time.
type Runner struct {
	cfg      appconfig.Config
	client   Generator
	out      io.Writer
	progress *progressLine
	runID    string
	log      *zap.Logger
}

// NewRunner builds a Runner. Console output goes to out.
func NewRunner(cfg appconfig.Config, client Generator, out io.Writer) *Runner {
	cfg.ApplyDefaults()
	runID := uuid.NewString()
	return &Runner{
		cfg:    cfg,
		client: client,
		out:    out,
		runID:  runID,
		log:    logging.L().With(zap.String("run_id", runID)),
	}
}

// RunID identifies this run in the log.
func (r *Runner) RunID() string {
	return r.runID
}

// Run discovers models, benchmarks the ones not on the skip list and returns the report.
// A failed request is logged and dropped; a model without any successful sample is
// recorded as no data. Only discovery failure and cancellation abort the run.
func (r *Runner) Run(ctx context.Context) (*stats.Report, error) {
	fmt.Fprintf(r.out, "\nVerbose: %v\nSkip models: %s\nPrompts: %s\n",
		r.cfg.Verbose, strings.Join(r.cfg.SkipModels, ", "), strings.Join(r.cfg.Prompts, ", "))

	report := stats.NewReport()
	models, err := r.discover(ctx, report)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(r.out, "Evaluating models: %s\n", strings.Join(models, ", "))
	r.log.Info("benchmark started",
		zap.Strings("models", models),
		zap.Int("prompts", len(r.cfg.Prompts)),
		zap.Strings("skipped", r.cfg.SkipModels),
	)

	r.progress.start(len(models) * len(r.cfg.Prompts))
	defer r.progress.finish()

	for _, model := range models {
		samples, err := r.collect(ctx, model)
		if err != nil {
			return nil, err
		}
		summary, ok := stats.Aggregate(samples)
		report.Record(model, summary, ok)
		r.printSummary(model, summary, ok)
	}

	for _, e := range report.Entries() {
		if e.Status == stats.StatusSkipped {
			skippedHeader.Fprintf(r.out, "\nSkipped %s\n", e.Model)
		}
	}
	return report, nil
}

// discover lists the server's models and records the skipped ones.
func (r *Runner) discover(ctx context.Context, report *stats.Report) ([]string, error) {
	available, err := r.client.ListModels(ctx)
	if err != nil {
		r.log.Error("error fetching models", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNoModels, err)
	}

	models := make([]string, 0, len(available))
	for _, name := range available {
		if r.cfg.IsSkipped(name) {
			report.Skip(name)
			r.log.Info("model skipped", zap.String("model", name))
			continue
		}
		models = append(models, name)
	}
	if len(models) == 0 {
		return nil, ErrNoModels
	}
	return models, nil
}

// collect runs every prompt against model and keeps the samples that normalize cleanly.
func (r *Runner) collect(ctx context.Context, model string) ([]stats.TimingSample, error) {
	samples := make([]stats.TimingSample, 0, len(r.cfg.Prompts))
	for _, prompt := range r.cfg.Prompts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("benchmark interrupted: %w", err)
		}

		rec, err := r.client.Generate(ctx, model, prompt)
		r.progress.step(model)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("benchmark interrupted: %w", ctxErr)
			}
			r.log.Warn("request failed", zap.String("model", model), zap.String("prompt", prompt), zap.Error(err))
			continue
		}

		if r.cfg.Verbose {
			fmt.Fprintf(r.out, "Model: %s, Prompt: %q\n", model, prompt)
			fmt.Fprintf(r.out, "Response: %s\n\n", rec.Response)
		}

		sample, err := stats.Normalize(prompt, rec)
		if err != nil {
			r.log.Warn("dropping sample", zap.String("model", model), zap.String("prompt", prompt), zap.Error(err))
			continue
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func (r *Runner) printSummary(model string, s stats.ModelSummary, ok bool) {
	if !ok {
		noDataHeader.Fprintf(r.out, "\nNo valid responses for %s\n", model)
		r.log.Warn("no valid responses", zap.String("model", model))
		return
	}

	resultsHeader.Fprintf(r.out, "\nResults for %s:\n", model)
	fmt.Fprintf(r.out, "Average Stats:\n")
	fmt.Fprintf(r.out, "    Prompt Tokens/s: %s\n", s.PromptTokensPerSecond)
	fmt.Fprintf(r.out, "    Response Tokens/s: %s\n", s.ResponseTokensPerSecond)
	fmt.Fprintf(r.out, "    Total Tokens/s: %s\n", s.TotalTokensPerSecond)
	fmt.Fprintf(r.out, "    Avg Total Tokens: %s\n", stats.FormatFixed2(s.TotalTokens))
	fmt.Fprintf(r.out, "    Avg Total Duration: %ss\n", stats.FormatFixed2(s.TotalDurationSeconds))

	r.log.Info("model evaluated",
		zap.String("model", model),
		zap.Int("samples", s.SampleCount),
		zap.Stringer("prompt_tps", s.PromptTokensPerSecond),
		zap.Stringer("response_tps", s.ResponseTokensPerSecond),
		zap.Stringer("total_tps", s.TotalTokensPerSecond),
	)
}
