// internal/stats/sample.go

// Package stats turns Ollama generation telemetry into per-model throughput summaries.
// Everything in this package is a pure function of its input and is safe to call
// concurrently for different models.
package stats

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrIncomplete is returned when a generation result does not report done=true.
	ErrIncomplete = errors.New("generation did not complete")
	// ErrNegativeCounter is returned when a duration or token counter is below zero.
	ErrNegativeCounter = errors.New("negative duration or token counter")
)

// GenerateRecord mirrors a non-streaming /api/generate response body.
// All durations are in nanoseconds.
type GenerateRecord struct {
	Model              string    `json:"model"`
	CreatedAt          time.Time `json:"created_at"`
	Response           string    `json:"response"`
	Done               bool      `json:"done"`
	TotalDuration      int64     `json:"total_duration"`
	LoadDuration       int64     `json:"load_duration,omitempty"`
	PromptEvalCount    int       `json:"prompt_eval_count"`
	PromptEvalDuration int64     `json:"prompt_eval_duration"`
	EvalCount          int       `json:"eval_count"`
	EvalDuration       int64     `json:"eval_duration"`
}

// TimingSample is the canonical telemetry of one completed generation request.
type TimingSample struct {
	Model              string
	Prompt             string
	CreatedAt          time.Time
	Done               bool
	TotalDuration      int64
	LoadDuration       int64
	PromptEvalCount    int
	PromptEvalDuration int64
	EvalCount          int
	EvalDuration       int64
}

// Normalize converts a raw generation record into a TimingSample.
// A missing load_duration decodes as zero. Records that did not complete or carry
// negative counters are rejected so they never reach the calculator.
func Normalize(prompt string, rec GenerateRecord) (TimingSample, error) {
	if !rec.Done {
		return TimingSample{}, fmt.Errorf("model %s: %w", rec.Model, ErrIncomplete)
	}
	if rec.TotalDuration < 0 || rec.LoadDuration < 0 || rec.PromptEvalDuration < 0 || rec.EvalDuration < 0 ||
		rec.PromptEvalCount < 0 || rec.EvalCount < 0 {
		return TimingSample{}, fmt.Errorf("model %s: %w", rec.Model, ErrNegativeCounter)
	}

	return TimingSample{
		Model:              rec.Model,
		Prompt:             prompt,
		CreatedAt:          rec.CreatedAt,
		Done:               rec.Done,
		TotalDuration:      rec.TotalDuration,
		LoadDuration:       rec.LoadDuration,
		PromptEvalCount:    rec.PromptEvalCount,
		PromptEvalDuration: rec.PromptEvalDuration,
		EvalCount:          rec.EvalCount,
		EvalDuration:       rec.EvalDuration,
	}, nil
}
