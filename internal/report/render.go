package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mwiater/ollamabench/internal/stats"
)

const placeholder = "-"

// Markdown renders r as a markdown table, one row per model in report order.
func Markdown(r *stats.Report) string {
	var b strings.Builder
	b.WriteString("| Model | Status | Prompt Tokens/s | Response Tokens/s | Total Tokens/s | Avg Total Tokens | Avg Total Duration |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")

	entries := r.Entries()
	if len(entries) == 0 {
		b.WriteString("| _no models_ | | | | | | |\n")
		return b.String()
	}
	for _, e := range entries {
		model := strings.ReplaceAll(e.Model, "|", `\|`)
		if e.Status != stats.StatusMeasured {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				model, e.Status, placeholder, placeholder, placeholder, placeholder, placeholder)
			continue
		}
		s := e.Summary
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %ss |\n",
			model,
			e.Status,
			s.PromptTokensPerSecond,
			s.ResponseTokensPerSecond,
			s.TotalTokensPerSecond,
			stats.FormatFixed2(s.TotalTokens),
			stats.FormatFixed2(s.TotalDurationSeconds),
		)
	}
	return b.String()
}

// Render formats r for the terminal with glamour. style is a glamour standard style
// name ("dark", "light", "notty", ...); an empty style picks one from the terminal.
func Render(r *stats.Report, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := renderer.Render(Markdown(r))
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}
