package ollama

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	modelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	loadedModelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// DescribeModels returns one styled line per available model, labeling the ones
// currently loaded in memory.
func (c *Client) DescribeModels(ctx context.Context) ([]string, error) {
	running, err := c.RunningModels(ctx)
	if err != nil {
		return nil, err
	}
	names, err := c.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := running[name]; ok {
			lines = append(lines, loadedModelStyle.Render(fmt.Sprintf("- %s (CURRENTLY LOADED)", name)))
		} else {
			lines = append(lines, modelStyle.Render(fmt.Sprintf("- %s", name)))
		}
	}
	return lines, nil
}
