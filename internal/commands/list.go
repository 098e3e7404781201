package ollamabench

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/ollama"
	"github.com/spf13/cobra"
)

var describeModels = func(ctx context.Context, cfg appconfig.Config) ([]string, error) {
	client, err := ollama.New(cfg)
	if err != nil {
		return nil, err
	}
	return client.DescribeModels(ctx)
}

// listCmd represents the 'list' command group.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources",
	Long:  `The 'list' command groups subcommands that list models and commands.`,
}

// listModelsCmd implements 'list models', which enumerates all models on the
// configured server and indicates which models are currently loaded.
var listModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List all models on the Ollama server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		lines, err := describeModels(commandContext(cmd), *cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Models on %s:\n", cfg.URL)
		if len(lines) == 0 {
			fmt.Fprintln(out, "  (none)")
			return nil
		}
		for _, line := range lines {
			fmt.Fprintf(out, "  %s\n", line)
		}
		return nil
	},
}

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands in a hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runListCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(listModelsCmd)
	listCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(listCmd)
}

// commandInfo holds the path and description of a command for display.
type commandInfo struct {
	path        string
	description string
}

func runListCommands(out io.Writer, root *cobra.Command) {
	commandData := collectCommandData(root, "", "")

	maxPathLength := 0
	for _, data := range commandData {
		if len(data.path) > maxPathLength {
			maxPathLength = len(data.path)
		}
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, data := range commandData {
		if strings.Contains(data.path, "completion") || strings.Contains(data.path, "help") {
			continue
		}
		fmt.Fprintf(out, "  %s%s%s\n", data.path, strings.Repeat(" ", maxPathLength-len(data.path)+2), data.description)
	}
}

// collectCommandData walks the command tree and returns a flattened slice of
// path/description pairs.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []commandInfo {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	allData := []commandInfo{{path: indent + fullPath, description: cmd.Short}}
	for _, subCmd := range cmd.Commands() {
		allData = append(allData, collectCommandData(subCmd, fullPath, indent+"  ")...)
	}
	return allData
}
