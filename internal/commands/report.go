package ollamabench

import (
	"fmt"

	"github.com/mwiater/ollamabench/internal/report"
	"github.com/spf13/cobra"
)

type reportShowOptions struct {
	style    string
	width    int
	markdown bool
}

var reportShowOpts reportShowOptions

// reportCmd groups commands that work with saved benchmark results.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Group commands for saved benchmark results",
}

// reportShowCmd renders a saved JSON or YAML results file as a table.
var reportShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Render a saved benchmark results file as a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := report.Read(args[0])
		if err != nil {
			return err
		}

		if reportShowOpts.markdown {
			fmt.Fprint(cmd.OutOrStdout(), report.Markdown(results))
			return nil
		}
		rendered, err := report.Render(results, reportShowOpts.style, reportShowOpts.width)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	reportShowCmd.Flags().StringVar(&reportShowOpts.style, "style", "", "glamour style (dark, light, notty, ...); empty picks one for the terminal")
	reportShowCmd.Flags().IntVar(&reportShowOpts.width, "width", 120, "word wrap width")
	reportShowCmd.Flags().BoolVar(&reportShowOpts.markdown, "markdown", false, "print the markdown table without rendering")
	reportCmd.AddCommand(reportShowCmd)
	rootCmd.AddCommand(reportCmd)
}
