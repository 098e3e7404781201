package ollamabench

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/spf13/cobra"
)

var showConfigRaw bool

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display information related to ollamabench.`,
}

// showConfigCmd prints the merged configuration (flags > config file > defaults).
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags accordingly.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if showConfigRaw {
			_, err := pp.Fprintln(cmd.OutOrStdout(), *cfg)
			return err
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), loadedConfigFile, *cfg)
		return nil
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&showConfigRaw, "raw", false, "pretty-print the raw configuration struct")
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
