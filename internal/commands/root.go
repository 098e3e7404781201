// internal/commands/root.go
package ollamabench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/benchmark"
	"github.com/mwiater/ollamabench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile          string
	loadedConfigFile string
	currentConfig    *appconfig.Config
	appVersion       = "dev"
	appCommit        = "none"
	appDate          = "unknown"
)

var runBenchmarkFn = benchmark.RunBenchmark

// flagKeys maps persistent flag names to their viper (config file) keys.
var flagKeys = map[string]string{
	"url":         "url",
	"prompts":     "prompts",
	"skip-models": "skipModels",
	"output":      "output",
	"verbose":     "verbose",
	"debug":       "debug",
	"timeout":     "timeout",
	"logFile":     "logFile",
	"progress":    "progress",
}

// rootCmd runs the benchmark when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "ollamabench",
	Short:        "ollamabench: token throughput benchmark for models served by Ollama",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ensureConfigLoaded(cmd.ErrOrStderr())

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = loadedConfigFile
		cfg.ApplyDefaults()
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFile, cfg.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := GetConfig()
		err := runBenchmarkFn(ctx, *cfg, cmd.OutOrStdout())
		if errors.Is(err, benchmark.ErrNoModels) {
			logging.LogWarn("no models to benchmark on %s: %v", cfg.URL, err)
			fmt.Fprintln(cmd.ErrOrStderr(), "No models available for benchmarking. Exiting.")
		}
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = versionString()

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	defaults := appconfig.Defaults()

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "optional config file (JSON, YAML or TOML)")
	flags.String("url", defaults.URL, "Ollama server URL")
	flags.StringArrayP("prompts", "p", nil, "prompt to benchmark with (repeatable)")
	flags.StringSliceP("skip-models", "s", nil, "model names to skip (repeatable or comma separated)")
	flags.StringP("output", "o", defaults.Output, "path to save benchmark results (.json, .yaml or .yml)")
	flags.BoolP("verbose", "v", false, "print every prompt and response")
	flags.Bool("debug", false, "enable debug logging of requests and responses")
	flags.Int("timeout", 0, "per-request timeout in seconds (0 = no timeout)")
	flags.String("logFile", "", "path to the log file")
	flags.Bool("progress", defaults.Progress, "show a progress bar when stderr is a terminal")

	for name, key := range flagKeys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

// ensureConfigLoaded reads the optional config file. An unreadable or invalid file is
// reported on warn and the run continues with flags and defaults.
func ensureConfigLoaded(warn io.Writer) {
	defaults := appconfig.Defaults()
	viper.SetDefault("url", defaults.URL)
	viper.SetDefault("prompts", defaults.Prompts)
	viper.SetDefault("skipModels", []string{})
	viper.SetDefault("output", defaults.Output)
	viper.SetDefault("verbose", false)
	viper.SetDefault("debug", false)
	viper.SetDefault("timeout", 0)
	viper.SetDefault("logFile", "")
	viper.SetDefault("progress", defaults.Progress)

	loadedConfigFile = ""
	clearFileConfig()
	if cfgFile == "" {
		return
	}

	if err := appconfig.ValidateFile(cfgFile); err != nil {
		fmt.Fprintf(warn, "Failed to load config file: %v. Using command line options.\n", err)
		return
	}
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType(configTypeFor(cfgFile))
	if err := viper.ReadInConfig(); err != nil {
		clearFileConfig()
		fmt.Fprintf(warn, "Failed to load config file: %v. Using command line options.\n", err)
		return
	}
	loadedConfigFile = cfgFile
}

// clearFileConfig drops values read from a previous config file. It leaves the config
// type set to json, so callers must set it again before reading a file.
func clearFileConfig() {
	viper.SetConfigType("json")
	_ = viper.ReadConfig(strings.NewReader("{}"))
}

// configTypeFor maps a config file name to a viper config type. Unknown extensions are
// read as json.
func configTypeFor(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		cfg := appconfig.Defaults()
		return &cfg
	}
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
	rootCmd.Version = versionString()
}
