package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/brace/config"
	"github.com/example/brace/logging"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string

	cfg    = config.Default()
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "brace",
	Short: "Front end for the brace scripting language",
	Long: `brace tokenizes and parses programs written in the brace scripting
language and prints them back as source, JSON or YAML.

Commands:
  parse    - parse a program and print it
  tokens   - print the token stream
  repl     - parse interactively
  watch    - re-parse a file whenever it changes
  version  - print version information`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $BRACE_CONFIG or ./brace.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
}

// setup loads the configuration and builds the logger before any command
// runs. Flags override the file.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
	}
	if logFormat != "" {
		loaded.Log.Format = logFormat
	}

	l, err := logging.New(os.Stderr, loaded.Log.Level, loaded.Log.Format)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = l
	slog.SetDefault(logger)
	logger.Debug("configuration loaded", "file", cfgFile, "output", cfg.Render.Output)
	return nil
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error:")+" "+err.Error())
}
