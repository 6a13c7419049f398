package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/example/brace/conformance"
	"github.com/example/brace/config"
	"github.com/example/brace/logging"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	headStyle = lipgloss.NewStyle().Bold(true)
)

// errFailed is returned when the suite ran but some fixtures did not pass.
var errFailed = errors.New("conformance suite failed")

type options struct {
	configFile      string
	dir             string
	filter          string
	limit           int
	verbose         bool
	parallel        int
	timeout         config.Duration
	languageVersion string
	logLevel        string
}

func main() {
	if err := newCommand().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, failStyle.Render("error:")+" "+err.Error())
		}
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "brace-conformance",
		Short: "Run the brace parser conformance suite",
		Long: `Run every *.brace fixture under the suite directory through the parser
and report one result per fixture followed by a summary.

Flags left unset fall back to the [conformance] table of the config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", "", "config file (default: $BRACE_CONFIG or ./brace.toml)")
	f.StringVar(&opts.dir, "dir", "", "path to the fixture suite")
	f.StringVar(&opts.filter, "filter", "", "filter fixtures by path substring")
	f.IntVar(&opts.limit, "limit", 0, "maximum number of fixtures to run (0 = all)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "print each result as it completes")
	f.IntVar(&opts.parallel, "parallel", 0, "fixtures to run at once")
	f.Var(&durationFlag{&opts.timeout}, "timeout", "per-fixture timeout, e.g. 5s")
	f.StringVar(&opts.languageVersion, "language-version", "", "language version matched against since constraints")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	cfg, err := config.Resolve(opts.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Conformance.Dir = opts.dir
	}
	if flags.Changed("parallel") {
		cfg.Conformance.Parallelism = opts.parallel
	}
	if flags.Changed("timeout") {
		cfg.Conformance.Timeout = opts.timeout
	}
	if flags.Changed("language-version") {
		cfg.Conformance.LanguageVersion = opts.languageVersion
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if _, err := os.Stat(cfg.Conformance.Dir); os.IsNotExist(err) {
		return fmt.Errorf("fixture directory not found at %s", cfg.Conformance.Dir)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	results, summary, err := conformance.Run(ctx, conformance.Config{
		Dir:             cfg.Conformance.Dir,
		Filter:          opts.filter,
		Limit:           opts.limit,
		Verbose:         opts.verbose,
		Parallelism:     cfg.Conformance.Parallelism,
		Timeout:         cfg.Conformance.Timeout.Duration,
		LanguageVersion: cfg.Conformance.LanguageVersion,
		Out:             out,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	if !opts.verbose {
		for _, r := range results {
			msg := ""
			if r.Message != "" {
				msg = " " + r.Message
			}
			fmt.Fprintf(out, "%s %s%s\n", resultLabel(r.Result), r.Path, msg)
		}
	}
	printSummary(out, summary)

	if !summary.OK() {
		return errFailed
	}
	return nil
}

func resultLabel(r conformance.Result) string {
	switch r {
	case conformance.Pass:
		return passStyle.Render(r.String())
	case conformance.Skip:
		return skipStyle.Render(r.String())
	}
	return failStyle.Render(r.String())
}

func printSummary(w io.Writer, s conformance.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headStyle.Render("=== Conformance Summary ==="))
	fmt.Fprintf(w, "Total:   %d\n", s.Total)
	fmt.Fprintf(w, "Passed:  %d\n", s.Passed)
	fmt.Fprintf(w, "Failed:  %d\n", s.Failed)
	fmt.Fprintf(w, "Skipped: %d\n", s.Skipped)
	fmt.Fprintf(w, "Errors:  %d\n", s.Errors)
	if ran := s.Total - s.Skipped; ran > 0 {
		rate := fmt.Sprintf("%.1f%%", float64(s.Passed)/float64(ran)*100)
		style := passStyle
		if !s.OK() {
			style = failStyle
		}
		fmt.Fprintf(w, "Pass rate: %s (%d/%d excluding skipped)\n", style.Render(rate), s.Passed, ran)
	}
	fmt.Fprintf(w, "Elapsed: %s\n", s.Elapsed)
}

// durationFlag lets config.Duration be set from the command line.
type durationFlag struct{ d *config.Duration }

func (f *durationFlag) String() string {
	if f.d == nil {
		return ""
	}
	return f.d.Duration.String()
}

func (f *durationFlag) Set(s string) error { return f.d.UnmarshalText([]byte(s)) }

func (f *durationFlag) Type() string { return "duration" }
