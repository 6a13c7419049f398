package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/brace/ast"
	"github.com/example/brace/parser"
)

var (
	parseInline       string
	parseFormat       string
	parseKeepComments bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a program and print it as source, JSON or YAML",
	Long: `Parse a program and print the result.

The source is read from the file argument, from -e, or from stdin. The
default format comes from [render] output in the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, name, err := readSource(parseInline, args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		format := parseFormat
		if format == "" {
			format = cfg.Render.Output
		}
		opts := renderOptions{
			Format:       format,
			Indent:       cfg.Render.Indent,
			KeepComments: parseKeepComments,
		}
		return withSource(name, source, runParse(cmd.OutOrStdout(), source, opts))
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseInline, "eval", "e", "", "parse inline source instead of a file")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: source, json or yaml")
	parseCmd.Flags().BoolVar(&parseKeepComments, "keep-comments", false, "keep /* */ comments in the tree")
	rootCmd.AddCommand(parseCmd)
}

type renderOptions struct {
	Format       string
	Indent       string
	KeepComments bool
}

func runParse(w io.Writer, source string, opts renderOptions) error {
	start := time.Now()
	p := parser.New(source)
	p.KeepComments = opts.KeepComments
	program, err := p.ParseProgram()
	if err != nil {
		return err
	}
	logger.Debug("parsed program", "statements", len(program.Body), "elapsed", time.Since(start))
	return writeProgram(w, program, opts)
}

func writeProgram(w io.Writer, program *ast.Program, opts renderOptions) error {
	switch opts.Format {
	case "", "source":
		_, err := io.WriteString(w, (&ast.Printer{Indent: opts.Indent}).Print(program))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ast.Dump(program))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ast.Dump(program)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want source, json or yaml)", opts.Format)
}
