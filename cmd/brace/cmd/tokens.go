package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/brace/lexer"
	"github.com/example/brace/token"
)

var tokensInline string

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the token stream of a program",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, name, err := readSource(tokensInline, args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return withSource(name, source, runTokens(cmd.OutOrStdout(), source))
	},
}

func init() {
	tokensCmd.Flags().StringVarP(&tokensInline, "eval", "e", "", "tokenize inline source instead of a file")
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(w io.Writer, source string) error {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return err
	}
	logger.Debug("tokenized", "tokens", len(tokens))
	writeTokens(w, tokens)
	return nil
}

func writeTokens(w io.Writer, tokens []token.Token) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tok := range tokens {
		fmt.Fprintf(tw, "%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Type, tok.Literal)
	}
	tw.Flush()
}
