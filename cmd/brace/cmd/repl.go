package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/example/brace/diagnostic"
	"github.com/example/brace/lexer"
	"github.com/example/brace/token"
)

const (
	historyFile = ".brace_history"
	promptMain  = "brace> "
	promptCont  = "  ...> "
)

const replHelp = `Enter a program to see it parsed and rendered back.
Input continues while braces, brackets, parentheses, a string or a
comment are left open.

  :tokens  toggle printing the token stream
  :json    toggle JSON output
  :quit    leave the REPL`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse programs interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepl(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type replState struct {
	showTokens bool
	format     string
}

func runRepl(out, errOut io.Writer) error {
	fmt.Fprintln(out, mutedStyle.Render("brace "+Version+" - :help for commands, :quit to exit"))

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	state := &replState{format: "source"}
	for {
		code, ok := readUntilBalanced(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if quit := state.eval(out, errOut, code); quit {
			return nil
		}
	}
}

// eval handles one complete REPL entry and reports whether to exit.
func (s *replState) eval(out, errOut io.Writer, code string) bool {
	trimmed := strings.TrimSpace(code)
	if strings.HasPrefix(trimmed, ":") {
		switch strings.ToLower(trimmed) {
		case ":quit", ":q", ":exit":
			return true
		case ":help":
			fmt.Fprintln(out, replHelp)
		case ":tokens":
			s.showTokens = !s.showTokens
			fmt.Fprintf(out, "token stream %s\n", onOff(s.showTokens))
		case ":json":
			if s.format == "json" {
				s.format = "source"
			} else {
				s.format = "json"
			}
			fmt.Fprintf(out, "output format %s\n", s.format)
		default:
			fmt.Fprintln(out, "unknown command. Type :help for a list.")
		}
		return false
	}

	if s.showTokens {
		if err := runTokens(out, code); err != nil {
			fmt.Fprintln(errOut, withSource("<repl>", code, err).Error())
			return false
		}
	}
	opts := renderOptions{Format: s.format, Indent: cfg.Render.Indent}
	if err := runParse(out, code, opts); err != nil {
		fmt.Fprintln(errOut, withSource("<repl>", code, err).Error())
	}
	return false
}

func onOff(b bool) string {
	if b {
		return okStyle.Render("on")
	}
	return mutedStyle.Render("off")
}

// readUntilBalanced keeps prompting for continuation lines while the input
// so far is incomplete.
func readUntilBalanced(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !incomplete(src) {
			return src, true
		}
	}
}

// incomplete reports whether src ends inside an open string, comment or
// bracket pair. Anything else, including malformed input, is complete and
// left for the parser to judge.
func incomplete(src string) bool {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		var de *diagnostic.Error
		return errors.As(err, &de) && de.Kind == diagnostic.Lexical && de.Msg == lexer.UnterminatedString
	}

	depth := 0
	inComment := false
	for _, tok := range tokens {
		switch tok.Type {
		case token.OpenComment:
			inComment = true
		case token.CloseComment:
			inComment = false
		case token.OpenBrace, token.OpenBracket, token.OpenParen:
			if !inComment {
				depth++
			}
		case token.CloseBrace, token.CloseBracket, token.CloseParen:
			if !inComment {
				depth--
			}
		}
	}
	return inComment || depth > 0
}
