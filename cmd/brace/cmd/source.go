package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/brace/diagnostic"
)

// readSource returns the program text from -e, a file argument, or stdin
// when the argument is "-" or missing.
func readSource(inline string, args []string, stdin io.Reader) (source, name string, err error) {
	if inline != "" {
		return inline, "<inline>", nil
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), args[0], nil
}

// sourceError decorates a diagnostic with the file name and the offending
// source line, with a caret under the reported column.
type sourceError struct {
	name   string
	source string
	err    *diagnostic.Error
}

func (e *sourceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s error: %s", e.name, e.err.Line, e.err.Column, e.err.Kind, e.err.Msg)

	lines := strings.Split(e.source, "\n")
	if e.err.Line >= 1 && e.err.Line <= len(lines) {
		line := strings.TrimRight(lines[e.err.Line-1], "\r")
		b.WriteString("\n  ")
		b.WriteString(mutedStyle.Render(line))
		b.WriteString("\n  ")
		b.WriteString(caretPadding(line, e.err.Column))
		b.WriteString(caretStyle.Render("^"))
	}
	return b.String()
}

func (e *sourceError) Unwrap() error { return e.err }

// withSource attaches source context to diagnostics and passes other errors
// through.
func withSource(name, source string, err error) error {
	var de *diagnostic.Error
	if errors.As(err, &de) {
		return &sourceError{name: name, source: source, err: de}
	}
	return err
}

// caretPadding keeps tabs so the caret lines up under tab-indented code.
func caretPadding(line string, column int) string {
	var b strings.Builder
	col := 1
	for _, r := range line {
		if col >= column {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		col++
	}
	for ; col < column; col++ {
		b.WriteByte(' ')
	}
	return b.String()
}
