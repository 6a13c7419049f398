package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/brace/diagnostic"
)

func TestRunParseSource(t *testing.T) {
	var out bytes.Buffer
	opts := renderOptions{Format: "source", Indent: "  "}
	if err := runParse(&out, "let x = 1+2*3\nif (x) { print(x) }", opts); err != nil {
		t.Fatal(err)
	}
	expected := "let x = 1 + 2 * 3;\nif x {\n  print(x);\n}\n"
	if out.String() != expected {
		t.Errorf("expected %q, got %q", expected, out.String())
	}
}

func TestRunParseJSON(t *testing.T) {
	var out bytes.Buffer
	if err := runParse(&out, "add(5, 6)", renderOptions{Format: "json"}); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if decoded["type"] != "Program" {
		t.Errorf("expected a Program, got %v", decoded["type"])
	}
	body, _ := decoded["body"].([]any)
	if len(body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(body))
	}
	if !strings.Contains(out.String(), `"callee"`) {
		t.Errorf("expected a callee field:\n%s", out.String())
	}
}

func TestRunParseYAML(t *testing.T) {
	var out bytes.Buffer
	if err := runParse(&out, "let x = 1", renderOptions{Format: "yaml"}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"type: Program", "type: VariableDeclaration", "identifier: x"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("yaml output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunParseKeepComments(t *testing.T) {
	var plain, kept bytes.Buffer
	src := "/* note */ a"
	if err := runParse(&plain, src, renderOptions{Format: "json"}); err != nil {
		t.Fatal(err)
	}
	if err := runParse(&kept, src, renderOptions{Format: "json", KeepComments: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), `"Comment"`) {
		t.Errorf("comments should be dropped by default:\n%s", plain.String())
	}
	if !strings.Contains(kept.String(), `"Comment"`) {
		t.Errorf("expected a Comment node:\n%s", kept.String())
	}
}

func TestRunParseErrors(t *testing.T) {
	var out bytes.Buffer
	err := runParse(&out, "a", renderOptions{Format: "xml"})
	if err == nil || !strings.Contains(err.Error(), `unknown format "xml"`) {
		t.Errorf("expected unknown format error, got %v", err)
	}

	err = runParse(&out, "let = 1", renderOptions{Format: "source"})
	if kind, ok := diagnostic.KindOf(err); !ok || kind != diagnostic.Syntax {
		t.Errorf("expected a syntax diagnostic, got %v", err)
	}
}

func TestRunTokens(t *testing.T) {
	var out bytes.Buffer
	if err := runTokens(&out, "let x = 10;"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines (5 tokens and EOF), got %d:\n%s", len(lines), out.String())
	}
	checks := []struct {
		line int
		want []string
	}{
		{0, []string{"1:1", "let", `"let"`}},
		{1, []string{"1:5", "IDENTIFIER", `"x"`}},
		{3, []string{"1:9", "NUMBER", `"10"`}},
		{5, []string{"EOF"}},
	}
	for _, c := range checks {
		for _, w := range c.want {
			if !strings.Contains(lines[c.line], w) {
				t.Errorf("line %d: expected %q in %q", c.line, w, lines[c.line])
			}
		}
	}

	if err := runTokens(&out, `"open`); err == nil {
		t.Error("expected a lexical error")
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"a + b", false},
		{"func f() {", true},
		{"func f() {\n  return 1\n}", false},
		{"let xs = [1, 2", true},
		{"print(", true},
		{`let s = "abc`, true},
		{`"a" + "b`, true},
		{"/* note", true},
		{"/* note */", false},
		{"/* { */", false},
		{"}", false},
		{"let x = @", false},
	}
	for _, tt := range tests {
		if got := incomplete(tt.input); got != tt.expected {
			t.Errorf("incomplete(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestReadSource(t *testing.T) {
	src, name, err := readSource("1 + 2", []string{"ignored.brace"}, nil)
	if err != nil || src != "1 + 2" || name != "<inline>" {
		t.Errorf("inline: got %q %q %v", src, name, err)
	}

	src, name, err = readSource("", nil, strings.NewReader("from stdin"))
	if err != nil || src != "from stdin" || name != "<stdin>" {
		t.Errorf("stdin: got %q %q %v", src, name, err)
	}

	src, name, err = readSource("", []string{"-"}, strings.NewReader("dash"))
	if err != nil || src != "dash" || name != "<stdin>" {
		t.Errorf("dash: got %q %q %v", src, name, err)
	}

	path := filepath.Join(t.TempDir(), "prog.brace")
	if err := os.WriteFile(path, []byte("let x = 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, name, err = readSource("", []string{path}, nil)
	if err != nil || src != "let x = 1" || name != path {
		t.Errorf("file: got %q %q %v", src, name, err)
	}

	if _, _, err := readSource("", []string{filepath.Join(t.TempDir(), "missing")}, nil); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSourceError(t *testing.T) {
	source := "let a = 1\nlet = 2"
	err := withSource("prog.brace", source, runParse(&bytes.Buffer{}, source, renderOptions{}))
	if err == nil {
		t.Fatal("expected an error")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "prog.brace:2:5: syntax error: ") {
		t.Errorf("unexpected header: %q", msg)
	}
	lines := strings.Split(msg, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, source line and caret, got %q", msg)
	}
	if !strings.Contains(lines[1], "let = 2") {
		t.Errorf("expected the offending line, got %q", lines[1])
	}
	if strings.Index(lines[2], "^") != 6 {
		t.Errorf("expected the caret under column 5, got %q", lines[2])
	}

	var de *diagnostic.Error
	if !errors.As(err, &de) || de.Line != 2 {
		t.Errorf("expected the diagnostic to unwrap, got %v", err)
	}
}

func TestWithSourcePassThrough(t *testing.T) {
	if withSource("x", "", nil) != nil {
		t.Error("nil should stay nil")
	}
	plain := fmt.Errorf("disk on fire")
	if withSource("x", "", plain) != plain {
		t.Error("non-diagnostic errors should pass through")
	}
}

func TestCaretPadding(t *testing.T) {
	tests := []struct {
		line     string
		column   int
		expected string
	}{
		{"abc", 1, ""},
		{"abc", 3, "  "},
		{"\tx = 1", 4, "\t  "},
		{"ab", 5, "    "},
	}
	for _, tt := range tests {
		if got := caretPadding(tt.line, tt.column); got != tt.expected {
			t.Errorf("caretPadding(%q, %d) = %q, want %q", tt.line, tt.column, got, tt.expected)
		}
	}
}

func TestReplEval(t *testing.T) {
	var out, errOut bytes.Buffer
	s := &replState{format: "source"}

	if s.eval(&out, &errOut, "1+2") {
		t.Fatal("expression should not quit")
	}
	if out.String() != "1 + 2;\n" {
		t.Errorf("expected rendered expression, got %q", out.String())
	}

	out.Reset()
	s.eval(&out, &errOut, ":tokens")
	if !s.showTokens || !strings.Contains(out.String(), "token stream") {
		t.Errorf("expected tokens on, got %q", out.String())
	}
	out.Reset()
	s.eval(&out, &errOut, "x")
	if !strings.Contains(out.String(), "IDENTIFIER") || !strings.HasSuffix(out.String(), "x;\n") {
		t.Errorf("expected tokens then render, got %q", out.String())
	}

	s.eval(&out, &errOut, ":json")
	if s.format != "json" {
		t.Errorf("expected json format, got %q", s.format)
	}
	s.eval(&out, &errOut, ":JSON")
	if s.format != "source" {
		t.Errorf("expected :json to toggle back, got %q", s.format)
	}

	out.Reset()
	s.eval(&out, &errOut, ":nope")
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf("got %q", out.String())
	}

	s.showTokens = false
	s.eval(&out, &errOut, "return 1")
	if !strings.Contains(errOut.String(), "<repl>:1:1: context error") {
		t.Errorf("expected a context error, got %q", errOut.String())
	}

	for _, q := range []string{":quit", ":q", " :exit "} {
		if !s.eval(&out, &errOut, q) {
			t.Errorf("%q should quit", q)
		}
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.brace")
	if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, "a", func(source string) { changes <- source })
	}()

	// Keep writing until the watcher is registered and reports a change.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	n := 0
	var got string
loop:
	for {
		select {
		case got = <-changes:
			break loop
		case err := <-done:
			t.Skipf("watcher unavailable: %v", err)
		case <-tick.C:
			n++
			_ = os.WriteFile(path, []byte(fmt.Sprintf("b%d", n)), 0o644)
			_ = os.WriteFile(filepath.Join(dir, "other.brace"), []byte("ignored"), 0o644)
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
	if !strings.HasPrefix(got, "b") {
		t.Errorf("expected new contents, got %q", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("BRACE_CONFIG", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"brace v" + Version, "Language:   0.3.0", "Go Version:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %q in:\n%s", want, out.String())
		}
	}
}

func TestParseCommand(t *testing.T) {
	t.Setenv("BRACE_CONFIG", "")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"parse", "-e", "a.b(1)*2", "--format", "source"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		parseInline, parseFormat = "", ""
	}()
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "a.b(1) * 2;\n" {
		t.Errorf("got %q", out.String())
	}
}
