package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BRACE_CONFIG", "")
	cmd := newCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSuitePasses(t *testing.T) {
	out, err := execute(t, "--dir", "../../testdata/conformance", "--parallel", "2", "--timeout", "2s")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	for _, want := range []string{"=== Conformance Summary ===", "Failed:  0", "Errors:  0", "Pass rate:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "expressions/precedence.brace") {
		t.Errorf("expected a line per fixture:\n%s", out)
	}
}

func TestSuiteFailureReturnsErrFailed(t *testing.T) {
	dir := t.TempDir()
	src := "---\nexpect: |\n  b;\n---\na\n"
	if err := os.WriteFile(filepath.Join(dir, "wrong.brace"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--dir", dir)
	if !errors.Is(err, errFailed) {
		t.Fatalf("expected errFailed, got %v\n%s", err, out)
	}
	if !strings.Contains(out, "wrong.brace") || !strings.Contains(out, "Failed:  1") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMissingDir(t *testing.T) {
	_, err := execute(t, "--dir", filepath.Join(t.TempDir(), "nope"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestBadTimeoutFlag(t *testing.T) {
	if _, err := execute(t, "--timeout", "soon"); err == nil {
		t.Fatal("expected an error for an invalid duration")
	}
}

func TestDurationFlag(t *testing.T) {
	var opts options
	f := &durationFlag{&opts.timeout}
	if err := f.Set("150ms"); err != nil {
		t.Fatal(err)
	}
	if f.String() != "150ms" {
		t.Errorf("got %q", f.String())
	}
	if f.Type() != "duration" {
		t.Errorf("got type %q", f.Type())
	}
}
