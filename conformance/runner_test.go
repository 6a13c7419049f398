package conformance

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const suiteDir = "../testdata/conformance"

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResultString(t *testing.T) {
	for r, want := range map[Result]string{Pass: "PASS", Fail: "FAIL", Skip: "SKIP", Error: "ERROR", Result(42): "UNKNOWN"} {
		if r.String() != want {
			t.Errorf("Result(%d).String() = %q, want %q", int(r), r.String(), want)
		}
	}
}

func TestParseFixture(t *testing.T) {
	source := "---\ndescription: demo\nsince: \">= 0.1.0\"\nnegative:\n  kind: syntax\nexpect: |\n  a;\n---\nlet = 1\n"
	meta, body, err := ParseFixture(source)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Description != "demo" || meta.Since != ">= 0.1.0" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Negative == nil || meta.Negative.Kind != "syntax" {
		t.Errorf("expected negative syntax expectation, got %+v", meta.Negative)
	}
	if meta.Expect != "a;\n" {
		t.Errorf("Expect = %q", meta.Expect)
	}
	// Six header lines and two delimiters are kept as blank lines.
	if body != strings.Repeat("\n", 8)+"let = 1\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParseFixtureWithoutFrontMatter(t *testing.T) {
	meta, body, err := ParseFixture("x = 1\n")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Description != "" || meta.Negative != nil || body != "x = 1\n" {
		t.Errorf("unexpected result %+v %q", meta, body)
	}
}

func TestParseFixtureErrors(t *testing.T) {
	for _, source := range []string{
		"---\ndescription: open\n",
		"---\nnegative: [unclosed\n---\nx\n",
	} {
		if _, _, err := ParseFixture(source); err == nil {
			t.Errorf("ParseFixture(%q): expected error", source)
		}
	}
}

func TestRunSuite(t *testing.T) {
	var out bytes.Buffer
	results, summary, err := Run(context.Background(), Config{
		Dir:             suiteDir,
		Verbose:         true,
		Parallelism:     4,
		Timeout:         5 * time.Second,
		LanguageVersion: "0.3.0",
		Out:             &out,
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, tr := range results {
		if tr.Result == Fail || tr.Result == Error {
			t.Errorf("%s %s: %s", tr.Result, tr.Path, tr.Message)
		}
	}
	if summary.Total != len(results) || summary.Total == 0 {
		t.Errorf("Total = %d, results = %d", summary.Total, len(results))
	}
	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
	if !summary.OK() {
		t.Errorf("summary not OK: %+v", summary)
	}
	if strings.Count(out.String(), "\n") != summary.Total {
		t.Errorf("expected one verbose line per fixture, got:\n%s", out.String())
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Path > results[i].Path {
			t.Errorf("results out of order: %s before %s", results[i-1].Path, results[i].Path)
		}
	}
}

func TestRunLanguageVersionGating(t *testing.T) {
	_, summary, err := Run(context.Background(), Config{
		Dir:             suiteDir,
		Filter:          "expressions",
		LanguageVersion: "0.2.0",
	})
	if err != nil {
		t.Fatal(err)
	}
	// shift.brace needs 0.3.0 and future.brace needs 1.0.0.
	if summary.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", summary.Skipped)
	}
}

func TestRunFilterAndLimit(t *testing.T) {
	results, summary, err := Run(context.Background(), Config{
		Dir:             suiteDir,
		Filter:          "errors",
		Limit:           2,
		LanguageVersion: "0.3.0",
	})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 2 || len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, tr := range results {
		if !strings.HasPrefix(tr.Path, "errors") {
			t.Errorf("unexpected fixture %s", tr.Path)
		}
	}
}

func TestRunReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "wrong_kind.brace", "---\nnegative:\n  kind: context\n---\nconst x;\n")
	writeFixture(t, dir, "parses.brace", "---\nnegative:\n  kind: syntax\n---\nx = 1\n")
	writeFixture(t, dir, "bad_expect.brace", "---\nexpect: |\n  y;\n---\nx\n")
	writeFixture(t, dir, "broken.brace", "let = 1\n")
	writeFixture(t, dir, "bad_kind.brace", "---\nnegative:\n  kind: semantic\n---\nx\n")
	writeFixture(t, dir, "bad_since.brace", "---\nsince: \"not a version\"\n---\nx\n")
	writeFixture(t, dir, "ignored.txt", "not a fixture")

	results, summary, err := Run(context.Background(), Config{Dir: dir, LanguageVersion: "0.3.0"})
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]Result{
		"bad_expect.brace": Fail,
		"bad_kind.brace":   Error,
		"bad_since.brace":  Error,
		"broken.brace":     Fail,
		"parses.brace":     Fail,
		"wrong_kind.brace": Fail,
	}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for _, tr := range results {
		if tr.Result != want[tr.Path] {
			t.Errorf("%s: got %s (%s), want %s", tr.Path, tr.Result, tr.Message, want[tr.Path])
		}
	}
	if summary.Failed != 4 || summary.Errors != 2 || summary.OK() {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestRunInvalidVersion(t *testing.T) {
	if _, _, err := Run(context.Background(), Config{Dir: suiteDir, LanguageVersion: "latest"}); err == nil {
		t.Error("expected error for invalid language version")
	}
}

func TestRunMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	if _, _, err := Run(context.Background(), Config{Dir: dir, LanguageVersion: "0.3.0"}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, summary, err := Run(ctx, Config{Dir: suiteDir, LanguageVersion: "0.3.0"})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Errors != len(results) {
		t.Errorf("expected every fixture to error after cancel, got %+v", summary)
	}
}
