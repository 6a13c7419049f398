// Package conformance runs the *.brace fixture suite against the parser.
//
// A fixture is a source file with an optional YAML front matter block
// delimited by "---" lines:
//
//	---
//	description: operator precedence
//	since: ">= 0.2.0"
//	negative:
//	  kind: syntax
//	expect: |
//	  1 + 2 * 3;
//	---
//	1 + 2 * 3
//
// A negative fixture passes when the parse fails with the named error kind.
// Any other fixture passes when it parses, its rendering parses back to an
// equal tree, and the rendering matches expect if one is given. expect is
// compared against a rendering indented with two spaces.
package conformance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/example/brace/ast"
	"github.com/example/brace/diagnostic"
	"github.com/example/brace/parser"
)

// Extension is the suffix of fixture files.
const Extension = ".brace"

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

type TestResult struct {
	Path    string
	Result  Result
	Message string
	Elapsed time.Duration
}

type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
	Elapsed time.Duration
}

// OK reports whether no fixture failed or errored.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Errors == 0
}

func (s *Summary) add(r Result) {
	switch r {
	case Pass:
		s.Passed++
	case Fail:
		s.Failed++
	case Skip:
		s.Skipped++
	case Error:
		s.Errors++
	}
}

type Config struct {
	Dir     string
	Filter  string
	Limit   int
	Verbose bool

	// Parallelism bounds the number of fixtures in flight. Zero or less
	// means one at a time.
	Parallelism int
	// Timeout applies to each fixture. Zero disables it.
	Timeout time.Duration
	// LanguageVersion is matched against each fixture's since constraint.
	LanguageVersion string

	// Out receives one line per fixture when Verbose is set.
	Out    io.Writer
	Logger *slog.Logger
}

// Run discovers and runs fixtures, returning results in path order and a
// summary. An error is returned only when the suite itself cannot run.
func Run(ctx context.Context, cfg Config) ([]TestResult, Summary, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	version, err := semver.NewVersion(cfg.LanguageVersion)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("invalid language version %q: %w", cfg.LanguageVersion, err)
	}

	files, err := Discover(cfg.Dir, cfg.Filter)
	if err != nil {
		return nil, Summary{}, err
	}
	if cfg.Limit > 0 && len(files) > cfg.Limit {
		files = files[:cfg.Limit]
	}

	start := time.Now()
	results := make([]TestResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := cfg.Parallelism
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, path := range files {
		g.Go(func() error {
			rel, _ := filepath.Rel(cfg.Dir, path)
			if err := gctx.Err(); err != nil {
				results[i] = TestResult{Path: rel, Result: Error, Message: err.Error()}
				return nil
			}
			results[i] = runFixture(gctx, path, rel, version, cfg.Timeout)
			logger.Debug("fixture finished",
				"path", rel,
				"result", results[i].Result.String(),
				"elapsed", results[i].Elapsed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	summary := Summary{Total: len(results)}
	for _, tr := range results {
		summary.add(tr.Result)
		if cfg.Verbose {
			msg := ""
			if tr.Message != "" {
				msg = " " + tr.Message
			}
			fmt.Fprintf(out, "%s %s%s\n", tr.Result, tr.Path, msg)
		}
	}
	summary.Elapsed = time.Since(start)

	logger.Info("conformance run complete",
		"total", summary.Total,
		"passed", summary.Passed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"errors", summary.Errors,
		"elapsed", summary.Elapsed)
	return results, summary, nil
}

// Discover lists fixture files under dir whose relative path contains
// filter, sorted by path.
func Discover(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, Extension) {
			return nil
		}
		if filter != "" {
			rel, _ := filepath.Rel(dir, path)
			if !strings.Contains(rel, filter) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan fixtures: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

type parseResult struct {
	program *ast.Program
	err     error
}

func runFixture(ctx context.Context, path, rel string, version *semver.Version, timeout time.Duration) TestResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return TestResult{Path: rel, Result: Error, Message: "read error: " + err.Error()}
	}

	meta, body, err := ParseFixture(string(source))
	if err != nil {
		return TestResult{Path: rel, Result: Error, Message: err.Error()}
	}

	if meta.Since != "" {
		constraint, err := semver.NewConstraint(meta.Since)
		if err != nil {
			return TestResult{Path: rel, Result: Error, Message: fmt.Sprintf("invalid since constraint %q: %v", meta.Since, err)}
		}
		if !constraint.Check(version) {
			return TestResult{Path: rel, Result: Skip, Message: fmt.Sprintf("requires language %s", meta.Since)}
		}
	}

	var wantKind diagnostic.Kind
	if meta.Negative != nil {
		wantKind, err = diagnostic.ParseKind(meta.Negative.Kind)
		if err != nil {
			return TestResult{Path: rel, Result: Error, Message: err.Error()}
		}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resultCh := make(chan parseResult, 1)
	go func() {
		prog, err := parser.ProduceAST(body)
		resultCh <- parseResult{program: prog, err: err}
	}()

	var res parseResult
	select {
	case res = <-resultCh:
	case <-ctx.Done():
		msg := ctx.Err().Error()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg = fmt.Sprintf("timeout (%s)", timeout)
		}
		return TestResult{Path: rel, Result: Error, Message: msg, Elapsed: time.Since(start)}
	}
	elapsed := time.Since(start)

	if meta.Negative != nil {
		if res.err == nil {
			return TestResult{
				Path:    rel,
				Result:  Fail,
				Message: fmt.Sprintf("expected %s error, parse succeeded", wantKind),
				Elapsed: elapsed,
			}
		}
		got, ok := diagnostic.KindOf(res.err)
		if !ok || got != wantKind {
			return TestResult{
				Path:    rel,
				Result:  Fail,
				Message: fmt.Sprintf("expected %s error, got: %v", wantKind, res.err),
				Elapsed: elapsed,
			}
		}
		return TestResult{Path: rel, Result: Pass, Elapsed: elapsed}
	}

	if res.err != nil {
		return TestResult{Path: rel, Result: Fail, Message: res.err.Error(), Elapsed: elapsed}
	}
	if msg := checkRoundTrip(res.program, meta.Expect); msg != "" {
		return TestResult{Path: rel, Result: Fail, Message: msg, Elapsed: elapsed}
	}
	return TestResult{Path: rel, Result: Pass, Elapsed: elapsed}
}

// checkRoundTrip returns a failure message, or "" when the program renders
// to text that parses back to the same tree and matches expect.
func checkRoundTrip(prog *ast.Program, expect string) string {
	text := ast.Render(prog)
	again, err := parser.ProduceAST(text)
	if err != nil {
		return fmt.Sprintf("rendered program does not parse: %v", err)
	}
	if !ast.Equal(prog, again) {
		return "rendered program parses to a different tree"
	}
	if expect != "" {
		got := (&ast.Printer{Indent: "  "}).Print(prog)
		if strings.TrimRight(got, "\n") != strings.TrimRight(expect, "\n") {
			return fmt.Sprintf("render mismatch: expected %q, got %q", expect, got)
		}
	}
	return ""
}
