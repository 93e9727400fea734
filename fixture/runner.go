package fixture

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/jcore/dis"
	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/options"
	"github.com/deepnoodle-ai/jcore/session"
)

// Config holds configuration for running fixtures.
type Config struct {
	// Patterns specifies files or directories to search for fixtures.
	// Default is current directory.
	Patterns []string

	// RunPattern filters cases to run by name regex.
	RunPattern string

	// Verbose enables verbose output.
	Verbose bool

	// Logger receives session logs. Nothing is logged by default.
	Logger *zerolog.Logger
}

// DiscoverFiles finds all fixture files matching the given patterns. A
// pattern is a glob, a file, a directory, or a directory followed by ...
// to search recursively. If no patterns are provided, searches the current
// directory.
func DiscoverFiles(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if isFixtureFile(path) && !seen[path] {
			files = append(files, path)
			seen[path] = true
		}
	}

	for _, pattern := range patterns {
		if strings.Contains(pattern, "*") {
			matches, err := filepath.Glob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		recursive := false
		searchDir := pattern
		if strings.HasSuffix(pattern, "...") {
			recursive = true
			searchDir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if searchDir == "" {
				searchDir = "."
			}
		}

		info, err := os.Stat(searchDir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path not found: %s", searchDir)
			}
			return nil, err
		}
		if !info.IsDir() {
			add(pattern)
			continue
		}
		if recursive {
			err = filepath.Walk(searchDir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() {
					add(path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		entries, err := os.ReadDir(searchDir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(filepath.Join(searchDir, e.Name()))
			}
		}
	}
	return files, nil
}

func isFixtureFile(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

// Run executes fixtures according to the given configuration.
func Run(ctx context.Context, cfg *Config) (*Summary, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	files, err := DiscoverFiles(cfg.Patterns)
	if err != nil {
		return nil, err
	}

	var runRe *regexp.Regexp
	if cfg.RunPattern != "" {
		runRe, err = regexp.Compile(cfg.RunPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid run pattern: %w", err)
		}
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	summary := &Summary{}
	start := time.Now()
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary.Files = append(summary.Files, runFile(ctx, file, runRe, logger))
	}
	summary.Duration = time.Since(start)
	summary.ComputeTotals()
	return summary, nil
}

func runFile(ctx context.Context, filename string, runRe *regexp.Regexp, logger zerolog.Logger) *FileResult {
	result := &FileResult{Filename: filename}
	f, err := LoadFile(filename)
	if err != nil {
		result.LoadErr = err
		return result
	}
	for _, c := range f.Cases {
		if runRe != nil && !runRe.MatchString(c.Name) {
			continue
		}
		caseLogger := logger.With().Str("fixture", filename).Str("case", c.Name).Logger()
		result.Tests = append(result.Tests, RunCase(ctx, c, caseLogger))
	}
	return result
}

// RunCase compiles the units of a case in one session and checks the
// outcome against its expectations.
func RunCase(ctx context.Context, c *Case, logger zerolog.Logger) *TestResult {
	result := &TestResult{Name: c.Name}
	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	if c.Skip != "" {
		result.Status = StatusSkipped
		result.SkipReason = c.Skip
		return result
	}

	opts, unknown, err := options.FromMap(c.Options)
	if err != nil {
		result.Status = StatusError
		result.Error = err
		return result
	}
	for _, key := range unknown {
		result.Logs = append(result.Logs, "ignored unknown option "+key)
	}

	sources := make([]session.Source, len(c.Units))
	for i, u := range c.Units {
		sources[i] = session.Source{Name: u.Name, Text: u.Source}
	}
	_, build, err := session.CompileSources(ctx, sources,
		session.WithOptions(opts),
		session.WithLogger(logger))
	if err != nil {
		result.Status = StatusError
		result.Error = err
		return result
	}

	got := normalize(errors.Transcript(build.Diagnostics))
	if want := normalize(c.Problems); got != want {
		result.Failures = append(result.Failures, Failure{
			Message: "problems differ",
			Got:     got,
			Want:    want,
		})
	}
	if c.Valid != nil && build.Valid != *c.Valid {
		result.Failures = append(result.Failures, Failure{
			Message: fmt.Sprintf("expected valid=%t, got valid=%t", *c.Valid, build.Valid),
		})
	}
	for _, l := range c.Disassembly {
		if f, ok := checkListing(build, l); !ok {
			result.Failures = append(result.Failures, f)
		}
	}

	if len(result.Failures) > 0 {
		result.Status = StatusFailed
	} else {
		result.Status = StatusPassed
	}
	return result
}

func checkListing(build *session.Build, l Listing) (Failure, bool) {
	class, ok := build.Class(l.Class)
	if !ok {
		return Failure{Message: fmt.Sprintf("class %s was not emitted", l.Class)}, false
	}
	var buf bytes.Buffer
	var err error
	if l.Method == "" {
		err = dis.WriteClass(&buf, class)
	} else {
		m, found := class.Method(l.Method)
		if !found {
			return Failure{Message: fmt.Sprintf("class %s has no method %s", l.Class, l.Method)}, false
		}
		err = dis.WriteMethod(&buf, m, class.Pool())
	}
	if err != nil {
		return Failure{Message: err.Error()}, false
	}
	if !containsLines(buf.String(), l.Contains) {
		return Failure{
			Message: fmt.Sprintf("disassembly of %s does not contain the expected lines", listingName(l)),
			Got:     strings.TrimRight(buf.String(), "\n"),
			Want:    normalize(l.Contains),
		}, false
	}
	return Failure{}, true
}

func listingName(l Listing) string {
	if l.Method == "" {
		return l.Class
	}
	return l.Class + "." + l.Method
}

// normalize drops trailing whitespace from every line and trailing blank
// lines from the text.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// containsLines reports whether the non-blank lines of want appear as a
// consecutive run of lines in text, ignoring surrounding whitespace.
func containsLines(text, want string) bool {
	needle := trimmedLines(want)
	if len(needle) == 0 {
		return true
	}
	hay := trimmedLines(text)
	for i := 0; i+len(needle) <= len(hay); i++ {
		match := true
		for j := range needle {
			if hay[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func trimmedLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
