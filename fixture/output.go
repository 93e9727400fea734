package fixture

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// OutputConfig configures output formatting.
type OutputConfig struct {
	// Writer is where output is written.
	Writer io.Writer

	// Verbose shows the logs of every case.
	Verbose bool

	// UseColor enables ANSI color codes.
	UseColor bool
}

// Output handles formatting and printing fixture results.
type Output struct {
	w        io.Writer
	verbose  bool
	useColor bool
}

// NewOutput creates a new Output formatter.
func NewOutput(cfg OutputConfig) *Output {
	return &Output{
		w:        cfg.Writer,
		verbose:  cfg.Verbose,
		useColor: cfg.UseColor,
	}
}

// StartTest prints the "=== RUN" line for a case.
func (o *Output) StartTest(name string) {
	fmt.Fprintf(o.w, "=== RUN   %s\n", name)
}

// EndTest prints the result line for a case (--- PASS, --- FAIL, etc.).
func (o *Output) EndTest(result *TestResult) {
	var statusStr string
	switch result.Status {
	case StatusPassed:
		statusStr = o.colorize(color.FgGreen, "--- PASS:")
	case StatusFailed:
		statusStr = o.colorize(color.FgRed, "--- FAIL:")
	case StatusSkipped:
		statusStr = o.colorize(color.FgYellow, "--- SKIP:")
	case StatusError:
		statusStr = o.colorize(color.FgRed, "--- ERROR:")
	default:
		statusStr = fmt.Sprintf("--- %s:", result.Status)
	}
	fmt.Fprintf(o.w, "%s %s (%.3fs)\n", statusStr, result.Name, result.Duration.Seconds())

	if result.Status == StatusSkipped && result.SkipReason != "" {
		fmt.Fprintf(o.w, "    %s\n", result.SkipReason)
	}
	if result.Status == StatusError && result.Error != nil {
		o.indented(4, result.Error.Error())
	}
	for _, failure := range result.Failures {
		o.printFailure(failure)
	}
	if o.verbose || result.Status == StatusFailed {
		for _, log := range result.Logs {
			fmt.Fprintf(o.w, "    %s\n", log)
		}
	}
}

func (o *Output) printFailure(f Failure) {
	fmt.Fprintf(o.w, "    %s\n", f.Message)
	if f.Got != "" || f.Want != "" {
		fmt.Fprintf(o.w, "        %s:\n", o.colorize(color.FgRed, "got"))
		o.indented(12, f.Got)
		fmt.Fprintf(o.w, "        %s:\n", o.colorize(color.FgGreen, "want"))
		o.indented(12, f.Want)
	}
}

func (o *Output) indented(n int, text string) {
	pad := strings.Repeat(" ", n)
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(o.w, "%s%s\n", pad, line)
	}
}

// LoadError prints the error of a fixture file that could not be loaded.
func (o *Output) LoadError(filename string, err error) {
	fmt.Fprintf(o.w, "%s %s\n", o.colorize(color.FgRed, "LOAD ERROR:"), filename)
	o.indented(4, err.Error())
}

// Summary prints the final summary line.
func (o *Output) Summary(summary *Summary) {
	fmt.Fprintln(o.w)
	if summary.Success() {
		fmt.Fprintln(o.w, o.colorize(color.FgGreen, "PASS"))
	} else {
		fmt.Fprintln(o.w, o.colorize(color.FgRed, "FAIL"))
	}

	parts := []string{}
	if summary.Passed > 0 {
		parts = append(parts, o.colorize(color.FgGreen, fmt.Sprintf("%d passed", summary.Passed)))
	}
	if summary.Failed > 0 {
		parts = append(parts, o.colorize(color.FgRed, fmt.Sprintf("%d failed", summary.Failed)))
	}
	if summary.Skipped > 0 {
		parts = append(parts, o.colorize(color.FgYellow, fmt.Sprintf("%d skipped", summary.Skipped)))
	}
	if summary.Errors > 0 {
		parts = append(parts, o.colorize(color.FgRed, fmt.Sprintf("%d errors", summary.Errors)))
	}
	if len(parts) > 0 {
		fmt.Fprintln(o.w, strings.Join(parts, ", "))
	}
}

// colorize applies color if enabled, regardless of whether the writer is
// a terminal.
func (o *Output) colorize(attr color.Attribute, s string) string {
	if !o.useColor {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// PrintResults prints all results in Go test style.
func (o *Output) PrintResults(summary *Summary) {
	for _, file := range summary.Files {
		if file.LoadErr != nil {
			o.LoadError(file.Filename, file.LoadErr)
		}
	}
	for _, file := range summary.Files {
		for _, test := range file.Tests {
			o.StartTest(test.Name)
			o.EndTest(test)
		}
	}
	o.Summary(summary)
}
