package fixture

import "time"

// Status represents the outcome of a case.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
	StatusError
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusFailed:
		return "FAIL"
	case StatusSkipped:
		return "SKIP"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Failure is an expectation a case did not meet.
type Failure struct {
	Message string // Description of the failure
	Got     string // Actual output (may be empty)
	Want    string // Expected output (may be empty)
}

// TestResult holds the outcome of a single case.
type TestResult struct {
	Name       string        // Case name
	Status     Status        // Pass, fail, skip, or error
	Duration   time.Duration // How long the case took
	Failures   []Failure     // Unmet expectations
	Logs       []string      // Notes recorded while running
	SkipReason string        // Why the case was skipped
	Error      error         // Error if Status == StatusError
}

// FileResult holds the results of all cases in a single file.
type FileResult struct {
	Filename string        // Path to the fixture file
	Tests    []*TestResult // Results for each case
	LoadErr  error         // Error if the file could not be loaded
}

func (f *FileResult) count(s Status) int {
	n := 0
	for _, t := range f.Tests {
		if t.Status == s {
			n++
		}
	}
	return n
}

// Passed returns the number of passed cases in this file.
func (f *FileResult) Passed() int { return f.count(StatusPassed) }

// Failed returns the number of failed cases in this file.
func (f *FileResult) Failed() int { return f.count(StatusFailed) }

// Skipped returns the number of skipped cases in this file.
func (f *FileResult) Skipped() int { return f.count(StatusSkipped) }

// Errors returns the number of errored cases in this file.
func (f *FileResult) Errors() int { return f.count(StatusError) }

// Summary aggregates results across all fixture files.
type Summary struct {
	Files    []*FileResult // Results for each fixture file
	Passed   int           // Total passed cases
	Failed   int           // Total failed cases
	Skipped  int           // Total skipped cases
	Errors   int           // Total errored cases, load errors included
	Duration time.Duration // Total time for all cases
}

// TotalTests returns the total number of cases run.
func (s *Summary) TotalTests() int {
	return s.Passed + s.Failed + s.Skipped + s.Errors
}

// Success returns true if no case failed or errored.
func (s *Summary) Success() bool {
	return s.Failed == 0 && s.Errors == 0
}

// ComputeTotals recalculates the aggregate counts from all file results.
// A file that failed to load counts as one error.
func (s *Summary) ComputeTotals() {
	s.Passed = 0
	s.Failed = 0
	s.Skipped = 0
	s.Errors = 0
	for _, f := range s.Files {
		s.Passed += f.Passed()
		s.Failed += f.Failed()
		s.Skipped += f.Skipped()
		s.Errors += f.Errors()
		if f.LoadErr != nil {
			s.Errors++
		}
	}
}
