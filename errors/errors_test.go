package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	tests := []struct {
		name     string
		loc      SourceLocation
		expected string
	}{
		{"with filename", SourceLocation{Filename: "X.java", Line: 10, Column: 5}, "X.java:10:5"},
		{"without filename", SourceLocation{Line: 10, Column: 5}, "10:5"},
		{"zero location", SourceLocation{}, "0:0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.loc.String())
		})
	}
	require.True(t, SourceLocation{}.IsZero())
	require.False(t, SourceLocation{Line: 1}.IsZero())
}

func TestSymbolError(t *testing.T) {
	err := &SymbolError{Name: "X.missing"}
	require.Equal(t, `unresolved symbol "X.missing"`, err.Error())
	require.True(t, errors.Is(err, ErrUnresolvedSymbol))
	require.False(t, errors.Is(err, ErrInternal))

	err.Location = SourceLocation{Filename: "X.java", Line: 3, Column: 7}
	require.Equal(t, `unresolved symbol "X.missing" (X.java:3:7)`, err.Error())
}

func TestInternalError(t *testing.T) {
	cause := errors.New("stack underflow")
	err := Internalf("X.foo", SourceLocation{Line: 4, Column: 2}, "bad node %s", "Cast")
	require.Equal(t, "emitter internal error in X.foo: bad node Cast (4:2)", err.Error())
	require.True(t, errors.Is(err, ErrInternal))

	err.Cause = cause
	require.True(t, errors.Is(err, ErrInternal))
	require.True(t, errors.Is(err, cause))
	require.Equal(t, "emitter internal error in X.foo: bad node Cast (4:2): stack underflow", err.Error())
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		code        ErrorCode
		description string
		category    string
	}{
		{E1001, "syntax error", "syntax"},
		{E2001, "unresolved symbol", "resolution"},
		{E2002, "duplicate declaration", "resolution"},
		{E2101, "type mismatch", "typing"},
		{E2102, "incompatible conditional operand types", "typing"},
		{E2103, "illegal reference", "typing"},
		{E2201, "deprecated use", "deprecation"},
		{E2202, "terminally deprecated use", "deprecation"},
		{E2301, "raw type reference", "generics"},
		{E9001, "emitter internal error", "internal"},
		{ErrorCode("X"), "unknown error", "unknown"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.description, tt.code.Description())
		require.Equal(t, tt.category, tt.code.Category())
	}
	require.Equal(t, "E2001", E2001.String())

	codes := Codes()
	require.Len(t, codes, len(tests)-1)
	require.Equal(t, E1001, codes[0])
	require.Equal(t, E9001, codes[len(codes)-1])
}

func TestParseSeverity(t *testing.T) {
	for input, want := range map[string]Severity{
		"ignore":    Ignore,
		"warning":   Warning,
		"ERROR":     Error,
		" Warning ": Warning,
	} {
		got, err := ParseSeverity(input)
		require.Nil(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseSeverity("info")
	require.NotNil(t, err)
}

func TestList(t *testing.T) {
	var list List
	list.Add(&Diagnostic{Severity: Warning, Unit: "B.java", Line: 2, Column: 1, Message: "b2"})
	list.Add(&Diagnostic{Severity: Error, Unit: "A.java", Line: 9, Column: 4, Message: "a9", Kind: ErrTypeMismatch})
	list.Add(&Diagnostic{Severity: Ignore, Unit: "A.java", Line: 1, Column: 1, Message: "ignored"})
	list.Add(&Diagnostic{Severity: Warning, Unit: "A.java", Line: 3, Column: 8, Message: "a3"})
	list.Add(nil)

	require.Equal(t, 3, list.Len())
	require.Equal(t, 2, list.Count(Warning))
	require.True(t, list.HasErrors())

	sorted := list.Sorted()
	var messages []string
	for _, d := range sorted {
		messages = append(messages, d.Message)
	}
	require.Equal(t, []string{"a3", "a9", "b2"}, messages)
	require.Equal(t, 3, sorted[0].EndLine)
	require.Equal(t, 8, sorted[0].EndColumn)

	err := list.Err()
	require.NotNil(t, err)
	require.True(t, errors.Is(err, ErrTypeMismatch))
	require.Contains(t, err.Error(), "A.java:9:4: error: a9")
}

func TestListWithoutErrors(t *testing.T) {
	var list List
	require.Nil(t, list.Err())
	list.Add(&Diagnostic{Severity: Warning, Unit: "A.java", Line: 1, Message: "w"})
	require.Nil(t, list.Err())
	require.False(t, list.HasErrors())
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"print", "printf", "println", "sprint", "sprintf"}
	tests := []struct {
		name      string
		target    string
		want      []string
		wantFirst string
	}{
		{name: "close match", target: "prin", wantFirst: "print"},
		{name: "exact match excluded", target: "print", wantFirst: "printf"},
		{name: "no close matches", target: "xyz"},
		{name: "empty target", target: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions := SuggestSimilar(tt.target, candidates)
			if tt.wantFirst == "" {
				require.Empty(t, suggestions)
				return
			}
			require.NotEmpty(t, suggestions)
			require.Equal(t, tt.wantFirst, suggestions[0].Value)
			require.LessOrEqual(t, len(suggestions), MaxSuggestions)
		})
	}
}

func TestFormatSuggestions(t *testing.T) {
	require.Equal(t, "", FormatSuggestions(nil))
	require.Equal(t, "Did you mean 'count'?", FormatSuggestions([]Suggestion{{Value: "count", Distance: 1}}))
	require.Equal(t, "Did you mean one of: 'x', 'y'?", FormatSuggestions([]Suggestion{
		{Value: "x", Distance: 1},
		{Value: "y", Distance: 1},
	}))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "abcd", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			require.Equal(t, tt.expected, levenshteinDistance(tt.a, tt.b))
		})
	}
}

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter(false)
	require.False(t, f.UseColor)

	result := f.Format(&FormattedError{
		Code:      E2001,
		Kind:      "error",
		Message:   "X.fiel cannot be resolved",
		Filename:  "X.java",
		Line:      10,
		Column:    5,
		EndColumn: 8,
		SourceLines: []SourceLineEntry{
			{Number: 10, Text: "    fiel = 1;", IsMain: true},
		},
		Hint: "Did you mean 'field'?",
	})
	require.Contains(t, result, "error[E2001]: X.fiel cannot be resolved")
	require.Contains(t, result, "--> X.java:10:5")
	require.Contains(t, result, "10 |     fiel = 1;")
	require.Contains(t, result, "    ^^^^\n")
	require.Contains(t, result, "hint: Did you mean 'field'?")
}

func TestFormatter_FormatAll(t *testing.T) {
	f := NewFormatter(false)
	require.Equal(t, "", f.FormatAll(nil))
	result := f.FormatAll([]*Diagnostic{
		{Severity: Warning, Code: E2201, Unit: "X.java", Line: 1, Column: 1, Message: "The type Y is deprecated"},
		{Severity: Error, Code: E2101, Unit: "X.java", Line: 2, Column: 1, Message: "Type mismatch"},
	})
	require.Contains(t, result, "warning[E2201]: The type Y is deprecated")
	require.Contains(t, result, "error[E2101]: Type mismatch")
	require.True(t, strings.HasSuffix(result, "1 error, 1 warning\n"))
}

func TestFormatter_Color(t *testing.T) {
	result := NewFormatter(true).Format(&FormattedError{Kind: "error", Message: "m"})
	require.Contains(t, result, "\x1b[")
	result = NewFormatter(false).Format(&FormattedError{Kind: "error", Message: "m"})
	require.NotContains(t, result, "\x1b[")
}

func TestTranscript(t *testing.T) {
	require.Equal(t, "", Transcript(nil))
	diags := []*Diagnostic{
		{
			Severity:   Warning,
			Unit:       "p/M1.java",
			Line:       4,
			Column:     5,
			EndColumn:  11,
			SourceLine: "    a.N1.N2.N3 m = null;",
			Message:    "The type N1.N2 is deprecated",
		},
		{
			Severity:   Error,
			Unit:       "p/M1.java",
			Line:       5,
			Column:     2,
			EndColumn:  2,
			SourceLine: "\tx = 1;",
			Message:    "x cannot be resolved to a variable",
		},
	}
	expected := "----------\n" +
		"1. WARNING in p/M1.java (at line 4)\n" +
		"\ta.N1.N2.N3 m = null;\n" +
		"\t^^^^^^^\n" +
		"The type N1.N2 is deprecated\n" +
		"----------\n" +
		"2. ERROR in p/M1.java (at line 5)\n" +
		"\tx = 1;\n" +
		"\t^\n" +
		"x cannot be resolved to a variable\n" +
		"----------\n"
	require.Equal(t, expected, Transcript(diags))
}
