package errors

import "sort"

// ErrorCode represents a unique identifier for diagnostic types.
// Codes are organized by category:
//   - E1xxx: Syntax errors
//   - E2xxx: Checker diagnostics
//   - E9xxx: Emitter failures
type ErrorCode string

const (
	// Syntax (E10xx)
	E1001 ErrorCode = "E1001" // Syntax error

	// Resolution (E20xx)
	E2001 ErrorCode = "E2001" // Unresolved symbol
	E2002 ErrorCode = "E2002" // Duplicate declaration

	// Typing (E21xx)
	E2101 ErrorCode = "E2101" // Type mismatch
	E2102 ErrorCode = "E2102" // Incompatible conditional operand types
	E2103 ErrorCode = "E2103" // Illegal reference

	// Deprecation (E22xx)
	E2201 ErrorCode = "E2201" // Use of deprecated symbol
	E2202 ErrorCode = "E2202" // Use of symbol deprecated for removal

	// Generics (E23xx)
	E2301 ErrorCode = "E2301" // Raw type reference

	// Emitter (E9xxx)
	E9001 ErrorCode = "E9001" // Emitter internal error
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "syntax error",
	E2001: "unresolved symbol",
	E2002: "duplicate declaration",
	E2101: "type mismatch",
	E2102: "incompatible conditional operand types",
	E2103: "illegal reference",
	E2201: "deprecated use",
	E2202: "terminally deprecated use",
	E2301: "raw type reference",
	E9001: "emitter internal error",
}

// Codes returns every known error code, sorted.
func Codes() []ErrorCode {
	codes := make([]ErrorCode, 0, len(codeDescriptions))
	for c := range codeDescriptions {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 3 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "syntax"
	case '2':
		switch c[2] {
		case '0':
			return "resolution"
		case '1':
			return "typing"
		case '2':
			return "deprecation"
		case '3':
			return "generics"
		}
	case '9':
		return "internal"
	}
	return "unknown"
}
