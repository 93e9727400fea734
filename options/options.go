// Package options decodes the compiler option mapping into typed options.
//
// Keys follow the Eclipse compiler naming, for example
// org.eclipse.jdt.core.compiler.problem.deprecation=warning. Unknown keys
// are reported back to the caller and otherwise ignored.
package options

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/jcore/errors"
	"github.com/deepnoodle-ai/jcore/types"
)

// Recognized option keys.
const (
	Deprecation                 = "org.eclipse.jdt.core.compiler.problem.deprecation"
	TerminalDeprecation         = "org.eclipse.jdt.core.compiler.problem.terminalDeprecation"
	DeprecationInDeprecatedCode = "org.eclipse.jdt.core.compiler.problem.deprecationInDeprecatedCode"
	DeprecationWhenOverriding   = "org.eclipse.jdt.core.compiler.problem.deprecationWhenOverridingDeprecatedMethod"
	RawTypeReference            = "org.eclipse.jdt.core.compiler.problem.rawTypeReference"
	Source                      = "org.eclipse.jdt.core.compiler.source"
	ReuseLocalSlots             = "jcore.codegen.reuseLocalSlots"
)

// Values of the boolean Eclipse options.
const (
	Enabled  = "enabled"
	Disabled = "disabled"
)

const (
	minSourceLevel = 4
	maxSourceLevel = 21
	boxingLevel    = 5
)

// Options configures diagnostics and code generation.
type Options struct {
	Deprecation                 errors.Severity
	TerminalDeprecation         errors.Severity
	DeprecationInDeprecatedCode bool
	DeprecationWhenOverriding   bool
	RawTypeReference            errors.Severity

	// SourceLevel is the language level: 4 for 1.4, 8 for 1.8, 17 for 17.
	SourceLevel int

	// ReuseLocalSlots lets a local variable slot be reused once the scope
	// declaring it ends. Slots are otherwise allocated monotonically.
	ReuseLocalSlots bool
}

// Default returns the default options.
func Default() Options {
	return Options{
		Deprecation:         errors.Warning,
		TerminalDeprecation: errors.Warning,
		RawTypeReference:    errors.Warning,
		SourceLevel:         8,
	}
}

// Keys returns the recognized option keys, sorted.
func Keys() []string {
	keys := []string{
		Deprecation, TerminalDeprecation, DeprecationInDeprecatedCode,
		DeprecationWhenOverriding, RawTypeReference, Source, ReuseLocalSlots,
	}
	sort.Strings(keys)
	return keys
}

// Canonical returns the recognized key equal to key under Unicode case
// folding. Configuration layers that lowercase keys use it to recover the
// option name.
func Canonical(key string) (string, bool) {
	for _, k := range Keys() {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}

// FromMap decodes an option mapping over the defaults. It returns the keys
// it did not recognize. Every malformed value is reported in the error.
func FromMap(m map[string]string) (Options, []string, error) {
	o := Default()
	var unknown []string
	var result *multierror.Error
	for key, value := range m {
		if err := o.Set(key, value); err != nil {
			if err == errUnknownKey {
				unknown = append(unknown, key)
				continue
			}
			result = multierror.Append(result, err)
		}
	}
	sort.Strings(unknown)
	return o, unknown, result.ErrorOrNil()
}

var errUnknownKey = fmt.Errorf("unknown option key")

// Set assigns a single option from its string form.
func (o *Options) Set(key, value string) error {
	var err error
	switch key {
	case Deprecation:
		o.Deprecation, err = errors.ParseSeverity(value)
	case TerminalDeprecation:
		o.TerminalDeprecation, err = errors.ParseSeverity(value)
	case RawTypeReference:
		o.RawTypeReference, err = errors.ParseSeverity(value)
	case DeprecationInDeprecatedCode:
		o.DeprecationInDeprecatedCode, err = parseEnabled(value)
	case DeprecationWhenOverriding:
		o.DeprecationWhenOverriding, err = parseEnabled(value)
	case Source:
		o.SourceLevel, err = ParseSourceLevel(value)
	case ReuseLocalSlots:
		o.ReuseLocalSlots, err = strconv.ParseBool(strings.TrimSpace(value))
	default:
		return errUnknownKey
	}
	if err != nil {
		return fmt.Errorf("option %s: %w", key, err)
	}
	return nil
}

func parseEnabled(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case Enabled:
		return true, nil
	case Disabled:
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q (expected enabled or disabled)", s)
}

// ParseSourceLevel parses a language level such as 1.4, 1.8, 9 or 17.
func ParseSourceLevel(s string) (int, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(s, "1.")
	level, err := strconv.Atoi(digits)
	if err != nil || level < minSourceLevel || level > maxSourceLevel ||
		(digits != s && level > 8) {
		return 0, fmt.Errorf("invalid source level %q", s)
	}
	return level, nil
}

// FormatSourceLevel renders a language level the way Source expects it.
func FormatSourceLevel(level int) string {
	if level <= 8 {
		return "1." + strconv.Itoa(level)
	}
	return strconv.Itoa(level)
}

// Map returns the options as a key/value mapping accepted by FromMap.
func (o Options) Map() map[string]string {
	return map[string]string{
		Deprecation:                 strings.ToLower(o.Deprecation.String()),
		TerminalDeprecation:         strings.ToLower(o.TerminalDeprecation.String()),
		RawTypeReference:            strings.ToLower(o.RawTypeReference.String()),
		DeprecationInDeprecatedCode: formatEnabled(o.DeprecationInDeprecatedCode),
		DeprecationWhenOverriding:   formatEnabled(o.DeprecationWhenOverriding),
		Source:                      FormatSourceLevel(o.SourceLevel),
		ReuseLocalSlots:             strconv.FormatBool(o.ReuseLocalSlots),
	}
}

func formatEnabled(b bool) string {
	if b {
		return Enabled
	}
	return Disabled
}

// BoxingEnabled reports whether the source level has boxing conversions.
func (o Options) BoxingEnabled() bool {
	return o.SourceLevel >= boxingLevel
}

// Resolver returns a type resolver over h with the rules of the source
// level.
func (o Options) Resolver(h types.Hierarchy) *types.Resolver {
	if o.BoxingEnabled() {
		return types.NewResolver(h)
	}
	return types.NewResolver(h, types.WithoutBoxing())
}
