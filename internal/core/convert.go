package core

// convert.go provides value conversion for the messy reality of spreadsheet
// cells: currency symbols and thousands separators in numbers, accounting
// negatives, Excel formula prefixes (="value"), comma-delimited lists, phase
// ranges ("1-3") and JSON-style arrays ("[1,2,3]").
//
// Conversion never fails. Scalars fall back to a caller-supplied default and
// list parsing drops unparsable pieces; callers that need to surface
// substitutions record them as coercion notes.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates a numeric string after cleanup. Matches integers,
// decimals and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// phaseRangeRegex matches range syntax for phase lists, e.g. "1-3" or "2 - 5".
var phaseRangeRegex = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)

// CleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace, Excel formula prefixes and stray quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// parseNumeric parses a cell as a float after stripping currency symbols,
// thousands separators and accounting-format parentheses.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// stringify renders any raw cell value as a string for matching and export.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case []int:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// toInt coerces a raw value to an integer, substituting fallback when the
// value is absent, empty or not numeric. The second return reports whether
// the fallback was substituted for a non-empty malformed value.
func toInt(v any, fallback int) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, false
	case float64:
		return int(x), false
	case nil:
		return fallback, false
	}

	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return fallback, false
	}
	f, ok := parseNumeric(s)
	if !ok {
		return fallback, true
	}
	return int(f), false
}

// toFloat coerces a raw value to a float, substituting fallback on failure.
func toFloat(v any, fallback float64) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, false
	case int:
		return float64(x), false
	case nil:
		return fallback, false
	}

	s := strings.TrimSpace(stringify(v))
	if s == "" {
		return fallback, false
	}
	f, ok := parseNumeric(s)
	if !ok {
		return fallback, true
	}
	return f, false
}

// toText coerces a raw value to a trimmed string.
func toText(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

// toStringList coerces a raw value to an ordered string list. Textual values
// split on comma with each piece trimmed; existing sequences pass through;
// absent values become an empty list.
func toStringList(v any) []string {
	switch x := v.(type) {
	case nil:
		return []string{}
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s := strings.TrimSpace(stringify(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	s := strings.TrimSpace(stringify(v))
	s = strings.Trim(s, "[]")
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"'`)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// toIntList coerces a raw value to an ordered integer list. Accepts
// comma-delimited text, JSON-style arrays ("[1,2,3]") and range syntax
// ("1-3"). Pieces that fail to parse as integers are dropped.
func toIntList(v any) []int {
	switch x := v.(type) {
	case nil:
		return []int{}
	case []int:
		return x
	case []any:
		out := make([]int, 0, len(x))
		for _, item := range x {
			if n, ok := toNumberPiece(stringify(item)); ok {
				out = append(out, n)
			}
		}
		return out
	}

	s := strings.TrimSpace(stringify(v))
	s = strings.Trim(s, "[]")
	if s == "" {
		return []int{}
	}

	// Range syntax expands to the inclusive sequence.
	if m := phaseRangeRegex.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo <= hi {
			out := make([]int, 0, hi-lo+1)
			for n := lo; n <= hi; n++ {
				out = append(out, n)
			}
			return out
		}
	}

	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if n, ok := toNumberPiece(p); ok {
			out = append(out, n)
		}
	}
	return out
}

func toNumberPiece(s string) (int, bool) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, false
	}
	f, ok := parseNumeric(s)
	if !ok {
		return 0, false
	}
	return int(f), true
}
