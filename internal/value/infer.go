package value

import (
	"strconv"
	"strings"
)

// DefaultNullTokens returns the raw strings that type inference treats as
// null. The set matches the common CSV conventions for missing data.
func DefaultNullTokens() map[string]struct{} {
	return map[string]struct{}{
		"":     {},
		"NULL": {},
		"null": {},
		"None": {},
		"N/A":  {},
		"n/a":  {},
	}
}

// Infer converts a raw source string into a typed scalar. Rules are applied
// in a fixed order, first match wins:
//
//  1. trimmed string in nullTokens -> null
//  2. integer syntax (no '.' and no exponent) -> int
//  3. float syntax -> float
//  4. true/yes/on or false/no/off (case-insensitive) -> bool
//  5. anything else -> the string itself, whitespace-trimmed only
//
// Infer is total: it never fails, every input maps to exactly one scalar.
// Note that "1" and "0" parse as integers before the boolean rule is reached.
func Infer(raw string, nullTokens map[string]struct{}) Value {
	if nullTokens == nil {
		nullTokens = DefaultNullTokens()
	}

	trimmed := strings.TrimSpace(raw)
	if _, isNull := nullTokens[trimmed]; isNull {
		return Null()
	}

	if !strings.ContainsAny(trimmed, ".eE") {
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return Int(i)
		}
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Float(f)
	}

	switch strings.ToLower(trimmed) {
	case "true", "yes", "on":
		return Bool(true)
	case "false", "no", "off":
		return Bool(false)
	}

	return String(trimmed)
}
