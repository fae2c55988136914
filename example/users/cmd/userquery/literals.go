package main

import (
	"strconv"
	"strings"
	"time"
)

const (
	literalNull  = "null"
	literalTrue  = "true"
	literalFalse = "false"
	quote        = "'"
)

// parseLiterals converts command line values into typed filter values.
func parseLiterals(raw []string) []any {
	values := make([]any, 0, len(raw))
	for _, s := range raw {
		values = append(values, parseLiteral(s))
	}

	return values
}

// parseLiteral reads s as null, integer, float, boolean or RFC 3339 time, in that order,
// and falls back to the string itself. A value wrapped in single quotes is always a string.
func parseLiteral(s string) any {
	if len(s) >= 2 && strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) {
		return s[1 : len(s)-1]
	}

	switch s {
	case literalNull:
		return nil
	case literalTrue:
		return true
	case literalFalse:
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}

	return s
}
