package mux

import (
	"fmt"
	"regexp"
)

// varMatcher validates a single path parameter value.
// *regexp.Regexp satisfies this interface.
type varMatcher interface {
	MatchString(string) bool
	String() string
}

// lengthMatcher wraps a regexp with an additional maximum length constraint.
type lengthMatcher struct {
	re     *regexp.Regexp
	maxLen int
}

func (m *lengthMatcher) MatchString(s string) bool {
	return len(s) <= m.maxLen && m.re.MatchString(s)
}

func (m *lengthMatcher) String() string {
	return m.re.String()
}

// patternMacros maps macro names to their compiled matchers.
// Used in parameter segments: {name:macro}.
var patternMacros = func() map[string]varMatcher {
	raw := map[string]string{
		"uuid":     `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`,
		"int":      `[0-9]+`,
		"float":    `[0-9]*\.?[0-9]+`,
		"slug":     `[a-zA-Z0-9]+(?:-[a-zA-Z0-9]+)*`,
		"alpha":    `[a-zA-Z]+`,
		"alphanum": `[a-zA-Z0-9]+`,
		"date":     `[0-9]{4}-[0-9]{2}-[0-9]{2}`,
		"hex":      `[0-9a-fA-F]+`,
		// RFC 1035/1123: labels 1-63 chars, total up to 253 chars.
		"domain": `(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?`,
	}

	// Macros that require additional length validation beyond regex.
	maxLengths := map[string]int{
		"domain": 253,
	}

	m := make(map[string]varMatcher, len(raw))
	for name, pattern := range raw {
		re := regexp.MustCompile(fmt.Sprintf("^%s$", pattern))

		if maxLen, ok := maxLengths[name]; ok {
			m[name] = &lengthMatcher{re: re, maxLen: maxLen}
		} else {
			m[name] = re
		}
	}

	return m
}()

// IsMacro reports whether name is a known parameter macro.
func IsMacro(name string) bool {
	_, ok := patternMacros[name]
	return ok
}

// macroMatcher returns the value matcher for a parameter macro, or nil
// when the parameter accepts any non-empty segment.
func macroMatcher(name string) varMatcher {
	if name == "" {
		return nil
	}
	return patternMacros[name]
}
