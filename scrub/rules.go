// Package scrub applies an ordered list of pattern rules to lines of text,
// substituting every match according to a single replacement Policy.
package scrub

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// Rule is one compiled pattern. A rule whose pattern failed to compile keeps
// the compile error and fails every line it is applied to.
type Rule struct {
	Index   int
	Pattern string

	re  *regexp2.Regexp
	err *RuleError
}

// RuleError reports a rule that could not be compiled or evaluated.
type RuleError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %d (%q): %v", e.Index, e.Pattern, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// Compile compiles patterns in order. A non-zero timeout bounds the time a
// single match attempt may take.
func Compile(patterns []string, timeout time.Duration) []Rule {
	rules := make([]Rule, len(patterns))
	for i, pattern := range patterns {
		rules[i] = compileRule(i, pattern, timeout)
	}
	return rules
}

func compileRule(index int, pattern string, timeout time.Duration) Rule {
	r := Rule{Index: index, Pattern: pattern}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		r.err = &RuleError{Index: index, Pattern: pattern, Err: err}
		return r
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	r.re = re
	return r
}

// Err returns the compile error of r, or nil if it compiled.
func (r Rule) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// replace substitutes every non-overlapping match of r in s with the value
// returned by fn.
func (r Rule) replace(s string, fn func() string) (string, error) {
	if r.err != nil {
		return s, r.err
	}
	out, err := r.re.ReplaceFunc(s, func(regexp2.Match) string { return fn() }, -1, -1)
	if err != nil {
		return s, &RuleError{Index: r.Index, Pattern: r.Pattern, Err: err}
	}
	return out, nil
}
