package scrub

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sonnes/logscrub/fake"
)

// Config controls how a Scrubber is built.
type Config struct {
	Patterns     []string
	Policy       Policy
	Generator    fake.Generator // required for synthetic policies
	MatchTimeout time.Duration  // zero means no limit
}

// Scrubber applies its rules, in order, to one line at a time. It is
// immutable after New and safe for concurrent use when its Generator is.
type Scrubber struct {
	rules  []Rule
	policy Policy
	gen    fake.Generator
}

// GeneratorError reports a failure to produce a synthetic value. Unlike a
// RuleError it is not recoverable per line.
type GeneratorError struct {
	Category fake.Category
	Err      error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Category, e.Err)
}

func (e *GeneratorError) Unwrap() error { return e.Err }

// New compiles cfg.Patterns and checks that the generator can serve the
// policy. Invalid patterns do not fail New; see Invalid.
func New(cfg Config) (*Scrubber, error) {
	s := &Scrubber{
		rules:  Compile(cfg.Patterns, cfg.MatchTimeout),
		policy: cfg.Policy,
		gen:    cfg.Generator,
	}
	if cfg.Policy.Kind() == KindSynthetic {
		if s.gen == nil {
			return nil, fmt.Errorf("policy %s requires a generator", cfg.Policy)
		}
		if _, err := s.gen.Generate(cfg.Policy.Category()); err != nil {
			return nil, &GeneratorError{Category: cfg.Policy.Category(), Err: err}
		}
	}
	return s, nil
}

// Rules returns the compiled rules in evaluation order.
func (s *Scrubber) Rules() []Rule { return s.rules }

// Policy returns the replacement policy.
func (s *Scrubber) Policy() Policy { return s.policy }

// Invalid returns the errors of rules whose pattern did not compile.
func (s *Scrubber) Invalid() []*RuleError {
	var errs []*RuleError
	for _, r := range s.rules {
		if r.err != nil {
			errs = append(errs, r.err)
		}
	}
	return errs
}

var errUnmappableBytes = errors.New("line has invalid UTF-8 that cannot be preserved")

// Scrub applies every rule to line in order, each rule seeing the output of
// the previous one. If any rule fails, the original line is returned
// unchanged together with a *RuleError (or *GeneratorError). The line
// terminator is never matched or altered, and bytes that are not valid
// UTF-8 are kept as they are unless a match covers them.
func (s *Scrubber) Scrub(line string) (string, error) {
	if len(s.rules) == 0 {
		return line, nil
	}
	body, eol := splitTerminator(line)

	var base rune
	escaped := !utf8.ValidString(body)
	if escaped {
		var ok bool
		base, ok = escapeBase(body, s.policy.text)
		if !ok {
			r := s.rules[0]
			return line, &RuleError{Index: r.Index, Pattern: r.Pattern, Err: errUnmappableBytes}
		}
		body = escapeInvalid(body, base)
	}

	result := body
	for _, r := range s.rules {
		out, err := s.apply(r, result)
		if err != nil {
			return line, err
		}
		result = out
	}
	if escaped {
		result = unescapeInvalid(result, base)
	}
	return result + eol, nil
}

// Line scrubs a single line without building a Scrubber. No generator
// pre-flight is performed.
func Line(line string, rules []Rule, policy Policy, gen fake.Generator) (string, error) {
	s := &Scrubber{rules: rules, policy: policy, gen: gen}
	return s.Scrub(line)
}

func (s *Scrubber) apply(r Rule, in string) (string, error) {
	switch s.policy.kind {
	case KindLiteral:
		text := s.policy.text
		return r.replace(in, func() string { return text })
	case KindSynthetic:
		return s.applySynthetic(r, in)
	default:
		return r.replace(in, func() string { return "" })
	}
}

func (s *Scrubber) applySynthetic(r Rule, in string) (string, error) {
	c := s.policy.category
	if s.gen == nil {
		return in, &GeneratorError{Category: c, Err: fmt.Errorf("no generator")}
	}

	var genErr error
	out, err := r.replace(in, func() string {
		if genErr != nil {
			return ""
		}
		v, err := s.gen.Generate(c)
		if err != nil {
			genErr = err
			return ""
		}
		return flatten(v)
	})
	if genErr != nil {
		return in, &GeneratorError{Category: c, Err: genErr}
	}
	return out, err
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// flatten keeps a generated value on one line.
func flatten(v string) string {
	if !strings.ContainsAny(v, "\r\n") {
		return v
	}
	return lineBreaks.Replace(v)
}

// splitTerminator separates a trailing "\n" or "\r\n" from line.
func splitTerminator(line string) (body, eol string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}
