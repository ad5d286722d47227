package scrub

import (
	"fmt"

	"github.com/sonnes/logscrub/fake"
)

// Kind identifies how a Policy substitutes matched text.
type Kind int

const (
	KindDelete Kind = iota
	KindLiteral
	KindSynthetic
)

// Policy is the single replacement rule applied to every match in a run.
// The zero value deletes matches.
type Policy struct {
	kind     Kind
	text     string
	category fake.Category
}

// Delete replaces each match with the empty string.
func Delete() Policy { return Policy{kind: KindDelete} }

// Literal replaces each match with text, verbatim.
func Literal(text string) Policy { return Policy{kind: KindLiteral, text: text} }

// Synthetic replaces each match with a freshly generated value of category c.
func Synthetic(c fake.Category) Policy { return Policy{kind: KindSynthetic, category: c} }

// ParsePolicy maps a replace-with value to its Policy. The empty string
// deletes, a fake_* keyword selects synthetic data and anything else is
// literal text.
func ParsePolicy(s string) Policy {
	if s == "" {
		return Delete()
	}
	if c, ok := fake.ParseCategory(s); ok {
		return Synthetic(c)
	}
	return Literal(s)
}

// Kind reports which variant p is.
func (p Policy) Kind() Kind { return p.kind }

// Text is the replacement of a literal policy.
func (p Policy) Text() string { return p.text }

// Category is the value kind generated by a synthetic policy.
func (p Policy) Category() fake.Category { return p.category }

// String describes p for logs and summaries, e.g. `literal "X"`.
func (p Policy) String() string {
	switch p.kind {
	case KindLiteral:
		return fmt.Sprintf("literal %q", p.text)
	case KindSynthetic:
		return "synthetic " + p.category.String()
	default:
		return "delete"
	}
}
