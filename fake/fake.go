// Package fake generates realistic synthetic values used in place of matched
// sensitive text.
package fake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

// Category selects the kind of synthetic value to generate.
type Category int

const (
	Name Category = iota + 1
	Email
	Address
	PhoneNumber
	CreditCardNumber
)

var keywords = map[string]Category{
	"fake_name":               Name,
	"fake_email":              Email,
	"fake_address":            Address,
	"fake_phone_number":       PhoneNumber,
	"fake_credit_card_number": CreditCardNumber,
}

// ErrUnsupportedCategory is returned by a Generator that cannot produce the
// requested category.
var ErrUnsupportedCategory = errors.New("unsupported category")

// ParseCategory maps a replacement keyword such as "fake_email" to its
// Category. ok is false for anything that is not a known keyword.
func ParseCategory(keyword string) (c Category, ok bool) {
	c, ok = keywords[keyword]
	return c, ok
}

// String returns the keyword for c.
func (c Category) String() string {
	for k, v := range keywords {
		if v == c {
			return k
		}
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Generator produces synthetic values on demand.
type Generator interface {
	Generate(c Category) (string, error)
}

// Faker is a Generator backed by gofakeit. It is safe for concurrent use.
type Faker struct {
	mu sync.Mutex
	f  *gofakeit.Faker
}

// New creates a Faker. A zero seed picks a random one.
func New(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

// Generate returns one freshly generated value of category c.
func (g *Faker) Generate(c Category) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch c {
	case Name:
		return g.f.Name(), nil
	case Email:
		return g.f.Email(), nil
	case Address:
		return g.f.Address().Address, nil
	case PhoneNumber:
		return g.f.PhoneFormatted(), nil
	case CreditCardNumber:
		return g.f.CreditCardNumber(nil), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCategory, c)
	}
}

// Static is a Generator that returns fixed values per category. Categories
// absent from the map fail with ErrUnsupportedCategory.
type Static map[Category]string

// Generate returns the fixed value for c.
func (s Static) Generate(c Category) (string, error) {
	v, ok := s[c]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCategory, c)
	}
	return v, nil
}
