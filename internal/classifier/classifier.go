// Package classifier groups grocery item names into categories by keyword
// containment.
//
// A Classifier is built once from a Table and never changes afterwards, so a
// single value may be shared between goroutines.
package classifier

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

type compiledCategory struct {
	name     string
	keywords []string
}

type Classifier struct {
	categories []compiledCategory
	catchAll   string
}

type Option func(*Classifier)

// WithCatchAll overrides the name of the bucket for unmatched items.
func WithCatchAll(name string) Option {
	return func(c *Classifier) {
		if name = strings.TrimSpace(name); name != "" {
			c.catchAll = name
		}
	}
}

// New validates the table and returns a Classifier over a private copy of it.
func New(table Table, opts ...Option) (*Classifier, error) {
	c := &Classifier{catchAll: DefaultCatchAll}
	for _, opt := range opts {
		opt(c)
	}

	if err := table.validate(c.catchAll); err != nil {
		return nil, err
	}

	c.categories = make([]compiledCategory, len(table))
	for i, cat := range table {
		keywords := make([]string, len(cat.Keywords))
		for j, k := range cat.Keywords {
			keywords[j] = normalize(k)
		}
		c.categories[i] = compiledCategory{
			name:     strings.TrimSpace(cat.Name),
			keywords: keywords,
		}
	}
	return c, nil
}

// MustNew is New for tables known to be valid at compile time.
func MustNew(table Table, opts ...Option) *Classifier {
	c, err := New(table, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Classifier) CatchAll() string { return c.catchAll }

// Table returns a copy of the normalized table the classifier matches against.
func (c *Classifier) Table() Table {
	t := make(Table, len(c.categories))
	for i, cat := range c.categories {
		t[i] = Category{Name: cat.name, Keywords: append([]string(nil), cat.keywords...)}
	}
	return t
}

// Categorize assigns every item to the first category with a matching keyword.
// A keyword matches when either string contains the other, so "молоко" selects
// the keyword "молоко" and "мол" does too. Items that match nothing are
// collected under the catch-all category, which always comes last.
func (c *Classifier) Categorize(items []string) Result {
	var (
		result   Result
		leftover []string
	)

	for _, item := range items {
		key := normalize(item)
		if key == "" {
			continue
		}
		display := strings.TrimSpace(item)

		if name, ok := c.match(key); ok {
			result.add(name, display)
			continue
		}
		leftover = append(leftover, display)
	}

	for _, item := range leftover {
		result.add(c.catchAll, item)
	}
	return result
}

// Sort tokenizes raw text and categorizes the resulting items.
func (c *Classifier) Sort(raw string) Result {
	return c.Categorize(Tokenize(raw))
}

func (c *Classifier) match(key string) (string, bool) {
	for _, cat := range c.categories {
		for _, k := range cat.keywords {
			if strings.Contains(key, k) || strings.Contains(k, key) {
				return cat.name, true
			}
		}
	}
	return "", false
}

func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}
