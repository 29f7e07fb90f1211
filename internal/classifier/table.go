package classifier

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultCatchAll is the category that receives items no declared category matches.
const DefaultCatchAll = "Прочее"

var (
	ErrEmptyCategory     = errors.New("category name is empty")
	ErrEmptyKeyword      = errors.New("keyword is empty")
	ErrDuplicateCategory = errors.New("category declared twice")
	ErrReservedCategory  = errors.New("category name is reserved for the catch-all bucket")
)

// Category is one row of a Table: a name and the keywords that select it.
type Category struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// Table is an ordered list of categories. Order is priority: when an item
// matches keywords of two categories, the one declared first wins.
type Table []Category

// Names returns the category names in declaration order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, c := range t {
		names[i] = c.Name
	}
	return names
}

func (t Table) validate(catchAll string) error {
	seen := make(map[string]struct{}, len(t))
	for i, c := range t {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("category %d: %w", i, ErrEmptyCategory)
		}
		if strings.EqualFold(name, catchAll) {
			return fmt.Errorf("category %q: %w", name, ErrReservedCategory)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("category %q: %w", name, ErrDuplicateCategory)
		}
		seen[name] = struct{}{}

		for j, k := range c.Keywords {
			// An empty keyword would be contained in every item.
			if normalize(k) == "" {
				return fmt.Errorf("category %q keyword %d: %w", name, j, ErrEmptyKeyword)
			}
		}
	}
	return nil
}
