package classifier

import (
	"bytes"
	"encoding/json"
)

// Group is one category of a Result with its items in assignment order.
type Group struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Result is an ordered mapping from category name to items. The zero value is
// an empty result.
type Result struct {
	groups []Group
	index  map[string]int
}

func (r *Result) add(category, item string) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	i, ok := r.index[category]
	if !ok {
		i = len(r.groups)
		r.index[category] = i
		r.groups = append(r.groups, Group{Category: category})
	}
	r.groups[i].Items = append(r.groups[i].Items, item)
}

func (r Result) Empty() bool { return len(r.groups) == 0 }

// Categories returns the category names in output order.
func (r Result) Categories() []string {
	names := make([]string, len(r.groups))
	for i, g := range r.groups {
		names[i] = g.Category
	}
	return names
}

// Items returns the items assigned to category, or nil.
func (r Result) Items(category string) []string {
	i, ok := r.index[category]
	if !ok {
		return nil
	}
	return append([]string(nil), r.groups[i].Items...)
}

// Groups returns a copy of the result as an ordered slice.
func (r Result) Groups() []Group {
	out := make([]Group, len(r.groups))
	for i, g := range r.groups {
		out[i] = Group{Category: g.Category, Items: append([]string(nil), g.Items...)}
	}
	return out
}

// Count is the total number of items across all categories.
func (r Result) Count() int {
	n := 0
	for _, g := range r.groups {
		n += len(g.Items)
	}
	return n
}

// MarshalJSON encodes the result as a JSON object whose keys keep the result order.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range r.groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Category)
		if err != nil {
			return nil, err
		}
		items, err := json.Marshal(g.Items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(items)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
