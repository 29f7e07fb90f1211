// Package sheet holds the state behind a sort form: the text the user typed
// and the last grouping computed from it.
package sheet

import (
	"strings"

	"grocery-sorter/internal/classifier"
)

type State int

const (
	Empty State = iota
	HasResult
)

func (s State) String() string {
	if s == HasResult {
		return "has-result"
	}
	return "empty"
}

// Sorter is satisfied by *classifier.Classifier.
type Sorter interface {
	Sort(raw string) classifier.Result
}

type Sheet struct {
	sorter Sorter
	text   string
	result classifier.Result
}

func New(s Sorter) *Sheet {
	return &Sheet{sorter: s}
}

// SetText replaces the input without touching the last result.
func (s *Sheet) SetText(text string) { s.text = text }

func (s *Sheet) Text() string { return s.text }

func (s *Sheet) Result() classifier.Result { return s.result }

// CanSort reports whether there is anything to sort.
func (s *Sheet) CanSort() bool { return strings.TrimSpace(s.text) != "" }

func (s *Sheet) State() State {
	if s.result.Empty() {
		return Empty
	}
	return HasResult
}

// Sort stores text and groups it.
func (s *Sheet) Sort(text string) classifier.Result {
	s.text = text
	s.result = s.sorter.Sort(text)
	return s.result
}

func (s *Sheet) Clear() {
	s.text = ""
	s.result = classifier.Result{}
}
