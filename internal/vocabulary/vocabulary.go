// Package vocabulary loads category tables from YAML files.
//
// A vocabulary file looks like:
//
//	catch_all: Other
//	categories:
//	  - name: Dairy
//	    keywords: [milk, cream, cheese]
//	  - name: Bakery
//	    keywords: [bread, bagel]
//
// Category order in the file is match priority.
package vocabulary

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"grocery-sorter/internal/classifier"
)

type Vocabulary struct {
	CatchAll   string           `yaml:"catch_all,omitempty"`
	Categories classifier.Table `yaml:"categories"`
}

// Default wraps the built-in table.
func Default() *Vocabulary {
	return &Vocabulary{
		CatchAll:   classifier.DefaultCatchAll,
		Categories: classifier.DefaultTable(),
	}
}

func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	v, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	return v, nil
}

// Decode reads a vocabulary and checks that a classifier can be built from it.
func Decode(r io.Reader) (*Vocabulary, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var v Vocabulary
	if err := dec.Decode(&v); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty document")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if v.CatchAll == "" {
		v.CatchAll = classifier.DefaultCatchAll
	}

	if _, err := v.Classifier(); err != nil {
		return nil, err
	}
	return &v, nil
}

func (v *Vocabulary) Classifier() (*classifier.Classifier, error) {
	return classifier.New(v.Categories, classifier.WithCatchAll(v.CatchAll))
}

// Encode writes the vocabulary back as YAML.
func (v *Vocabulary) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
