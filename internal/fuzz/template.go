// Package fuzz parses and renders header value templates. A template is a
// string carrying the %FUZZ% marker exactly once; rendering substitutes a
// wordlist entry for the marker.
package fuzz

import (
	"fmt"
	"strings"

	"github.com/maxvaer/headfuzz/internal/config"
)

// Template is a pre-split header value template. The zero value is not
// usable; construct one with Parse.
type Template struct {
	prefix string
	suffix string
	raw    string
}

// Parse validates that tpl contains the fuzz marker exactly once and splits
// it around the marker.
func Parse(tpl string) (*Template, error) {
	switch n := strings.Count(tpl, config.FuzzMarker); {
	case n == 0:
		return nil, fmt.Errorf("template %q does not contain the %s marker", tpl, config.FuzzMarker)
	case n > 1:
		return nil, fmt.Errorf("template %q contains the %s marker %d times, expected exactly one", tpl, config.FuzzMarker, n)
	}

	idx := strings.Index(tpl, config.FuzzMarker)
	return &Template{
		prefix: tpl[:idx],
		suffix: tpl[idx+len(config.FuzzMarker):],
		raw:    tpl,
	}, nil
}

// Render substitutes word for the marker. The word is used verbatim.
func (t *Template) Render(word string) string {
	return t.prefix + word + t.suffix
}

// String returns the original template text.
func (t *Template) String() string {
	return t.raw
}
