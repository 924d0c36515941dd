// Package selector parses reference-designator selections such as
// `R1-R10, C*, !U1` and matches footprint references against them.
//
// Terms are comma separated. A term is an exact reference, a glob
// (path.Match syntax) or a numeric range between two references sharing a
// prefix. A leading '!' excludes the matched references. An expression
// without positive terms selects every reference not excluded.
package selector

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Selector is a compiled selection expression.
type Selector struct {
	include []matcher
	exclude []matcher
}

type matcher interface {
	match(ref string) bool
}

type exact string

func (e exact) match(ref string) bool { return string(e) == ref }

type glob string

func (g glob) match(ref string) bool {
	ok, _ := path.Match(string(g), ref)
	return ok
}

type span struct {
	prefix string
	lo, hi int
}

func (s span) match(ref string) bool {
	prefix, n, ok := splitRef(ref)
	return ok && prefix == s.prefix && n >= s.lo && n <= s.hi
}

// All returns a selector that matches every reference.
func All() *Selector {
	return &Selector{}
}

// Compile parses expr. An empty expression selects everything.
func Compile(expr string) (*Selector, error) {
	if strings.TrimSpace(expr) == "" {
		return All(), nil
	}

	ast, err := selectionParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("invalid selection %q: %w", expr, err)
	}

	s := &Selector{}
	for _, t := range ast.Terms {
		m, err := t.matcher()
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q: %w", expr, err)
		}
		if t.Negate {
			s.exclude = append(s.exclude, m)
		} else {
			s.include = append(s.include, m)
		}
	}
	return s, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Selector {
	s, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return s
}

func (t *term) matcher() (matcher, error) {
	if t.To == "" {
		if !isGlob(t.From) {
			return exact(t.From), nil
		}
		if _, err := path.Match(t.From, ""); err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", t.From, err)
		}
		return glob(t.From), nil
	}

	if isGlob(t.From) || isGlob(t.To) {
		return nil, fmt.Errorf("range %s-%s cannot contain wildcards", t.From, t.To)
	}
	fromPrefix, lo, ok := splitRef(t.From)
	if !ok {
		return nil, fmt.Errorf("range start %q has no number", t.From)
	}
	toPrefix, hi, ok := splitRef(t.To)
	if !ok {
		return nil, fmt.Errorf("range end %q has no number", t.To)
	}
	if fromPrefix != toPrefix {
		return nil, fmt.Errorf("range %s-%s mixes prefixes %q and %q", t.From, t.To, fromPrefix, toPrefix)
	}
	if lo > hi {
		return nil, fmt.Errorf("range %s-%s is reversed", t.From, t.To)
	}
	return span{prefix: fromPrefix, lo: lo, hi: hi}, nil
}

// Match reports whether ref is selected.
func (s *Selector) Match(ref string) bool {
	for _, m := range s.exclude {
		if m.match(ref) {
			return false
		}
	}
	if len(s.include) == 0 {
		return true
	}
	for _, m := range s.include {
		if m.match(ref) {
			return true
		}
	}
	return false
}

// Filter returns the selected references in their original order.
func (s *Selector) Filter(refs []string) []string {
	var out []string
	for _, ref := range refs {
		if s.Match(ref) {
			out = append(out, ref)
		}
	}
	return out
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

// splitRef splits "R12" into ("R", 12).
func splitRef(ref string) (string, int, bool) {
	prefix := strings.TrimRight(ref, "0123456789")
	digits := ref[len(prefix):]
	if digits == "" {
		return "", 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, false
	}
	return prefix, n, true
}
