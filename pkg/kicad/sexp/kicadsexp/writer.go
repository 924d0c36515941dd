package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// Write serializes expressions in the indented layout KiCad itself emits:
// atom-only lists and short two-level lists stay on one line, anything
// else breaks its list children onto indented lines.
func Write(w io.Writer, exprs ...Sexp) error {
	bw := bufio.NewWriter(w)
	for _, e := range exprs {
		writeExpr(bw, e, 0)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Format returns the indented representation of a single expression.
func Format(e Sexp) string {
	var sb strings.Builder
	bw := bufio.NewWriter(&sb)
	writeExpr(bw, e, 0)
	bw.Flush()
	return sb.String()
}

func writeExpr(w *bufio.Writer, e Sexp, depth int) {
	list, ok := e.(*List)
	if !ok {
		w.WriteString(e.String())
		return
	}
	if isFlat(list) {
		w.WriteString(list.String())
		return
	}

	w.WriteByte('(')
	for i, child := range list.elements {
		if _, isList := child.(*List); isList && i > 0 {
			w.WriteByte('\n')
			w.WriteString(strings.Repeat("  ", depth+1))
		} else if i > 0 {
			w.WriteByte(' ')
		}
		writeExpr(w, child, depth+1)
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteByte(')')
}

const maxInlineWidth = 72

func isFlat(l *List) bool {
	nested := false
	for _, child := range l.elements {
		sub, ok := child.(*List)
		if !ok {
			continue
		}
		nested = true
		for _, grandchild := range sub.elements {
			if _, deeper := grandchild.(*List); deeper {
				return false
			}
		}
	}
	if !nested {
		return true
	}
	return len(l.String()) <= maxInlineWidth
}
