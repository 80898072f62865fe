package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

// maxInlineWidth is the longest list rendered on a single line.
const maxInlineWidth = 100

// Format writes s to w using KiCad's layout: short lists whose children are
// atoms or atom-only lists stay on one line, anything else puts each child
// list on its own line indented by two spaces.
func Format(w io.Writer, s Sexp) error {
	bw := bufio.NewWriter(w)
	writeSexp(bw, s, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

// FormatString is Format into a string.
func FormatString(s Sexp) string {
	var b strings.Builder
	_ = Format(&b, s)
	return b.String()
}

func writeSexp(w *bufio.Writer, s Sexp, depth int) {
	l, ok := s.(*List)
	if !ok {
		w.WriteString(s.String())
		return
	}

	if isInline(l) {
		w.WriteString(l.String())
		return
	}

	w.WriteByte('(')
	for i, elem := range l.elements {
		if elem.IsLeaf() {
			if i > 0 {
				w.WriteByte(' ')
			}
			w.WriteString(elem.String())
			continue
		}
		w.WriteByte('\n')
		w.WriteString(strings.Repeat("  ", depth+1))
		writeSexp(w, elem, depth+1)
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteByte(')')
}

func isInline(l *List) bool {
	for _, elem := range l.elements {
		child, ok := elem.(*List)
		if !ok {
			continue
		}
		for _, grandchild := range child.elements {
			if !grandchild.IsLeaf() {
				return false
			}
		}
	}
	return len(l.String()) <= maxInlineWidth
}
