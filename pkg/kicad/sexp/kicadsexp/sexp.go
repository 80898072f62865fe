// Package kicadsexp reads and writes the S-expressions of KiCad board
// files. Parse builds a tree of Symbol, Quoted and List values; Format
// writes trees built with NewList in KiCad's indentation style.
package kicadsexp

import (
	"strconv"
	"strings"
)

// Sexp represents an S-expression node.
// It can be either a leaf (atom) or a list.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// LeafCount returns the number of elements in a list (1 for atoms)
	LeafCount() int

	// Head returns the first element of a list (the atom itself for atoms)
	Head() Sexp

	// Tail returns the rest of the list after the first element (nil for atoms)
	Tail() Sexp

	// String returns the string representation
	String() string
}

// Symbol represents a bare atom (identifier, keyword, number)
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) LeafCount() int { return 1 }
func (s Symbol) Head() Sexp     { return s }
func (s Symbol) Tail() Sexp     { return nil }
func (s Symbol) String() string { return string(s) }

// Quoted represents a double-quoted string atom. The value is stored
// unescaped; String re-quotes it.
type Quoted string

func (q Quoted) IsLeaf() bool   { return true }
func (q Quoted) LeafCount() int { return 1 }
func (q Quoted) Head() Sexp     { return q }
func (q Quoted) Tail() Sexp     { return nil }
func (q Quoted) String() string { return strconv.Quote(string(q)) }

// Atom returns s as a bare Symbol when it lexes as one, and as a Quoted
// string otherwise.
func Atom(s string) Sexp {
	if s == "" || strings.ContainsAny(s, " \t\r\n()\"#") {
		return Quoted(s)
	}
	return Symbol(s)
}

// Value returns the text of an atom without quotes. Lists return "".
func Value(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Symbol:
		return string(v), true
	case Quoted:
		return string(v), true
	}
	return "", false
}

// List represents a list of S-expressions
type List struct {
	elements []Sexp
}

// NewList builds a list headed by the symbol name.
func NewList(name string, elems ...Sexp) *List {
	l := &List{elements: make([]Sexp, 0, len(elems)+1)}
	l.elements = append(l.elements, Symbol(name))
	l.elements = append(l.elements, elems...)
	return l
}

// Append adds elements to the end of the list and returns it for chaining.
func (l *List) Append(elems ...Sexp) *List {
	l.elements = append(l.elements, elems...)
	return l
}

func (l *List) IsLeaf() bool { return false }

func (l *List) LeafCount() int {
	return len(l.elements)
}

func (l *List) Head() Sexp {
	if len(l.elements) == 0 {
		return nil
	}
	return l.elements[0]
}

func (l *List) Tail() Sexp {
	if len(l.elements) <= 1 {
		return nil
	}
	return &List{elements: l.elements[1:]}
}

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(elem.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Get returns the element at the given index
func (l *List) Get(index int) Sexp {
	if index < 0 || index >= len(l.elements) {
		return nil
	}
	return l.elements[index]
}

// Len returns the number of elements in the list
func (l *List) Len() int {
	return len(l.elements)
}

// ParseString parses S-expressions from a string (convenience function)
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}
