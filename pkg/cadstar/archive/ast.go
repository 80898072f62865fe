package archive

import (
	"fmt"
	"math"
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is the parse tree of a whole archive: a single root node
type File struct {
	Root *Node `@@`
}

// Node is one parenthesised element
// Example: (LAYER L1 "Top" (ELEC) (MAKE MAT1 3500))
type Node struct {
	Pos lexer.Position

	Name  string  `LParen @Ident`
	Items []*Item `@@* RParen`
}

// Item is a node argument: a nested node or an atom
type Item struct {
	Node   *Node   `  @@`
	String *string `| @String`
	Number *string `| @Number`
	Ident  *string `| @Ident`
}

// Atom returns the text of an atom item.
func (it *Item) Atom() (string, bool) {
	switch {
	case it.String != nil:
		return *it.String, true
	case it.Number != nil:
		return *it.Number, true
	case it.Ident != nil:
		return *it.Ident, true
	}
	return "", false
}

// Atoms returns the atom arguments of a node in order, skipping child nodes.
func (n *Node) Atoms() []string {
	var atoms []string
	for _, it := range n.Items {
		if a, ok := it.Atom(); ok {
			atoms = append(atoms, a)
		}
	}
	return atoms
}

// Nodes returns the child nodes in order.
func (n *Node) Nodes() []*Node {
	var nodes []*Node
	for _, it := range n.Items {
		if it.Node != nil {
			nodes = append(nodes, it.Node)
		}
	}
	return nodes
}

// Child returns the first child node with the given name.
func (n *Node) Child(name string) *Node {
	for _, it := range n.Items {
		if it.Node != nil && it.Node.Name == name {
			return it.Node
		}
	}
	return nil
}

// Children returns every child node with the given name.
func (n *Node) Children(name string) []*Node {
	var nodes []*Node
	for _, it := range n.Items {
		if it.Node != nil && it.Node.Name == name {
			nodes = append(nodes, it.Node)
		}
	}
	return nodes
}

// Atom returns the i-th atom argument.
func (n *Node) Atom(i int) (string, error) {
	atoms := n.Atoms()
	if i < 0 || i >= len(atoms) {
		return "", n.errorf("expected at least %d arguments, got %d", i+1, len(atoms))
	}
	return atoms[i], nil
}

// Int returns the i-th atom argument as an integer.
func (n *Node) Int(i int) (int64, error) {
	a, err := n.Atom(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(a, 10, 64)
	if err != nil {
		return 0, n.errorf("argument %d: %w", i+1, err)
	}
	return v, nil
}

// Decimal reads a (KEY mantissa exponent) node as mantissa × 10^-exponent.
// A missing exponent means 0.
func (n *Node) Decimal() (float64, error) {
	mantissa, err := n.Int(0)
	if err != nil {
		return 0, err
	}
	exponent := int64(0)
	if len(n.Atoms()) > 1 {
		if exponent, err = n.Int(1); err != nil {
			return 0, err
		}
	}
	if exponent >= 0 {
		return float64(mantissa) / math.Pow10(int(exponent)), nil
	}
	return float64(mantissa) * math.Pow10(int(-exponent)), nil
}

// Point reads a (PT x y) node.
func (n *Node) Point() (Point, error) {
	if n.Name != "PT" {
		return Point{}, n.errorf("expected PT, got %s", n.Name)
	}
	x, err := n.Int(0)
	if err != nil {
		return Point{}, err
	}
	y, err := n.Int(1)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

func (n *Node) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", n.Pos, n.Name, fmt.Errorf(format, args...))
}
