package kicadsexp

import (
	"fmt"
	"io"
	"sync"

	"github.com/alecthomas/participle/v2"
)

// document is the grammar root: any number of top-level expressions
type document struct {
	Exprs []*expr `@@*`
}

type expr struct {
	Symbol *string `  @Symbol`
	String *string `| @String`
	List   *list   `| @@`
}

type list struct {
	Items []*expr `LParen @@* RParen`
}

var documentParser = sync.OnceValues(func() (*participle.Parser[document], error) {
	return participle.Build[document](
		participle.Lexer(BoardLexer),
		participle.Elide("Whitespace", "Comment"),
	)
})

// Parse reads every top-level expression from r.
func Parse(r io.Reader) ([]Sexp, error) {
	p, err := documentParser()
	if err != nil {
		return nil, fmt.Errorf("failed to build s-expression parser: %w", err)
	}

	doc, err := p.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	out := make([]Sexp, 0, len(doc.Exprs))
	for _, e := range doc.Exprs {
		out = append(out, e.sexp())
	}
	return out, nil
}

func (e *expr) sexp() Sexp {
	switch {
	case e.Symbol != nil:
		return Symbol(*e.Symbol)
	case e.String != nil:
		return Quoted(unquote(*e.String))
	}

	l := &List{}
	if e.List != nil {
		l.elements = make([]Sexp, 0, len(e.List.Items))
		for _, item := range e.List.Items {
			l.elements = append(l.elements, item.sexp())
		}
	}
	return l
}
