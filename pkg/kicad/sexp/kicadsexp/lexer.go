package kicadsexp

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// BoardLexer defines the tokens of a KiCad s-expression file. Anything
// that is not a paren, a quoted string or whitespace is a bare symbol,
// so numbers, layer names like F.Cu and keywords all lex the same way.
var BoardLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},

	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	// "" inside a string is an escaped quote, as is \"
	{Name: "String", Pattern: `"(?:[^"\\]|\\.|"")*"`},

	{Name: "Symbol", Pattern: `[^\s()"]+`},
})

// unquote strips the surrounding quotes of a String token and resolves
// its escapes.
func unquote(tok string) string {
	s := tok[1 : len(tok)-1]
	if !strings.ContainsAny(s, `\"`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' && i+1 < len(s) && s[i+1] == '"':
			b.WriteByte('"')
			i++
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(s[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
