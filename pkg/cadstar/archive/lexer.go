package archive

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ArchiveLexer defines the lexical structure of CADSTAR PCB archives.
// An archive is a tree of parenthesised nodes headed by an upper-case
// keyword; leaves are identifiers, integers and quoted strings.
var ArchiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Numbers before identifiers so -500 is not read as an identifier
	{Name: "Number", Pattern: `[-+]?[0-9]+(\.[0-9]+)?`},

	// Identifiers: keywords and element ids (L1, MAT_FR4, BOARD1, ...)
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\-\.]*`},
})
