package selector

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// selectionLexer splits expressions such as `R1-R10, C*, !U1`.
var selectionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Not", Pattern: `!`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dash", Pattern: `-`},
	// References and glob patterns: R12, U?, C*, J[12], TP_3
	{Name: "Ref", Pattern: `[A-Za-z0-9_#.+*?\[\]^]+`},
})

// expression is a comma separated list of terms.
type expression struct {
	Terms []*term `@@ ( Comma @@ )*`
}

// term is one reference, range or glob, optionally negated.
// Examples: R1, !U1, R1-R10, C*
type term struct {
	Negate bool   `@Not?`
	From   string `@Ref`
	To     string `( Dash @Ref )?`
}

var selectionParser = participle.MustBuild[expression](
	participle.Lexer(selectionLexer),
	participle.Elide("Whitespace"),
)
