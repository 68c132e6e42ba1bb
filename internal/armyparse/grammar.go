// Package armyparse turns army strings such as
// "1 General 150 Recruit + 200 Soldier" into combat armies.
package armyparse

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var armyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Count", Pattern: `[0-9]+`},
	{Name: "Word", Pattern: `[\p{L}][\p{L}'.\-]*`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Whitespace", Pattern: `[\s,;]+`},
})

// waveList is a sequence of waves separated by "+"
type waveList struct {
	Waves []*wave `parser:"@@ ( Plus @@ )*"`
}

type wave struct {
	Groups []*group `parser:"@@+"`
}

type group struct {
	Pos   lexer.Position
	Count int      `parser:"@Count"`
	Words []string `parser:"@Word+"`
}

func (g *group) name() string { return strings.Join(g.Words, " ") }

func buildParser() *participle.Parser[waveList] {
	return participle.MustBuild[waveList](
		participle.Lexer(armyLexer),
		participle.Elide("Whitespace"),
	)
}
