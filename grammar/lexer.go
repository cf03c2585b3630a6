package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var RuleLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `%[^\n]*`, nil},

		// Keywords and identifiers (order matters)
		{"Ident", `[a-zA-Z_$][a-zA-Z0-9_$]*`, nil},

		// Numbers
		{"Float", `-?[0-9]+\.[0-9]+`, nil},
		{"Integer", `-?[0-9]+`, nil},

		{"Arrow", `->`, nil},
		{"Operator", `=`, nil},
		{"Punctuation", `[(),.]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
