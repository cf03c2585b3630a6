// Package grammar holds the declarative participle grammars for the small
// rule DSLs embedded in the input language: given-selection selector rules
// and runtime action rules. The first-order formula language itself is
// parsed by the hand-written parser in internal/parser.
package grammar

import (
	"github.com/alecthomas/participle/v2"
)

// SelectorRule is one given-selection entry:
//
//	part(hints, high, weight, hint) = all.
//	part(age, low, age, all) = 1.
type SelectorRule struct {
	Name     string `"part" "(" @Ident ","`
	Priority string `@("high" | "low") ","`
	Order    string `@("age" | "weight" | "wt" | "random") ","`
	Property string `@("all" | "initial" | "false" | "true" | "hint") ")"`
	Part     *Part  `"=" @@ "."?`
}

// Part is a selector's ratio share: a count, or "all" for an unbounded
// share (used by high-priority selectors that must drain first).
type Part struct {
	All   bool `  @"all"`
	Count int  `| @Integer`
}

// ActionRule is one runtime action:
//
//	given = 100 -> assign(max_weight, 25).
//	kept = 5000 -> exit.
type ActionRule struct {
	Trigger string  `@("given" | "generated" | "kept" | "level")`
	Count   int     `"=" @Integer Arrow`
	Action  *Action `@@ "."?`
}

// Action is the effect side of an action rule.
type Action struct {
	Set    *string `  "set" "(" @Ident ")"`
	Clear  *string `| "clear" "(" @Ident ")"`
	Assign *Assign `| @@`
	Exit   bool    `| @"exit"`
}

// Assign carries assign(parm, value); the value is kept lexically and
// coerced by the option store.
type Assign struct {
	Name  string `"assign" "(" @Ident ","`
	Value string `@(Integer | Float | Ident) ")"`
}

var selectorParser = participle.MustBuild[SelectorRule](
	participle.Lexer(RuleLexer),
	participle.Elide("Whitespace", "Comment"),
)

var actionParser = participle.MustBuild[ActionRule](
	participle.Lexer(RuleLexer),
	participle.Elide("Whitespace", "Comment"),
)

var attrActionParser = participle.MustBuild[Action](
	participle.Lexer(RuleLexer),
	participle.Elide("Whitespace", "Comment"),
)

// ParseSelectorRule parses one selector rule.
func ParseSelectorRule(src string) (*SelectorRule, error) {
	return selectorParser.ParseString("", src)
}

// ParseActionRule parses one action rule.
func ParseActionRule(src string) (*ActionRule, error) {
	return actionParser.ParseString("", src)
}

// ParseAttrAction parses a bare action, the form clause attributes carry.
func ParseAttrAction(src string) (*Action, error) {
	return attrActionParser.ParseString("", src)
}
