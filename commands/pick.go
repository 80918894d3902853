package commands

import (
	"math/rand/v2"

	"github.com/sergev/quirkbot/combinator"
	"github.com/sergev/quirkbot/dispatch"
	"github.com/sergev/quirkbot/lexer"
)

// PickUsage is shown when pick arguments do not parse.
const PickUsage = `Pick format: <choice> <choice>... (quote choices with spaces: "ice cream")`

// Pick returns the command that chooses one of its arguments at random.
func Pick(rng *rand.Rand) dispatch.Command {
	return dispatch.Command{
		Name: "pick",
		Grammar: PickGrammar().Map(func(v any) any {
			items := v.([]any)
			return "Picked " + items[rng.IntN(len(items))].(string)
		}),
		Usage: PickUsage,
	}
}

// PickGrammar matches one or more choices. Quoted choices lose their
// quotes.
func PickGrammar() combinator.Expr {
	choice := combinator.Tag(lexer.TagString).Map(unquote).
		Or(combinator.Tag(lexer.TagWord)).
		Or(combinator.Tag(lexer.TagName)).
		Or(combinator.Tag(lexer.TagInt)).
		Or(combinator.Tag(lexer.TagFloat))
	return combinator.Whole(combinator.Many(choice))
}

func unquote(v any) any {
	s := v.(string)
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
