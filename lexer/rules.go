package lexer

import "regexp"

// Rule pairs an anchored pattern with the tag emitted for its matches.
// Rules with TagNone advance the scanner without emitting a token.
type Rule struct {
	Pattern *regexp.Regexp
	Tag     Tag
}

// NewRule compiles expr anchored at the scan position.
func NewRule(expr string, tag Tag) (Rule, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)`)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Pattern: re, Tag: tag}, nil
}

func mustRule(expr string, tag Tag) Rule {
	r, err := NewRule(expr, tag)
	if err != nil {
		panic(err)
	}
	return r
}

// Order matters: quoted strings and floats must be tried before the
// integer and word rules that would otherwise split them.
var defaultRules = []Rule{
	mustRule(`\s+`, TagNone),
	mustRule(`[-+]`, TagSign),
	mustRule(`"[^"]*"|'[^']*'`, TagString),
	mustRule(`(\d+\.\d*|\.\d+)([eE][-+]?\d+)?`, TagFloat),
	mustRule(`\d+`, TagInt),
	mustRule(`[a-zA-Z]+`, TagWord),
	mustRule(`[@#a-zA-Z]\w*`, TagName),
}
