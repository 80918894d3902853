package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sergev/quirkbot/combinator"
	"github.com/sergev/quirkbot/dispatch"
	"github.com/sergev/quirkbot/lexer"
)

// CalcUsage is shown when calc arguments do not parse.
const CalcUsage = "Calc format: <number> [+- <number>]..."

// number is a parsed operand. err is set when the literal does not fit
// a float64. signs holds the leading unary signs innermost first.
type number struct {
	literal string
	signs   []byte
	value   float64
	err     error
}

func (n number) text() string {
	var b strings.Builder
	b.Grow(len(n.signs) + len(n.literal))
	for i := len(n.signs) - 1; i >= 0; i-- {
		b.WriteByte(n.signs[i])
	}
	b.WriteString(n.literal)
	return b.String()
}

// Calc returns the command that adds and subtracts numbers, for example
// "calc 1.5 + -2 - 3".
func Calc() dispatch.Command {
	return dispatch.Command{
		Name:    "calc",
		Grammar: CalcGrammar().Map(evalCalc),
		Usage:   CalcUsage,
	}
}

// CalcGrammar matches operand [(SIGN operand)...] where an operand is any
// number of signs followed by an INT or FLOAT.
func CalcGrammar() combinator.Expr {
	var operand combinator.Expr
	operand = combinator.Alt(
		combinator.Tag(lexer.TagSign).
			Then(combinator.Lazy(func() combinator.Parser { return operand })).
			Map(applySign),
		combinator.Tag(lexer.TagInt).Or(combinator.Tag(lexer.TagFloat)).Map(parseNumber),
	)
	tail := combinator.Many(combinator.Tag(lexer.TagSign).Then(operand))
	return combinator.Whole(operand.Then(combinator.Opt(tail)))
}

func parseNumber(v any) any {
	text := v.(string)
	f, err := strconv.ParseFloat(text, 64)
	return number{literal: text, value: f, err: err}
}

func applySign(v any) any {
	t := v.(combinator.Tuple)
	sign, n := t[0].(string), t[1].(number)
	n.signs = append(n.signs, sign[0])
	if sign == "-" {
		n.value = -n.value
	}
	return n
}

func evalCalc(v any) any {
	t := v.(combinator.Tuple)
	first := t[0].(number)
	terms := []number{first}
	signs := []string{""}
	if rest, ok := t[1].([]any); ok {
		for _, item := range rest {
			pair := item.(combinator.Tuple)
			signs = append(signs, pair[0].(string))
			terms = append(terms, pair[1].(number))
		}
	}

	var b strings.Builder
	result := 0.0
	for i, n := range terms {
		if n.err != nil {
			return "Number out of range: " + n.text()
		}
		if i > 0 {
			fmt.Fprintf(&b, " %s ", signs[i])
		}
		b.WriteString(n.text())
		if signs[i] == "-" {
			result -= n.value
		} else {
			result += n.value
		}
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return "Result out of range!"
	}
	return fmt.Sprintf("Calculated %s = %s", b.String(), strconv.FormatFloat(result, 'g', -1, 64))
}
