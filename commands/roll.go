// Package commands provides the built-in chat commands. Each command is a
// grammar built from the combinator package whose mapped value is the
// reply text.
package commands

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/sergev/quirkbot/combinator"
	"github.com/sergev/quirkbot/dispatch"
	"github.com/sergev/quirkbot/lexer"
)

// RollUsage is shown when roll arguments do not parse.
const RollUsage = "Roll format: <dice>d<faces>[+-]<mod>"

// RollLimits bounds what a single roll may ask for.
type RollLimits struct {
	MaxDice  int
	MaxFaces int
}

// DefaultRollLimits returns the standard roll limits.
func DefaultRollLimits() RollLimits {
	return RollLimits{MaxDice: 20, MaxFaces: 120}
}

// Roll returns the dice-rolling command, for example "roll 3d6+2".
func Roll(rng *rand.Rand, limits RollLimits) dispatch.Command {
	r := &roller{rng: rng, limits: limits}
	return dispatch.Command{
		Name:    "roll",
		Grammar: RollGrammar().Map(r.eval),
		Usage:   RollUsage,
	}
}

// RollGrammar matches <INT> d <INT> [(+|-) <INT>] and nothing more. Its
// value is Tuple{dice, "d", faces, nil | Tuple{sign, mod}}.
func RollGrammar() combinator.Expr {
	modifier := combinator.Lit("+").Or(combinator.Lit("-")).Then(combinator.Tag(lexer.TagInt))
	return combinator.Whole(
		combinator.Tag(lexer.TagInt).
			Then(combinator.LitFold("d")).
			Then(combinator.Tag(lexer.TagInt)).
			Then(combinator.Opt(modifier)),
	)
}

type roller struct {
	rng    *rand.Rand
	limits RollLimits
}

func (r *roller) eval(v any) any {
	args := v.(combinator.Tuple)
	dice, diceErr := strconv.Atoi(args[0].(string))
	faces, facesErr := strconv.Atoi(args[2].(string))
	switch {
	case diceErr != nil || dice > r.limits.MaxDice:
		return "Attempted to roll too many dice!"
	case dice < 1:
		return "Attempted to roll no dice!"
	case facesErr != nil || faces > r.limits.MaxFaces:
		return "Attempted to roll dice with too many faces!"
	case faces < 1:
		return "Attempted to roll dice with no faces!"
	}

	mod := 0
	if m, ok := args[3].(combinator.Tuple); ok {
		n, err := strconv.ParseInt(m[1].(string), 10, 32)
		if err != nil {
			return "Modifier is too large!"
		}
		mod = int(n)
		if m[0] == "-" {
			mod = -mod
		}
	}
	return r.roll(dice, faces, mod)
}

// roll draws the dice and formats the result.
func (r *roller) roll(dice, faces, mod int) string {
	rolls := make([]string, dice)
	sum := 0
	for i := range rolls {
		n := r.rng.IntN(faces) + 1
		sum += n
		rolls[i] = strconv.Itoa(n)
	}
	rollText := strings.Join(rolls, " + ")
	if mod == 0 {
		return fmt.Sprintf("Rolled %dd%d: %s = %d", dice, faces, rollText, sum)
	}
	sign := "+"
	if mod < 0 {
		sign = "-"
	}
	abs := mod
	if abs < 0 {
		abs = -abs
	}
	return fmt.Sprintf("Rolled %dd%d%s%d: (%s) %s %d = %d",
		dice, faces, sign, abs, rollText, sign, abs, sum+mod)
}
