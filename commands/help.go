package commands

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/sergev/quirkbot/combinator"
	"github.com/sergev/quirkbot/dispatch"
	"github.com/sergev/quirkbot/lexer"
)

// HelpUsage is shown when help arguments do not parse.
const HelpUsage = "Help format: help [command]"

// Help returns a command describing cmds and itself.
func Help(cmds []dispatch.Command) dispatch.Command {
	usage := map[string]string{"help": HelpUsage}
	for _, c := range cmds {
		usage[c.Name] = c.Usage
	}
	names := make([]string, 0, len(usage))
	for name := range usage {
		names = append(names, name)
	}
	sort.Strings(names)

	topic := combinator.Tag(lexer.TagWord).Or(combinator.Tag(lexer.TagName))
	return dispatch.Command{
		Name: "help",
		Grammar: combinator.Whole(combinator.Opt(topic)).Map(func(v any) any {
			if v == nil {
				return "Available commands: " + strings.Join(names, ", ")
			}
			name := v.(string)
			if text, ok := usage[name]; ok {
				return text
			}
			return unknownTopic(name, names)
		}),
		Usage: HelpUsage,
	}
}

func unknownTopic(name string, names []string) string {
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		return fmt.Sprintf("No command named %s.", name)
	}
	sort.Sort(ranks)
	return fmt.Sprintf("No command named %s. Did you mean %s?", name, ranks[0].Target)
}

// Standard returns the built-in command set, help included.
func Standard(rng *rand.Rand, limits RollLimits) []dispatch.Command {
	cmds := []dispatch.Command{
		Roll(rng, limits),
		Calc(),
		Pick(rng),
	}
	return append(cmds, Help(cmds))
}
