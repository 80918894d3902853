package dispatch_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergev/quirkbot/combinator"
	"github.com/sergev/quirkbot/commands"
	"github.com/sergev/quirkbot/dispatch"
	"github.com/sergev/quirkbot/lexer"
)

func newDispatcher(t *testing.T, prefix string, opts ...dispatch.Option) *dispatch.Dispatcher {
	t.Helper()
	rng := rand.New(rand.NewPCG(7, 11))
	reg, err := dispatch.NewRegistry(commands.Standard(rng, commands.DefaultRollLimits())...)
	require.NoError(t, err)
	d, err := dispatch.New(prefix, reg, opts...)
	require.NoError(t, err)
	return d
}

func TestDispatchScenarios(t *testing.T) {
	d := newDispatcher(t, ">")

	plain := regexp.MustCompile(`^Rolled 8d8: [1-8]( \+ [1-8]){7} = \d+$`)
	withMod := regexp.MustCompile(`^Rolled 8d8\+8: \([1-8]( \+ [1-8]){7}\) \+ 8 = \d+$`)

	assert.Regexp(t, plain, d.Dispatch(">roll 8d8"))
	assert.Regexp(t, withMod, d.Dispatch(">roll 8d8+8"))
	assert.Equal(t, "!roll 8d8+8", d.Dispatch("!roll 8d8+8"))
	assert.Equal(t, ">call 8d8+8", d.Dispatch(">call 8d8+8"))
	assert.Equal(t, commands.RollUsage, d.Dispatch(">roll bluh"))
	assert.Equal(t, commands.RollUsage, d.Dispatch(">roll 1d"))
	assert.Equal(t, "Attempted to roll too many dice!", d.Dispatch(">roll 100d8+8"))
	assert.Equal(t, "Attempted to roll dice with too many faces!", d.Dispatch(">roll 8d200+8"))
}

func TestDispatchEdgeCases(t *testing.T) {
	d := newDispatcher(t, ">")

	assert.Equal(t, ">", d.Dispatch(">"))
	assert.Equal(t, ">   ", d.Dispatch(">   "))
	assert.Equal(t, "hello there", d.Dispatch("hello there"))
	assert.Equal(t, "Bad character: % (position 7)", d.Dispatch(">roll 8%8"))
	assert.Equal(t, "Bad character: % (position 6)", d.Dispatch(">call %"), "lexing precedes command lookup")
	assert.Equal(t, ">ROLL 8d8", d.Dispatch(">ROLL 8d8"), "command names are case-sensitive")
	assert.Equal(t, ">8 roll", d.Dispatch(">8 roll"))
	assert.Equal(t, "Calculated 1 + 2 = 3", d.Dispatch(">calc 1 + 2"))
	assert.Equal(t, "Available commands: calc, help, pick, roll", d.Dispatch(">help"))
}

func TestExecuteClassifiesFailures(t *testing.T) {
	d := newDispatcher(t, ">")

	_, err := d.Execute("!roll 8d8")
	assert.ErrorIs(t, err, lexer.ErrPrefixMismatch)

	_, err = d.Execute(">roll 8%8")
	assert.True(t, lexer.IsLexical(err), "got %v", err)

	_, err = d.Execute(">call 8d8")
	assert.ErrorIs(t, err, dispatch.ErrUnknownCommand)

	_, err = d.Execute(">")
	assert.ErrorIs(t, err, dispatch.ErrUnknownCommand)

	_, err = d.Execute(">roll bluh")
	var gerr *dispatch.GrammarMismatchError
	require.True(t, errors.As(err, &gerr), "got %v", err)
	assert.Equal(t, "roll", gerr.Command)
	assert.Equal(t, commands.RollUsage, gerr.Usage)
	assert.True(t, dispatch.IsGrammarMismatch(err))

	out, err := d.Execute(">roll 100d8")
	require.NoError(t, err, "policy rejections are successful parses")
	assert.Equal(t, "Attempted to roll too many dice!", out)
}

func TestIndependentPrefixes(t *testing.T) {
	gt := newDispatcher(t, ">")
	bang := newDispatcher(t, "!")

	assert.Equal(t, "!help", gt.Dispatch("!help"))
	assert.Equal(t, ">help", bang.Dispatch(">help"))
	assert.Equal(t, commands.HelpUsage, bang.Dispatch("!help help"))
	assert.Equal(t, "!", bang.Prefix())
	assert.Equal(t, gt.Registry().Names(), bang.Registry().Names())
}

type stringer struct{ s string }

func (s stringer) String() string { return "<" + s.s + ">" }

func TestReplyConversion(t *testing.T) {
	reg, err := dispatch.NewRegistry(
		dispatch.Command{Name: "num", Grammar: combinator.Whole(combinator.Tag(lexer.TagInt)).Map(func(any) any { return 42 })},
		dispatch.Command{Name: "str", Grammar: combinator.Whole(combinator.Tag(lexer.TagWord)).Map(func(v any) any { return stringer{v.(string)} })},
		dispatch.Command{Name: "raw", Grammar: combinator.Whole(combinator.Many(combinator.Tag(lexer.TagInt)))},
	)
	require.NoError(t, err)
	d, err := dispatch.New("/", reg)
	require.NoError(t, err)

	assert.Equal(t, "42", d.Dispatch("/num 1"))
	assert.Equal(t, "<hi>", d.Dispatch("/str hi"))
	assert.Equal(t, "[1 2]", d.Dispatch("/raw 1 2"))
	assert.Equal(t, "", d.Dispatch("/num x"), "empty usage is still the reply")
}

func TestDispatchRecoversFromPanickingCommand(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg, err := dispatch.NewRegistry(dispatch.Command{
		Name:    "boom",
		Grammar: combinator.Opt(combinator.Tag(lexer.TagInt)).Map(func(any) any { panic("kaboom") }),
	})
	require.NoError(t, err)
	d, err := dispatch.New(">", reg, dispatch.WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, "Command boom failed.", d.Dispatch(">boom"))
	assert.Contains(t, buf.String(), "kaboom")
}

func TestDispatchDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d := newDispatcher(t, ">", dispatch.WithLogger(logger))

	d.Dispatch(">roll bluh")
	d.Dispatch("plain chat")
	out := buf.String()
	assert.Contains(t, out, "grammar mismatch")
	assert.Contains(t, out, "prefix mismatch")
	assert.Contains(t, out, "component=lexer")
}

func TestCustomLexer(t *testing.T) {
	word, err := lexer.NewRule(`[a-z]+`, lexer.TagWord)
	require.NoError(t, err)
	space, err := lexer.NewRule(`\s+`, lexer.TagNone)
	require.NoError(t, err)
	lx, err := lexer.New([]lexer.Rule{space, word})
	require.NoError(t, err)

	d := newDispatcher(t, ">", dispatch.WithLexer(lx))
	assert.True(t, strings.HasPrefix(d.Dispatch(">roll 8d8"), "Bad character: 8"))
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	reg, err := dispatch.NewRegistry()
	require.NoError(t, err)

	_, err = dispatch.New("", reg)
	assert.Error(t, err)
	_, err = dispatch.New(">", nil)
	assert.Error(t, err)
}

func TestNewRegistryRejectsBadCommands(t *testing.T) {
	g := combinator.Tag(lexer.TagInt)

	_, err := dispatch.NewRegistry(dispatch.Command{Grammar: g})
	assert.Error(t, err)

	_, err = dispatch.NewRegistry(dispatch.Command{Name: "x"})
	assert.Error(t, err)

	_, err = dispatch.NewRegistry(dispatch.Command{Name: "x", Grammar: g}, dispatch.Command{Name: "x", Grammar: g})
	assert.ErrorContains(t, err, "duplicate")

	reg, err := dispatch.NewRegistry(dispatch.Command{Name: "b", Grammar: g}, dispatch.Command{Name: "a", Grammar: g})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, reg.Names())
	_, ok := reg.Lookup("a")
	assert.True(t, ok)
	_, ok = reg.Lookup("c")
	assert.False(t, ok)
}
