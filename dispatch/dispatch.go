// Package dispatch routes prefixed chat messages to registered commands.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sergev/quirkbot/lexer"
)

// Dispatcher recognizes a command prefix, tokenizes the rest of the
// message and runs the named command's grammar over the arguments.
// Its fields are not modified after New.
type Dispatcher struct {
	prefix   string
	lexer    *lexer.Lexer
	registry *Registry
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for stage-by-stage debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithLexer replaces the default lexer.
func WithLexer(lx *lexer.Lexer) Option {
	return func(d *Dispatcher) {
		if lx != nil {
			d.lexer = lx
		}
	}
}

// New returns a dispatcher for messages beginning with prefix.
func New(prefix string, reg *Registry, opts ...Option) (*Dispatcher, error) {
	if prefix == "" {
		return nil, errors.New("dispatch: empty prefix")
	}
	if reg == nil {
		return nil, errors.New("dispatch: nil registry")
	}
	d := &Dispatcher{
		prefix:   prefix,
		registry: reg,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.lexer == nil {
		d.lexer = lexer.Default(lexer.WithLogger(d.logger.With(slog.String("component", "lexer"))))
	}
	return d, nil
}

// Prefix returns the command prefix.
func (d *Dispatcher) Prefix() string { return d.prefix }

// Registry returns the command registry.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Execute runs msg and returns the command's reply. Failures are reported
// as lexer.ErrPrefixMismatch, *lexer.LexicalError, ErrUnknownCommand or
// *GrammarMismatchError.
func (d *Dispatcher) Execute(msg string) (string, error) {
	tokens, err := d.lexer.Tokenize(msg, d.prefix)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return "", ErrUnknownCommand
	}
	name := tokens[0].Text()
	cmd, ok := d.registry.Lookup(name)
	if !ok {
		return "", ErrUnknownCommand
	}
	d.logger.Debug("running command", slog.String("command", name), slog.Any("args", tokens[1:]))
	g, ok := cmd.Grammar.Match(tokens[1:], 0)
	if !ok {
		return "", &GrammarMismatchError{Command: name, Usage: cmd.Usage}
	}
	return replyText(g.Value), nil
}

// Dispatch returns the reply to msg. It never fails: messages that are
// not commands for this dispatcher come back unchanged, a lexical error
// becomes its description and a grammar mismatch becomes the usage text.
func (d *Dispatcher) Dispatch(msg string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			name := d.commandName(msg)
			d.logger.Error("command panicked", slog.String("command", name), slog.Any("panic", r))
			reply = fmt.Sprintf("Command %s failed.", name)
		}
	}()

	out, err := d.Execute(msg)
	var lerr *lexer.LexicalError
	var gerr *GrammarMismatchError
	switch {
	case err == nil:
		d.logger.Debug("reply", slog.String("text", out))
		return out
	case errors.Is(err, lexer.ErrPrefixMismatch):
		d.logger.Debug("prefix mismatch, passing through")
		return msg
	case errors.Is(err, ErrUnknownCommand):
		d.logger.Debug("unknown command, passing through")
		return msg
	case errors.As(err, &lerr):
		d.logger.Debug("lexical error", slog.String("error", lerr.Error()))
		return lerr.Error()
	case errors.As(err, &gerr):
		d.logger.Debug("grammar mismatch", slog.String("command", gerr.Command))
		return gerr.Usage
	default:
		d.logger.Warn("unexpected dispatch error", slog.Any("error", err))
		return msg
	}
}

func (d *Dispatcher) commandName(msg string) string {
	tokens, err := d.lexer.Tokenize(msg, d.prefix)
	if err != nil || len(tokens) == 0 {
		return "?"
	}
	return tokens[0].Text()
}

func replyText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
