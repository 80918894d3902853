package lexer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Lexer splits command text into tokens using an ordered rule table.
// It holds no per-call state and may be reused.
type Lexer struct {
	rules  []Rule
	logger *slog.Logger
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(lx *Lexer) {
		if logger != nil {
			lx.logger = logger
		}
	}
}

// New constructs a lexer over the given rules, tried in order.
func New(rules []Rule, opts ...Option) (*Lexer, error) {
	if len(rules) == 0 {
		return nil, errors.New("lexer: no rules")
	}
	for i, r := range rules {
		if r.Pattern == nil {
			return nil, fmt.Errorf("lexer: rule %d has no pattern", i)
		}
	}
	lx := &Lexer{
		rules:  append([]Rule(nil), rules...),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(lx)
	}
	return lx, nil
}

// Default returns a lexer over the standard chat-command rule table.
func Default(opts ...Option) *Lexer {
	lx, err := New(defaultRules, opts...)
	if err != nil {
		panic(err)
	}
	return lx
}

// Tokenize checks that msg starts with prefix and scans the rest of it.
// It returns ErrPrefixMismatch or a *LexicalError on failure; no partial
// token list is returned in either case.
func (lx *Lexer) Tokenize(msg, prefix string) ([]Token, error) {
	if !strings.HasPrefix(msg, prefix) {
		return nil, ErrPrefixMismatch
	}
	var tokens []Token
	pos := len(prefix)
	for pos < len(msg) {
		n, tag, ok := lx.matchAt(msg[pos:])
		if !ok {
			r, _ := utf8.DecodeRuneInString(msg[pos:])
			lx.logger.Debug("no rule matches", slog.Int("pos", pos), slog.String("char", string(r)))
			return nil, &LexicalError{Char: r, Pos: pos}
		}
		if tag != TagNone {
			tokens = append(tokens, Token{text: msg[pos : pos+n], tag: tag})
		}
		pos += n
	}
	lx.logger.Debug("tokenized", slog.Int("count", len(tokens)))
	return tokens, nil
}

// matchAt returns the length and tag of the first rule matching at the
// start of rest. Empty matches never win, so the scanner always advances.
func (lx *Lexer) matchAt(rest string) (int, Tag, bool) {
	for _, r := range lx.rules {
		loc := r.Pattern.FindStringIndex(rest)
		if loc != nil && loc[0] == 0 && loc[1] > 0 {
			return loc[1], r.Tag, true
		}
	}
	return 0, TagNone, false
}
