// Package combinator composes token matchers into command grammars.
//
// A Parser inspects a token slice from a start index and either fails or
// yields a Graft holding the parsed value and the index of the first
// unconsumed token. Every constructor returns an Expr, whose Then, Or and
// Map methods build larger grammars:
//
//	dice := combinator.Tag(lexer.TagInt).
//		Then(combinator.LitFold("d")).
//		Then(combinator.Tag(lexer.TagInt))
//
// Alternation is ordered and never backtracks into an alternative that
// has already succeeded.
package combinator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sergev/quirkbot/lexer"
)

// Graft is the result of a successful match.
type Graft struct {
	Value any
	Next  int
}

// Tuple is the value produced by a chain of sequences.
type Tuple []any

// Parser matches tokens starting at index start. A successful match never
// moves Next before start.
type Parser interface {
	Match(tokens []lexer.Token, start int) (Graft, bool)
}

// Expr wraps a Parser with chaining methods.
type Expr struct {
	Parser
}

// Of lifts any Parser into an Expr.
func Of(p Parser) Expr {
	if e, ok := p.(Expr); ok {
		return e
	}
	return Expr{Parser: p}
}

// Then matches e followed by next.
func (e Expr) Then(next Parser) Expr { return Seq(e, next) }

// Or matches e, or next if e fails.
func (e Expr) Or(next Parser) Expr { return Alt(e, next) }

// Map transforms the value of a successful match.
func (e Expr) Map(fn func(any) any) Expr { return Map(e, fn) }

func (e Expr) String() string { return render(e.Parser) }

// Literal matches a token whose text equals Ref exactly.
type Literal struct {
	Ref string
}

// Lit returns a case-sensitive literal matcher.
func Lit(ref string) Expr { return Expr{&Literal{Ref: ref}} }

func (p *Literal) Match(tokens []lexer.Token, start int) (Graft, bool) {
	if start < 0 || start >= len(tokens) || tokens[start].Text() != p.Ref {
		return Graft{}, false
	}
	return Graft{Value: tokens[start].Text(), Next: start + 1}, true
}

func (p *Literal) String() string { return fmt.Sprintf("Literal(%q)", p.Ref) }

// LiteralFold matches a token whose text equals Ref ignoring case.
type LiteralFold struct {
	Ref string
}

// LitFold returns a case-insensitive literal matcher.
func LitFold(ref string) Expr { return Expr{&LiteralFold{Ref: ref}} }

func (p *LiteralFold) Match(tokens []lexer.Token, start int) (Graft, bool) {
	if start < 0 || start >= len(tokens) || !strings.EqualFold(tokens[start].Text(), p.Ref) {
		return Graft{}, false
	}
	return Graft{Value: tokens[start].Text(), Next: start + 1}, true
}

func (p *LiteralFold) String() string { return fmt.Sprintf("LiteralFold(%q)", p.Ref) }

// Tagged matches a token carrying Tag.
type Tagged struct {
	Tag lexer.Tag
}

// Tag returns a matcher for tokens of the given category.
func Tag(tag lexer.Tag) Expr { return Expr{&Tagged{Tag: tag}} }

func (p *Tagged) Match(tokens []lexer.Token, start int) (Graft, bool) {
	if start < 0 || start >= len(tokens) || tokens[start].Tag() != p.Tag {
		return Graft{}, false
	}
	return Graft{Value: tokens[start].Text(), Next: start + 1}, true
}

func (p *Tagged) String() string { return fmt.Sprintf("Tagged(%s)", p.Tag) }

// Sequence matches Left and then Right where Left stopped. The value is a
// Tuple; a Tuple produced by Left is extended rather than nested.
type Sequence struct {
	Left, Right Parser
}

// Seq returns a sequence of left and right.
func Seq(left, right Parser) Expr { return Expr{&Sequence{Left: left, Right: right}} }

func (p *Sequence) Match(tokens []lexer.Token, start int) (Graft, bool) {
	l, ok := p.Left.Match(tokens, start)
	if !ok {
		return Graft{}, false
	}
	r, ok := p.Right.Match(tokens, l.Next)
	if !ok {
		return Graft{}, false
	}
	var val Tuple
	if lt, isTuple := l.Value.(Tuple); isTuple {
		val = make(Tuple, 0, len(lt)+1)
		val = append(val, lt...)
		val = append(val, r.Value)
	} else {
		val = Tuple{l.Value, r.Value}
	}
	return Graft{Value: val, Next: r.Next}, true
}

// Alternative matches Left, falling back to Right only if Left fails.
type Alternative struct {
	Left, Right Parser
}

// Alt returns an ordered choice between left and right.
func Alt(left, right Parser) Expr { return Expr{&Alternative{Left: left, Right: right}} }

func (p *Alternative) Match(tokens []lexer.Token, start int) (Graft, bool) {
	if g, ok := p.Left.Match(tokens, start); ok {
		return g, true
	}
	return p.Right.Match(tokens, start)
}

// Mapped applies Fn to the value of a successful Inner match.
type Mapped struct {
	Inner Parser
	Fn    func(any) any
}

// Map returns a parser whose value is fn applied to p's value.
func Map(p Parser, fn func(any) any) Expr { return Expr{&Mapped{Inner: p, Fn: fn}} }

func (p *Mapped) Match(tokens []lexer.Token, start int) (Graft, bool) {
	g, ok := p.Inner.Match(tokens, start)
	if !ok {
		return Graft{}, false
	}
	return Graft{Value: p.Fn(g.Value), Next: g.Next}, true
}

// Optional always succeeds; a failed Inner match yields a nil value
// without consuming tokens.
type Optional struct {
	Inner Parser
}

// Opt makes p optional.
func Opt(p Parser) Expr { return Expr{&Optional{Inner: p}} }

func (p *Optional) Match(tokens []lexer.Token, start int) (Graft, bool) {
	if g, ok := p.Inner.Match(tokens, start); ok {
		return g, true
	}
	return Graft{Value: nil, Next: start}, true
}

// Repeated matches Inner greedily one or more times. The value is a
// []any of the individual values.
//
// A match that consumes nothing ends the loop after being recorded once,
// so a zero-width Inner cannot spin forever.
type Repeated struct {
	Inner Parser
}

// Many returns a one-or-more repetition of p.
func Many(p Parser) Expr { return Expr{&Repeated{Inner: p}} }

func (p *Repeated) Match(tokens []lexer.Token, start int) (Graft, bool) {
	var values []any
	idx := start
	for {
		g, ok := p.Inner.Match(tokens, idx)
		if !ok {
			break
		}
		values = append(values, g.Value)
		advanced := g.Next > idx
		idx = g.Next
		if !advanced {
			break
		}
	}
	if len(values) == 0 {
		return Graft{}, false
	}
	return Graft{Value: values, Next: idx}, true
}

// Exact succeeds only when Inner consumes every remaining token.
type Exact struct {
	Inner Parser
}

// Whole requires p to match the entire token slice from the start index.
func Whole(p Parser) Expr { return Expr{&Exact{Inner: p}} }

func (p *Exact) Match(tokens []lexer.Token, start int) (Graft, bool) {
	g, ok := p.Inner.Match(tokens, start)
	if !ok || g.Next != len(tokens) {
		return Graft{}, false
	}
	return g, true
}

// Deferred resolves its parser on first use. It lets a grammar refer to
// itself before its definition is complete. Resolution happens once even
// when the grammar is shared between goroutines.
type Deferred struct {
	once     sync.Once
	thunk    func() Parser
	resolved Parser
}

// Lazy returns a parser that obtains its implementation from thunk on
// the first Match and caches it.
func Lazy(thunk func() Parser) Expr { return Expr{&Deferred{thunk: thunk}} }

func (p *Deferred) Match(tokens []lexer.Token, start int) (Graft, bool) {
	p.once.Do(func() {
		if p.thunk != nil {
			p.resolved = p.thunk()
			p.thunk = nil
		}
	})
	if p.resolved == nil {
		return Graft{}, false
	}
	return p.resolved.Match(tokens, start)
}
