package combinator

import "fmt"

// render writes a grammar in the notation used by usage and debug output.
// Sequences join with " + " and alternatives with " | "; each is
// parenthesized when nested inside the other.
func render(p Parser) string {
	switch v := unwrap(p).(type) {
	case nil:
		return "<nil>"
	case *Sequence:
		return renderOperand(v.Left, v) + " + " + renderOperand(v.Right, v)
	case *Alternative:
		return renderOperand(v.Left, v) + " | " + renderOperand(v.Right, v)
	case *Mapped:
		return "Map(" + render(v.Inner) + ")"
	case *Optional:
		return "Optional(" + render(v.Inner) + ")"
	case *Repeated:
		return "Repeated(" + render(v.Inner) + ")"
	case *Exact:
		return "Exact(" + render(v.Inner) + ")"
	case *Deferred:
		// Never resolve here: a recursive grammar would render forever.
		return "Deferred(...)"
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}

func renderOperand(child Parser, parent Parser) string {
	c := unwrap(child)
	switch parent.(type) {
	case *Sequence:
		if _, ok := c.(*Alternative); ok {
			return "(" + render(c) + ")"
		}
	case *Alternative:
		if _, ok := c.(*Sequence); ok {
			return "(" + render(c) + ")"
		}
	}
	return render(c)
}

func unwrap(p Parser) Parser {
	for {
		e, ok := p.(Expr)
		if !ok {
			return p
		}
		p = e.Parser
	}
}

func (p *Sequence) String() string    { return render(p) }
func (p *Alternative) String() string { return render(p) }
func (p *Mapped) String() string      { return render(p) }
func (p *Optional) String() string    { return render(p) }
func (p *Repeated) String() string    { return render(p) }
func (p *Exact) String() string       { return render(p) }
func (p *Deferred) String() string    { return render(p) }
