package lexer

import (
	"errors"
	"fmt"
)

// ErrPrefixMismatch is returned when a message does not begin with the command prefix.
var ErrPrefixMismatch = errors.New("prefix does not match")

// LexicalError reports a character that no lexical rule accepts.
type LexicalError struct {
	Char rune
	Pos  int // byte offset into the full message
}

func (e *LexicalError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("Bad character: %c (position %d)", e.Char, e.Pos)
}

// IsLexical reports whether the supplied error represents a lexical error.
func IsLexical(err error) bool {
	var lerr *LexicalError
	return errors.As(err, &lerr)
}
