package dispatch

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned when the first token names no registered
// command, or when there is no token at all.
var ErrUnknownCommand = errors.New("unknown command")

// GrammarMismatchError reports arguments that do not satisfy a command's
// grammar.
type GrammarMismatchError struct {
	Command string
	Usage   string
}

func (e *GrammarMismatchError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("arguments do not match %s grammar", e.Command)
}

// IsGrammarMismatch reports whether err is a *GrammarMismatchError.
func IsGrammarMismatch(err error) bool {
	var gerr *GrammarMismatchError
	return errors.As(err, &gerr)
}
