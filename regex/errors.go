package regex

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnmatchedLpar    = errors.New("unmatched '('")
	ErrUnmatchedRpar    = errors.New("unmatched ')'")
	ErrBareClosure      = errors.New("closure applies to nothing")
	ErrUnexpectedToken  = errors.New("unexpected token")
	ErrInvalidCharacter = errors.New("invalid character")
)

// QuerySyntaxError reports a malformed query expression. It is returned before
// any automaton is built.
type QuerySyntaxError struct {
	Expr   string
	Offset int // Byte offset of the offending token.
	Err    error
}

func (e *QuerySyntaxError) Error() string {
	return fmt.Sprintf("query syntax error at offset %d in %q: %v", e.Offset, e.Expr, e.Err)
}

func (e *QuerySyntaxError) Unwrap() error {
	return e.Err
}
