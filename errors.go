package onig

import (
	"errors"

	"github.com/coregx/onig/syntax"
)

// ErrorString returns the message for code with ctx substituted for the
// pattern fragment the message refers to. ctx may be nil.
//
// Example:
//
//	msg := onig.ErrorString(syntax.ErrUndefinedNameReference, []byte("foo"))
//	// msg = "undefined name <foo> reference"
func ErrorString(code syntax.ErrorCode, ctx []byte) string {
	return code.Format(ctx)
}

// ErrorMessage formats err the way ErrorString does when err carries an
// error code, and falls back to err.Error() otherwise.
func ErrorMessage(err error) string {
	var e *syntax.Error
	if errors.As(err, &e) {
		return e.Code.Format(e.Context)
	}
	var code syntax.ErrorCode
	if errors.As(err, &code) {
		return code.Format(nil)
	}
	return err.Error()
}

// IsResourceExhausted reports whether err is a match or parse budget
// failure rather than a pattern error.
func IsResourceExhausted(err error) bool {
	kind, ok := syntax.KindOf(err)
	return ok && kind == syntax.KindResourceExhausted
}
