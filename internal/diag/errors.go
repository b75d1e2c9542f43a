package diag

import (
	"errors"
	"fmt"
	"strings"

	"nlib/internal/source"
)

// Error classes. Every *Error unwraps to exactly one of them, so callers
// branch with errors.Is(err, diag.ErrSyntax) and friends.
var (
	ErrSyntax     = errors.New("syntax error")
	ErrSemantic   = errors.New("semantic error")
	ErrResolution = errors.New("resolution error")
	ErrIO         = errors.New("i/o error")
)

// Error is an unrecoverable diagnostic raised by a load phase.
type Error struct {
	Class   error
	Code    Code
	Message string
	Path    string
	Pos     source.LineCol // zero when the failure has no source position
	Span    source.Span
	Cause   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		if e.Pos.Line != 0 {
			fmt.Fprintf(&sb, ":%d:%d", e.Pos.Line, e.Pos.Col)
		}
		sb.WriteString(": ")
	}
	sb.WriteString(e.Code.ID())
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Class != nil {
		out = append(out, e.Class)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// Diagnostic converts the error into an error-severity diagnostic.
func (e *Error) Diagnostic() Diagnostic {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return Diagnostic{Severity: SevError, Code: e.Code, Message: msg, Primary: e.Span}
}

// Positioned fills Path/Pos/Span from fs when the error carries none yet.
func (e *Error) Positioned(fs *source.FileSet, sp source.Span) *Error {
	if e == nil || fs == nil || e.Path != "" {
		return e
	}
	e.Span = sp
	e.Path, e.Pos = fs.Position(sp)
	return e
}

// Errorf builds an *Error of the given class.
func Errorf(class error, code Code, format string, args ...any) *Error {
	return &Error{Class: class, Code: code, Message: fmt.Sprintf(format, args...)}
}

// At builds a positioned *Error for span sp of fs.
func At(fs *source.FileSet, sp source.Span, class error, code Code, msg string) *Error {
	return (&Error{Class: class, Code: code, Message: msg}).Positioned(fs, sp)
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
