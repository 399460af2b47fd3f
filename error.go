package liquid

import "fmt"

// ErrorKind describes the type of error.
type ErrorKind int

const (
	// ErrSyntax is malformed template or tag markup. Raised only at parse
	// time, never during render.
	ErrSyntax ErrorKind = iota

	// ErrUndefinedVar is a lookup step that matched neither a key nor a
	// command while strict variables are enabled. Raised at render time.
	ErrUndefinedVar

	// ErrInvalidOperation is a comparison between operand types that are
	// not mutually ordered.
	ErrInvalidOperation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax error"
	case ErrUndefinedVar:
		return "undefined variable"
	case ErrInvalidOperation:
		return "invalid operation"
	default:
		return "error"
	}
}

// Error represents an error that occurred during template processing.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int    // 1-based source line, 0 when unknown
	Name    string // template name
}

func (e *Error) Error() string {
	if e.Name != "" && e.Line > 0 {
		return fmt.Sprintf("%s: %s (at %s line %d)", e.Kind, e.Message, e.Name, e.Line)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (at line %d)", e.Kind, e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a new error.
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WithLine adds line information to an error.
func (e *Error) WithLine(line int) *Error {
	e.Line = line
	return e
}

// WithName adds the template name to an error.
func (e *Error) WithName(name string) *Error {
	e.Name = name
	return e
}
