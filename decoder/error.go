package decoder

import "fmt"

// Kind classifies a decode failure. See §7 of the spec for the full list.
type Kind int

const (
	UnexpectedEnd Kind = iota
	UnexpectedByte
	UnknownTag
	BadNumber
	BadLength
	DepthExceeded
	TrailingBytes
	// Internal marks a failure recovered from an unexpected panic inside
	// the decoder — the never-panic guarantee's last-resort net, not a
	// normal decode outcome. See §7, "Never-panic guarantee".
	Internal
)

func (k Kind) String() string {
	switch k {
	case UnexpectedEnd:
		return "UnexpectedEnd"
	case UnexpectedByte:
		return "UnexpectedByte"
	case UnknownTag:
		return "UnknownTag"
	case BadNumber:
		return "BadNumber"
	case BadLength:
		return "BadLength"
	case DepthExceeded:
		return "DepthExceeded"
	case TrailingBytes:
		return "TrailingBytes"
	case Internal:
		return "Internal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the single error type returned by this package. Every decode
// failure is a *Error carrying the offset (into the preprocessed buffer)
// at which it was detected, for diagnostics.
type Error struct {
	Kind    Kind
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("decoder: %s at offset %d: %s", e.Kind, e.Offset, e.Message)
}

func newError(kind Kind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Message: fmt.Sprintf(format, args...)}
}
