// Package decoder implements the recursive-descent decoder for the wire
// format: component D of the spec. It consumes typed tokens produced by
// internal/cursor, validates structure, applies the length-mismatch
// recovery policy of §4.5, and produces a value.Value tree.
package decoder

import (
	"errors"

	"github.com/sokojh/phpserialize-go/internal/cursor"
	"github.com/sokojh/phpserialize-go/value"
)

// DefaultMaxDepth is the recursion bound applied unless a caller overrides
// it, per §5's "Memory safety" guidance (suggested default: 512).
const DefaultMaxDepth = 512

// Options configures a single Decode call. The zero value behaves the same
// as DefaultOptions, since Decode treats a zero MaxDepth as DefaultMaxDepth.
type Options struct {
	// Strict, when true, makes the declared string length of §4.5
	// authoritative: any mismatch between declared and actual length
	// fails instead of triggering the bounded-window recovery scan.
	Strict bool
	// MaxDepth bounds container nesting (§5). Zero means DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns the spec's default configuration: lenient string
// recovery, MaxDepth of DefaultMaxDepth.
func DefaultOptions() Options {
	return Options{Strict: false, MaxDepth: DefaultMaxDepth}
}

// Result is the full output of a Decode call: the parsed tree plus the
// reference ledger of §4.8.
type Result struct {
	Value value.Value
	// ValueCount is the number of values assigned an implicit ordinal
	// during this parse (every value except Ref itself; see invariant 4
	// in §3.2 and §4.8). It is not currently consumed by any component in
	// this repository, but is reserved for a future reference-resolution
	// binding layer.
	ValueCount int64
}

// Decode performs a full parse of one top-level value from buf. buf is
// assumed to already be preprocessed (see the unescape package); Decode
// itself does no DB-escape unwrapping. It fails with a *Error of kind
// TrailingBytes if non-whitespace bytes remain after the top-level value.
//
// Decode never panics: any unexpected internal failure is recovered and
// reported as a *Error of kind Internal, per §7's never-panic guarantee.
func Decode(buf []byte, opts Options) (result Result, err error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	defer func() {
		if r := recover(); r != nil {
			result = Result{}
			err = newError(Internal, 0, "recovered from internal panic: %v", r)
		}
	}()

	d := &dec{c: cursor.New(buf), opts: opts}
	v, derr := d.decodeValue()
	if derr != nil {
		return Result{}, derr
	}
	if off := trailingNonSpace(buf, d.c.Offset()); off >= 0 {
		return Result{}, newError(TrailingBytes, off, "unparsed bytes after top-level value")
	}
	return Result{Value: v, ValueCount: d.valueCount}, nil
}

// trailingNonSpace returns the offset of the first non-whitespace byte at
// or after from, or -1 if none remain.
func trailingNonSpace(buf []byte, from int) int {
	for i := from; i < len(buf); i++ {
		switch buf[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return i
		}
	}
	return -1
}

type dec struct {
	c          *cursor.Cursor
	opts       Options
	depth      int
	valueCount int64
}

var errShort = errors.New("short")

// decodeValue dispatches on the first byte per the grammar table in §4.3.
func (d *dec) decodeValue() (value.Value, error) {
	tag, ok := d.c.Peek()
	if !ok {
		return value.Value{}, newError(UnexpectedEnd, d.c.Offset(), "expected a value, found end of input")
	}

	var v value.Value
	var err error
	switch tag {
	case 'N':
		v, err = d.decodeNull()
	case 'b':
		v, err = d.decodeBool()
	case 'i':
		v, err = d.decodeInt()
	case 'd':
		v, err = d.decodeFloat()
	case 's':
		v, err = d.decodeStr()
	case 'a':
		v, err = d.decodeAssoc()
	case 'O':
		v, err = d.decodeObj()
	case 'E':
		v, err = d.decodeEnum()
	case 'R':
		return d.decodeRef(value.RefValueKind)
	case 'r':
		return d.decodeRef(value.RefObjectKind)
	default:
		return value.Value{}, newError(UnknownTag, d.c.Offset(), "unrecognized type tag %q", tag)
	}
	if err != nil {
		return value.Value{}, err
	}
	d.valueCount++
	return v, nil
}

func (d *dec) decodeNull() (value.Value, error) {
	off := d.c.Offset()
	if err := d.c.ExpectSeq([]byte("N;")); err != nil {
		return value.Value{}, wrapCursorErr(err, off, "malformed Null")
	}
	return value.Null(), nil
}

func (d *dec) decodeBool() (value.Value, error) {
	off := d.c.Offset()
	if err := d.c.ExpectSeq([]byte("b:")); err != nil {
		return value.Value{}, wrapCursorErr(err, off, "malformed Bool")
	}
	digit, ok := d.c.Peek()
	if !ok {
		return value.Value{}, newError(UnexpectedEnd, d.c.Offset(), "truncated Bool")
	}
	var b bool
	switch digit {
	case '0':
		b = false
	case '1':
		b = true
	default:
		return value.Value{}, newError(UnexpectedByte, d.c.Offset(), "expected 0 or 1 in Bool, found %q", digit)
	}
	d.c.Advance(1)
	if err := d.c.Expect(';'); err != nil {
		return value.Value{}, wrapCursorErr(err, d.c.Offset(), "malformed Bool")
	}
	return value.Bool(b), nil
}

func (d *dec) decodeInt() (value.Value, error) {
	off := d.c.Offset()
	if err := d.c.ExpectSeq([]byte("i:")); err != nil {
		return value.Value{}, wrapCursorErr(err, off, "malformed Int")
	}
	n, err := d.c.ReadSignedIntUntil(';')
	if err != nil {
		return value.Value{}, wrapCursorErr(err, d.c.Offset(), "malformed Int")
	}
	return value.Int(n), nil
}

func wrapCursorErr(err error, offset int, context string) *Error {
	var ube *cursor.UnexpectedByteError
	var bne *cursor.BadNumberError
	switch {
	case errors.As(err, &ube):
		return newError(UnexpectedByte, ube.Offset, "%s: expected %q, found %q", context, ube.Want, ube.Got)
	case errors.As(err, &bne):
		return newError(BadNumber, bne.Offset, "%s: %s", context, bne.Reason)
	case errors.Is(err, cursor.ErrShortBuffer):
		return newError(UnexpectedEnd, offset, "%s: unexpected end of input", context)
	default:
		return newError(UnexpectedEnd, offset, "%s: %v", context, err)
	}
}
