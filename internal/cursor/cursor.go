// Package cursor implements a bounds-checked forward reader over a byte
// buffer, the primitive every component of the decoder builds on.
package cursor

import "errors"

// ErrShortBuffer is returned whenever a read would run past the end of the
// buffer. Callers that need a byte offset for diagnostics should use the
// Cursor's own Offset method rather than trying to infer it from this error.
var ErrShortBuffer = errors.New("cursor: unexpected end of buffer")

// Cursor is a bounds-checked reader over a byte slice that moves forward,
// except when Seek returns it to a previously saved offset. It
// never reads past len(buf) and never panics; every operation that can fail
// returns an error instead.
//
// A Cursor does not copy its input; Take returns sub-slices of the original
// buffer, so callers must not mutate buf while a Cursor (or anything
// derived from its Take results) is in use.
type Cursor struct {
	buf []byte
	pos int
}

// New returns a Cursor positioned at the start of buf.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the current read position, for use in error diagnostics.
func (c *Cursor) Offset() int {
	return c.pos
}

// Seek repositions the cursor at an absolute offset previously obtained
// from Offset, for the rare cases (§4.5's recovery scan) where a decoder
// needs to retry a read from a saved position. pos must be in
// [0, len(buf)].
func (c *Cursor) Seek(pos int) {
	c.pos = pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Peek returns the byte at the current position without advancing, and
// false if the cursor is at (or past) the end of the buffer.
func (c *Cursor) Peek() (byte, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	return c.buf[c.pos], true
}

// PeekAt returns the byte n positions ahead of the current one without
// advancing, and false if that position is out of bounds.
func (c *Cursor) PeekAt(n int) (byte, bool) {
	i := c.pos + n
	if i < 0 || i >= len(c.buf) {
		return 0, false
	}
	return c.buf[i], true
}

// Advance moves the cursor forward by n bytes. n must not exceed Remaining;
// callers that haven't already checked should use Take instead.
func (c *Cursor) Advance(n int) {
	c.pos += n
}

// Take reads and consumes the next n bytes, returning ErrShortBuffer if
// fewer than n bytes remain. The returned slice aliases the underlying
// buffer.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrShortBuffer
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Expect consumes the next byte and fails unless it equals want.
func (c *Cursor) Expect(want byte) error {
	got, ok := c.Peek()
	if !ok {
		return ErrShortBuffer
	}
	if got != want {
		return &UnexpectedByteError{Want: want, Got: got, Offset: c.pos}
	}
	c.pos++
	return nil
}

// ExpectSeq consumes len(want) bytes and fails unless they match exactly.
func (c *Cursor) ExpectSeq(want []byte) error {
	got, err := c.Take(len(want))
	if err != nil {
		return err
	}
	for i := range want {
		if got[i] != want[i] {
			return &UnexpectedByteError{Want: want[i], Got: got[i], Offset: c.pos - len(want) + i}
		}
	}
	return nil
}

// Index returns the position of the first occurrence of delim at or after
// the current position, within the next limit bytes, or -1 if not found.
// It does not consume any input.
func (c *Cursor) Index(delim byte, limit int) int {
	end := c.pos + limit
	if end > len(c.buf) || limit < 0 {
		end = len(c.buf)
	}
	for i := c.pos; i < end; i++ {
		if c.buf[i] == delim {
			return i - c.pos
		}
	}
	return -1
}

// IndexSeq returns the offset (relative to the current position) of the
// first occurrence of the byte sequence seq at or after the current
// position, scanning at most limit bytes of window, or -1 if not found.
func (c *Cursor) IndexSeq(seq []byte, limit int) int {
	if len(seq) == 0 {
		return 0
	}
	end := c.pos + limit
	if end > len(c.buf) || limit < 0 {
		end = len(c.buf)
	}
	// The match itself must fit within [pos, end), not just start there.
	last := end - len(seq)
	for i := c.pos; i <= last; i++ {
		if matchesAt(c.buf, i, seq) {
			return i - c.pos
		}
	}
	return -1
}

func matchesAt(buf []byte, i int, seq []byte) bool {
	if i+len(seq) > len(buf) {
		return false
	}
	for j := range seq {
		if buf[i+j] != seq[j] {
			return false
		}
	}
	return true
}

// ReadSignedIntUntil reads an optional leading '-', one or more decimal
// digits, then requires the delim byte, returning the parsed value and
// consuming through the delimiter.
func (c *Cursor) ReadSignedIntUntil(delim byte) (int64, error) {
	start := c.pos
	neg := false
	if b, ok := c.Peek(); ok && b == '-' {
		neg = true
		c.pos++
	}
	digitsStart := c.pos
	for {
		b, ok := c.Peek()
		if !ok {
			c.pos = start
			return 0, ErrShortBuffer
		}
		if b < '0' || b > '9' {
			break
		}
		c.pos++
	}
	if c.pos == digitsStart {
		off := c.pos
		c.pos = start
		return 0, &BadNumberError{Offset: off, Reason: "expected at least one digit"}
	}
	digits := c.buf[digitsStart:c.pos]
	if err := c.Expect(delim); err != nil {
		c.pos = start
		return 0, err
	}
	n, err := parseDecimal(digits, neg)
	if err != nil {
		return 0, &BadNumberError{Offset: digitsStart, Reason: err.Error()}
	}
	return n, nil
}

// UnexpectedByteError reports a byte mismatch at a known offset.
type UnexpectedByteError struct {
	Want   byte
	Got    byte
	Offset int
}

func (e *UnexpectedByteError) Error() string {
	return "cursor: unexpected byte"
}

// BadNumberError reports a malformed numeric token.
type BadNumberError struct {
	Offset int
	Reason string
}

func (e *BadNumberError) Error() string {
	return "cursor: bad number: " + e.Reason
}
