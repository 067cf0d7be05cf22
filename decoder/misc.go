package decoder

import (
	"bytes"

	"github.com/sokojh/phpserialize-go/value"
)

// readQuotedBytes parses <len>:"<bytes>" and returns the payload. It is
// used for Obj's class name and Enum's payload, both of which are declared-
// length quoted byte strings like Str but are not Str values themselves and
// so are not subject to the §4.5 recovery policy — only the decoder's Str
// production is.
func (d *dec) readQuotedBytes(what string) ([]byte, error) {
	lenOff := d.c.Offset()
	n, err := d.c.ReadSignedIntUntil(':')
	if err != nil {
		return nil, wrapCursorErr(err, lenOff, "malformed "+what+" length")
	}
	if n < 0 {
		return nil, newError(BadLength, lenOff, "declared %s length %d is negative", what, n)
	}
	quoteOff := d.c.Offset()
	if err := d.c.Expect('"'); err != nil {
		return nil, wrapCursorErr(err, quoteOff, what+" missing opening quote")
	}
	payload, err := d.c.Take(int(n))
	if err != nil {
		return nil, wrapCursorErr(err, d.c.Offset(), "truncated "+what)
	}
	closeOff := d.c.Offset()
	if err := d.c.Expect('"'); err != nil {
		return nil, wrapCursorErr(err, closeOff, what+" missing closing quote")
	}
	return payload, nil
}

// decodeEnum parses E:<len>:"<class>:<case>"; splitting the quoted payload
// at the first ASCII ':', per §4.4 and the "Open Questions" design note:
// the convention assumes case names never contain ':'.
func (d *dec) decodeEnum() (value.Value, error) {
	off := d.c.Offset()
	if err := d.c.ExpectSeq([]byte("E:")); err != nil {
		return value.Value{}, wrapCursorErr(err, off, "malformed Enum")
	}
	payloadOff := d.c.Offset()
	payload, err := d.readQuotedBytes("Enum payload")
	if err != nil {
		return value.Value{}, err
	}
	semiOff := d.c.Offset()
	if err := d.c.Expect(';'); err != nil {
		return value.Value{}, wrapCursorErr(err, semiOff, "Enum missing terminating ';'")
	}

	i := bytes.IndexByte(payload, ':')
	if i < 0 {
		return value.Value{}, newError(UnexpectedByte, payloadOff, "Enum payload %q missing ':' separator", payload)
	}
	class, caseName := payload[:i], payload[i+1:]
	if len(class) == 0 || len(caseName) == 0 {
		return value.Value{}, newError(UnexpectedByte, payloadOff, "Enum class and case must both be non-empty")
	}
	return value.EnumValue(value.Enum{Class: class, Case: caseName}), nil
}

// decodeRef parses R:<n>; or r:<n>; per kind. Reference markers are never
// resolved by this package (§9): the ordinal is recorded verbatim. Per
// invariant 4 in §3.2, a Ref does not itself occupy an ordinal slot, so
// decodeRef returns directly instead of going through decodeValue's shared
// valueCount++ bump.
func (d *dec) decodeRef(kind value.RefKind) (value.Value, error) {
	off := d.c.Offset()
	tag := byte('R')
	if kind == value.RefObjectKind {
		tag = 'r'
	}
	if err := d.c.ExpectSeq([]byte{tag, ':'}); err != nil {
		return value.Value{}, wrapCursorErr(err, off, "malformed reference marker")
	}
	numOff := d.c.Offset()
	n, err := d.c.ReadSignedIntUntil(';')
	if err != nil {
		return value.Value{}, wrapCursorErr(err, numOff, "malformed reference ordinal")
	}
	if n < 1 {
		return value.Value{}, newError(BadNumber, numOff, "reference ordinal must be 1-based, got %d", n)
	}
	return value.RefValue(value.Ref{Ordinal: n, Kind: kind}), nil
}
