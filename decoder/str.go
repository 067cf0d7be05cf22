package decoder

import "github.com/sokojh/phpserialize-go/value"

var trailer = []byte(`";`)

// decodeStr parses s:<len>:"<bytes>"; and implements the length-mismatch
// recovery policy of §4.5: in lenient mode (the default), a declared
// length that does not match the actual payload is repaired by scanning
// forward for the trailer `";` within a bounded window, instead of failing
// outright.
func (d *dec) decodeStr() (value.Value, error) {
	off := d.c.Offset()
	if err := d.c.ExpectSeq([]byte("s:")); err != nil {
		return value.Value{}, wrapCursorErr(err, off, "malformed Str")
	}

	lenOff := d.c.Offset()
	declared, err := d.c.ReadSignedIntUntil(':')
	if err != nil {
		return value.Value{}, wrapCursorErr(err, lenOff, "malformed Str length")
	}
	if declared < 0 {
		return value.Value{}, newError(BadLength, lenOff, "declared string length %d is negative", declared)
	}

	quoteOff := d.c.Offset()
	if err := d.c.Expect('"'); err != nil {
		return value.Value{}, wrapCursorErr(err, quoteOff, "Str missing opening quote")
	}
	payloadStart := d.c.Offset()

	// Strict attempt: read exactly `declared` bytes, then require `";`.
	if payload, ok := d.tryStrictStr(declared, payloadStart); ok {
		return value.Str(payload), nil
	}
	d.c.Seek(payloadStart)

	if d.opts.Strict {
		return value.Value{}, newError(BadLength, lenOff,
			"declared string length %d does not match payload (strict mode)", declared)
	}

	return d.recoverStr(declared, lenOff, payloadStart)
}

// tryStrictStr attempts the strict read at payloadStart; on any failure it
// restores the cursor to payloadStart itself so the caller can retry.
func (d *dec) tryStrictStr(declared int64, payloadStart int) ([]byte, bool) {
	if declared < 0 || declared > int64(d.c.Remaining()) {
		return nil, false
	}
	payload, err := d.c.Take(int(declared))
	if err != nil {
		d.c.Seek(payloadStart)
		return nil, false
	}
	if err := d.c.ExpectSeq(trailer); err != nil {
		d.c.Seek(payloadStart)
		return nil, false
	}
	return payload, true
}

// recoverStr implements step 2-4 of §4.5: search forward from payloadStart
// for the next `";` within a bounded window of max(declared*4, declared+64)
// bytes.
func (d *dec) recoverStr(declared int64, lenOff, payloadStart int) (value.Value, error) {
	window := declared * 4
	if alt := declared + 64; alt > window {
		window = alt
	}

	found := d.c.IndexSeq(trailer, int(window))
	if found < 0 {
		return value.Value{}, newError(BadLength, lenOff,
			"declared string length %d not found within recovery window of %d bytes", declared, window)
	}
	payload, err := d.c.Take(found)
	if err != nil {
		return value.Value{}, wrapCursorErr(err, payloadStart, "Str recovery scan")
	}
	if err := d.c.ExpectSeq(trailer); err != nil {
		return value.Value{}, wrapCursorErr(err, d.c.Offset(), "Str recovery scan")
	}
	return value.Str(payload), nil
}
