package decoder

import "github.com/sokojh/phpserialize-go/value"

// decodeAssoc parses a:<count>:{ <value> <value> ... } and applies the
// Seq/Map classification of §4.4 once all pairs are read.
func (d *dec) decodeAssoc() (value.Value, error) {
	off := d.c.Offset()
	if err := d.c.ExpectSeq([]byte("a:")); err != nil {
		return value.Value{}, wrapCursorErr(err, off, "malformed associative container")
	}

	countOff := d.c.Offset()
	count, err := d.c.ReadSignedIntUntil(':')
	if err != nil {
		return value.Value{}, wrapCursorErr(err, countOff, "malformed container count")
	}
	if count < 0 {
		return value.Value{}, newError(BadLength, countOff, "declared element count %d is negative", count)
	}

	if err := d.enterContainer(); err != nil {
		return value.Value{}, err
	}
	defer d.exitContainer()

	braceOff := d.c.Offset()
	if err := d.c.Expect('{'); err != nil {
		return value.Value{}, wrapCursorErr(err, braceOff, "associative container missing '{'")
	}

	m, err := d.readPairs(count)
	if err != nil {
		return value.Value{}, err
	}

	closeOff := d.c.Offset()
	if err := d.c.Expect('}'); err != nil {
		return value.Value{}, wrapCursorErr(err, closeOff, "associative container missing '}'")
	}

	// A duplicate key collapses into one Map entry, so Len falls short of
	// count; the keys as read were then not 0..count-1 and the result is a
	// Map (§4.4 rule 3).
	if int64(m.Len()) == count && m.IsSeqShaped() {
		return value.Seq(m.ToSeq()), nil
	}
	return value.MapValue(m), nil
}

// decodeObj parses O:<clen>:"<class>":<count>:{ <value> <value> ... }.
// Classification is skipped; the result is always an Obj.
func (d *dec) decodeObj() (value.Value, error) {
	off := d.c.Offset()
	if err := d.c.ExpectSeq([]byte("O:")); err != nil {
		return value.Value{}, wrapCursorErr(err, off, "malformed Obj")
	}

	class, err := d.readQuotedBytes("Obj class name")
	if err != nil {
		return value.Value{}, err
	}

	colonOff := d.c.Offset()
	if err := d.c.Expect(':'); err != nil {
		return value.Value{}, wrapCursorErr(err, colonOff, "Obj missing separator after class name")
	}

	countOff := d.c.Offset()
	count, err := d.c.ReadSignedIntUntil(':')
	if err != nil {
		return value.Value{}, wrapCursorErr(err, countOff, "malformed Obj property count")
	}
	if count < 0 {
		return value.Value{}, newError(BadLength, countOff, "declared property count %d is negative", count)
	}

	if err := d.enterContainer(); err != nil {
		return value.Value{}, err
	}
	defer d.exitContainer()

	braceOff := d.c.Offset()
	if err := d.c.Expect('{'); err != nil {
		return value.Value{}, wrapCursorErr(err, braceOff, "Obj missing '{'")
	}

	props, err := d.readPairs(count)
	if err != nil {
		return value.Value{}, err
	}

	closeOff := d.c.Offset()
	if err := d.c.Expect('}'); err != nil {
		return value.Value{}, wrapCursorErr(err, closeOff, "Obj missing '}'")
	}

	return value.ObjValue(&value.Obj{Class: class, Props: props}), nil
}

// readPairs reads exactly count key/value pairs, per rule 1 of §4.4: each
// key is itself a parsed value and must be Int or Str.
func (d *dec) readPairs(count int64) (*value.Map, error) {
	m := value.NewMap(clampHint(count))
	for i := int64(0); i < count; i++ {
		keyOff := d.c.Offset()
		kv, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		key, err := toKey(kv, keyOff)
		if err != nil {
			return nil, err
		}
		val, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
	}
	return m, nil
}

func toKey(v value.Value, offset int) (value.Key, error) {
	switch v.Kind() {
	case value.KindInt:
		return value.IntKey(v.AsInt()), nil
	case value.KindStr:
		return value.StrKey(v.AsStr()), nil
	default:
		return value.Key{}, newError(UnexpectedByte, offset, "container key must be Int or Str, found %s", v.Kind())
	}
}

// clampHint avoids preallocating absurd capacities from an attacker-chosen
// declared count; the real bound on work done is still readPairs actually
// consuming that many values from (bounds-checked) input.
func clampHint(count int64) int {
	const max = 4096
	if count < 0 {
		return 0
	}
	if count > max {
		return max
	}
	return int(count)
}

func (d *dec) enterContainer() error {
	d.depth++
	if d.depth > d.opts.MaxDepth {
		return newError(DepthExceeded, d.c.Offset(), "container nesting exceeds limit of %d", d.opts.MaxDepth)
	}
	return nil
}

func (d *dec) exitContainer() {
	d.depth--
}
