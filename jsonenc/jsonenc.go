// Package jsonenc renders a decoded value tree as JSON text. It is the
// binding layer referenced by the spec's §6.3: the core decoder package
// never produces JSON itself, it only builds the value tree.
package jsonenc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/sokojh/phpserialize-go/value"
)

// ErrorPolicy governs how a Str value's raw bytes are surfaced when they are
// not valid UTF-8.
type ErrorPolicy int

const (
	// ReplaceInvalid substitutes the Unicode replacement character for
	// invalid byte sequences. This is the default.
	ReplaceInvalid ErrorPolicy = iota
	// RawBytes surfaces a non-UTF-8 payload as an object
	// {"__base64__": "<base64 of the bytes>"} instead of attempting to
	// interpret it as text; valid UTF-8 payloads are emitted as strings.
	RawBytes
	// StrictUTF8 fails encoding outright if a Str payload is not valid
	// UTF-8.
	StrictUTF8
)

// Options configures Encode.
type Options struct {
	ErrorPolicy ErrorPolicy
}

// DefaultOptions returns the spec's default: ReplaceInvalid.
func DefaultOptions() Options {
	return Options{ErrorPolicy: ReplaceInvalid}
}

// Error is returned when StrictUTF8 rejects a non-UTF-8 Str payload.
type Error struct {
	Message string
}

func (e *Error) Error() string { return "jsonenc: " + e.Message }

// Encode renders v as a JSON byte slice per the §6.3 contract: Null/Bool/Int
// map the obvious way; Float serializes INF/-INF/NAN as the sentinel strings
// "Infinity"/"-Infinity"/"NaN" since JSON has no native representation;
// Seq becomes an array; Map becomes an object with string-coerced keys;
// Obj becomes an object merged with a synthetic __class__ key; Enum becomes
// the string "Class::Case"; Ref becomes an object carrying __ref__ and
// __kind__.
func Encode(v value.Value, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v value.Value, opts Options) error {
	switch v.Kind() {
	case value.KindNull:
		buf.WriteString("null")
	case value.KindBool:
		if v.AsBool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case value.KindInt:
		buf.WriteString(strconv.FormatInt(v.AsInt(), 10))
	case value.KindFloat:
		return encodeFloat(buf, v.AsFloat())
	case value.KindStr:
		return encodeStrBytes(buf, v.AsStr(), opts)
	case value.KindSeq:
		return encodeSeq(buf, v.AsSeq(), opts)
	case value.KindMap:
		return encodeMap(buf, v.AsMap(), opts)
	case value.KindObj:
		return encodeObj(buf, v.AsObj(), opts)
	case value.KindEnum:
		return encodeEnum(buf, v.AsEnum())
	case value.KindRef:
		return encodeRef(buf, v.AsRef())
	default:
		return &Error{Message: fmt.Sprintf("unencodable value kind %s", v.Kind())}
	}
	return nil
}

func encodeFloat(buf *bytes.Buffer, f float64) error {
	switch {
	case math.IsInf(f, 1):
		buf.WriteString(`"Infinity"`)
	case math.IsInf(f, -1):
		buf.WriteString(`"-Infinity"`)
	case math.IsNaN(f):
		buf.WriteString(`"NaN"`)
	default:
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return nil
}

func encodeSeq(buf *bytes.Buffer, elems []value.Value, opts Options) error {
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(buf, e, opts); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func encodeMap(buf *bytes.Buffer, m *value.Map, opts Options) error {
	buf.WriteByte('{')
	first := true
	var outerErr error
	m.Range(func(e value.Entry) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		encodeKey(buf, e.Key)
		buf.WriteByte(':')
		if err := encodeValue(buf, e.Value, opts); err != nil {
			outerErr = err
			return false
		}
		return true
	})
	if outerErr != nil {
		return outerErr
	}
	buf.WriteByte('}')
	return nil
}

func encodeKey(buf *bytes.Buffer, k value.Key) {
	switch k.Kind() {
	case value.KeyInt:
		encodeJSONString(buf, []byte(strconv.FormatInt(k.AsInt(), 10)), ReplaceInvalid)
	default:
		encodeJSONString(buf, []byte(k.AsStr()), ReplaceInvalid)
	}
}

func encodeObj(buf *bytes.Buffer, o *value.Obj, opts Options) error {
	buf.WriteByte('{')
	encodeJSONString(buf, []byte("__class__"), ReplaceInvalid)
	buf.WriteByte(':')
	if err := encodeStrBytes(buf, o.Class, opts); err != nil {
		return err
	}
	var outerErr error
	o.Props.Range(func(e value.Entry) bool {
		buf.WriteByte(',')
		encodeKey(buf, e.Key)
		buf.WriteByte(':')
		if err := encodeValue(buf, e.Value, opts); err != nil {
			outerErr = err
			return false
		}
		return true
	})
	if outerErr != nil {
		return outerErr
	}
	buf.WriteByte('}')
	return nil
}

func encodeEnum(buf *bytes.Buffer, e value.Enum) error {
	s := string(e.Class) + "::" + string(e.Case)
	encodeJSONString(buf, []byte(s), ReplaceInvalid)
	return nil
}

func encodeRef(buf *bytes.Buffer, r value.Ref) error {
	kind := "value"
	if r.Kind == value.RefObjectKind {
		kind = "object"
	}
	buf.WriteByte('{')
	encodeJSONString(buf, []byte("__ref__"), ReplaceInvalid)
	buf.WriteByte(':')
	buf.WriteString(strconv.FormatInt(r.Ordinal, 10))
	buf.WriteByte(',')
	encodeJSONString(buf, []byte("__kind__"), ReplaceInvalid)
	buf.WriteByte(':')
	encodeJSONString(buf, []byte(kind), ReplaceInvalid)
	buf.WriteByte('}')
	return nil
}

func encodeStrBytes(buf *bytes.Buffer, raw []byte, opts Options) error {
	switch opts.ErrorPolicy {
	case StrictUTF8:
		if !utf8.Valid(raw) {
			return &Error{Message: "string payload is not valid UTF-8"}
		}
	case RawBytes:
		if !utf8.Valid(raw) {
			encoded := base64.StdEncoding.EncodeToString(raw)
			buf.WriteByte('{')
			encodeJSONString(buf, []byte("__base64__"), ReplaceInvalid)
			buf.WriteByte(':')
			encodeJSONString(buf, []byte(encoded), ReplaceInvalid)
			buf.WriteByte('}')
			return nil
		}
	}
	encodeJSONString(buf, raw, opts.ErrorPolicy)
	return nil
}

// encodeJSONString writes raw as a quoted JSON string, replacing invalid
// UTF-8 sequences with the Unicode replacement character under
// ReplaceInvalid (and treating any other policy the same way once control
// reaches here, since StrictUTF8 and RawBytes are resolved by the caller).
func encodeJSONString(buf *bytes.Buffer, raw []byte, _ ErrorPolicy) {
	buf.WriteByte('"')
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			buf.WriteRune(utf8.RuneError)
			i++
			continue
		}
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
		i += size
	}
	buf.WriteByte('"')
}
