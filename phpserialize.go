// Package phpserialize decodes values written in PHP's serialize() wire
// format into a tagged value tree, and renders that tree back out as JSON.
//
// Example usage:
//
//	result, err := phpserialize.Decode([]byte(`a:1:{i:0;s:5:"hello";}`))
//	if err != nil {
//	    // handle err
//	}
//	// work with result.Value
package phpserialize

import (
	"github.com/sokojh/phpserialize-go/decoder"
	"github.com/sokojh/phpserialize-go/jsonenc"
	"github.com/sokojh/phpserialize-go/unescape"
	"github.com/sokojh/phpserialize-go/value"
)

// Version is the current module version, bumped whenever the wire format
// support or public API changes.
const Version = "0.1.0"

// Re-export the core types for convenience, following the same pattern the
// teacher's top-level package uses to re-export its ast types.
type (
	Value       = value.Value
	Kind        = value.Kind
	Key         = value.Key
	Map         = value.Map
	Obj         = value.Obj
	Enum        = value.Enum
	Ref         = value.Ref
	RefKind     = value.RefKind
	Result      = decoder.Result
	DecodeError = decoder.Error
	ErrorKind   = decoder.Kind
)

const (
	KindNull  = value.KindNull
	KindBool  = value.KindBool
	KindInt   = value.KindInt
	KindFloat = value.KindFloat
	KindStr   = value.KindStr
	KindSeq   = value.KindSeq
	KindMap   = value.KindMap
	KindObj   = value.KindObj
	KindEnum  = value.KindEnum
	KindRef   = value.KindRef
)

// config holds the resolved settings for a Decode or DecodeToJSON call.
// The zero value is not meaningful; build one with the Option functions
// applied over defaultConfig.
type config struct {
	strict        bool
	autoUnescape  bool
	maxDepth      int
	jsonErrPolicy jsonenc.ErrorPolicy
}

func defaultConfig() config {
	return config{
		strict:        false,
		autoUnescape:  true,
		maxDepth:      decoder.DefaultMaxDepth,
		jsonErrPolicy: jsonenc.ReplaceInvalid,
	}
}

// Option configures a Decode or DecodeToJSON call. Options compose: each one
// is applied in the order passed to Decode.
type Option func(*config)

// WithStrict sets whether declared string lengths are authoritative (§4.5).
// The default is false (lenient recovery).
func WithStrict(strict bool) Option {
	return func(c *config) { c.strict = strict }
}

// WithAutoUnescape sets whether the DB-escape preprocessor runs before
// decoding. The default is true.
func WithAutoUnescape(enabled bool) Option {
	return func(c *config) { c.autoUnescape = enabled }
}

// WithMaxDepth overrides the container nesting bound. A value <= 0 resets
// it to decoder.DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n <= 0 {
			n = decoder.DefaultMaxDepth
		}
		c.maxDepth = n
	}
}

// WithJSONErrorPolicy sets how DecodeToJSON surfaces non-UTF-8 Str payloads.
func WithJSONErrorPolicy(p jsonenc.ErrorPolicy) Option {
	return func(c *config) { c.jsonErrPolicy = p }
}

func resolve(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// IsSerialized is a cheap heuristic: it reports whether buf's first bytes
// look like the start of a serialized value, without doing a full parse.
func IsSerialized(buf []byte) bool {
	return decoder.IsSerialized(buf)
}

// Preprocess applies the DB-escape unwrap of §4.2 unconditionally (ignoring
// any auto-unescape option), returning buf unchanged if it does not match
// the detection predicate.
func Preprocess(buf []byte) []byte {
	return unescape.Unwrap(buf)
}

// Decode parses one top-level value from buf, applying opts. By default the
// DB-escape preprocessor runs first (see WithAutoUnescape) and string length
// mismatches are recovered leniently (see WithStrict).
//
// Str payloads in the returned tree are sub-slices of buf (or of the
// unwrapped copy of it), so buf must not be mutated while the tree is in use.
func Decode(buf []byte, opts ...Option) (Result, error) {
	c := resolve(opts)
	if c.autoUnescape {
		buf = unescape.Unwrap(buf)
	}
	return decoder.Decode(buf, decoder.Options{Strict: c.strict, MaxDepth: c.maxDepth})
}

// DecodeToJSON decodes buf and renders the resulting tree as JSON, per the
// §6.3 emitter contract.
func DecodeToJSON(buf []byte, opts ...Option) ([]byte, error) {
	c := resolve(opts)
	res, err := Decode(buf, opts...)
	if err != nil {
		return nil, err
	}
	return jsonenc.Encode(res.Value, jsonenc.Options{ErrorPolicy: c.jsonErrPolicy})
}
