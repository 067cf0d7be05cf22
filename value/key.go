package value

import "fmt"

// KeyKind identifies whether a Key is an Int or a Str.
type KeyKind int

const (
	KeyInt KeyKind = iota
	KeyStr
)

// Key is the Int-or-Str union used as a Map key. It is represented as a
// tagged union rather than stringified, per the spec's design note
// ("Duck-typed key unions"): an Int key 5 and a Str key "5" are distinct
// keys in the source format and must stay distinct here.
type Key struct {
	kind KeyKind
	i    int64
	str  string
}

// IntKey returns an Int-kinded Key.
func IntKey(i int64) Key { return Key{kind: KeyInt, i: i} }

// StrKey returns a Str-kinded Key. The string is copied out of raw.
func StrKey(raw []byte) Key { return Key{kind: KeyStr, str: string(raw)} }

// Kind reports whether k is an Int or Str key.
func (k Key) Kind() KeyKind { return k.kind }

// AsInt returns the Int payload of an Int-kinded key.
func (k Key) AsInt() int64 {
	if k.kind != KeyInt {
		panic("value: Key.AsInt on a Str key")
	}
	return k.i
}

// AsStr returns the Str payload of a Str-kinded key.
func (k Key) AsStr() string {
	if k.kind != KeyStr {
		panic("value: Key.AsStr on an Int key")
	}
	return k.str
}

// String renders the key for diagnostics; it is not used for equality.
func (k Key) String() string {
	if k.kind == KeyInt {
		return fmt.Sprintf("%d", k.i)
	}
	return fmt.Sprintf("%q", k.str)
}

// Equal reports whether two keys have the same kind and payload.
func (k Key) Equal(other Key) bool {
	if k.kind != other.kind {
		return false
	}
	if k.kind == KeyInt {
		return k.i == other.i
	}
	return k.str == other.str
}
