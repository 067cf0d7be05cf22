package value

import "strconv"

// Map is an ordered mapping from Key to Value that preserves insertion
// order and, per §3.2 invariant 2 of the spec, gives duplicate keys
// last-written-value semantics without disturbing the position the key
// first appeared at — the same behavior PHP's own associative arrays have
// when a key is set twice.
type Map struct {
	order []Key
	index map[string]int // canonical key -> position in order/values
	vals  []Value
}

// NewMap returns an empty Map with capacity hints for n entries.
func NewMap(n int) *Map {
	return &Map{
		order: make([]Key, 0, n),
		index: make(map[string]int, n),
		vals:  make([]Value, 0, n),
	}
}

// Set inserts or overwrites the value for key. If key was already present,
// its value is replaced in place and insertion order is unchanged
// (invariant: "duplicate keys take the last-written value").
func (m *Map) Set(key Key, val Value) {
	ck := canonicalKey(key)
	if i, ok := m.index[ck]; ok {
		m.vals[i] = val
		return
	}
	m.index[ck] = len(m.order)
	m.order = append(m.order, key)
	m.vals = append(m.vals, val)
}

// Len returns the number of distinct keys in m.
func (m *Map) Len() int { return len(m.order) }

// Get returns the value for key and whether it was present.
func (m *Map) Get(key Key) (Value, bool) {
	i, ok := m.index[canonicalKey(key)]
	if !ok {
		return Value{}, false
	}
	return m.vals[i], true
}

// Keys returns the keys of m in insertion order. The returned slice must
// not be mutated.
func (m *Map) Keys() []Key { return m.order }

// Values returns the values of m in the same order as Keys. The returned
// slice must not be mutated.
func (m *Map) Values() []Value { return m.vals }

// Entry is one (key, value) pair as returned by Range.
type Entry struct {
	Key   Key
	Value Value
}

// Range calls fn for each entry in insertion order, stopping early if fn
// returns false.
func (m *Map) Range(fn func(Entry) bool) {
	for i, k := range m.order {
		if !fn(Entry{Key: k, Value: m.vals[i]}) {
			return
		}
	}
}

// IsSeqShaped reports whether m's keys are exactly 0, 1, ..., n-1 in
// insertion order, the classification rule of §4.4. An empty Map (n == 0)
// is seq-shaped per rule 2 there.
func (m *Map) IsSeqShaped() bool {
	for want, k := range m.order {
		if k.Kind() != KeyInt || k.AsInt() != int64(want) {
			return false
		}
	}
	return true
}

// ToSeq returns the values of a seq-shaped Map in key order. Callers must
// check IsSeqShaped first.
func (m *Map) ToSeq() []Value {
	return append([]Value(nil), m.vals...)
}

func canonicalKey(k Key) string {
	if k.Kind() == KeyInt {
		return "i:" + strconv.FormatInt(k.AsInt(), 10)
	}
	return "s:" + k.AsStr()
}
