package decoder

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/sokojh/phpserialize-go/value"
)

func decodeLenient(t *testing.T, input string) value.Value {
	t.Helper()
	res, err := Decode([]byte(input), DefaultOptions())
	require.NoError(t, err, "input %q", input)
	return res.Value
}

func TestDecodeNull(t *testing.T) {
	v := decodeLenient(t, "N;")
	require.Equal(t, value.KindNull, v.Kind())
}

func TestDecodeBool(t *testing.T) {
	require.Equal(t, false, decodeLenient(t, "b:0;").AsBool())
	require.Equal(t, true, decodeLenient(t, "b:1;").AsBool())
}

func TestDecodeIntRoundTrip(t *testing.T) {
	tests := []int64{0, 1, -1, 30, math.MaxInt64, math.MinInt64}
	for _, n := range tests {
		v, err := Decode([]byte(intLiteral(n)), DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, n, v.Value.AsInt())
	}
}

func intLiteral(n int64) string {
	return "i:" + itoa(n) + ";"
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	var buf []byte
	// Avoid strconv here purely to keep this helper dependency-free; any
	// correct decimal renderer works since we're only building fixtures.
	u := uint64(n)
	if neg {
		u = -u
	}
	for u > 0 {
		buf = append([]byte{byte('0' + u%10)}, buf...)
		u /= 10
	}
	if neg {
		return "-" + string(buf)
	}
	return string(buf)
}

func TestDecodeFloatSentinels(t *testing.T) {
	tests := []struct {
		input string
		check func(float64) bool
	}{
		{"d:INF;", func(f float64) bool { return math.IsInf(f, 1) }},
		{"d:-INF;", func(f float64) bool { return math.IsInf(f, -1) }},
		{"d:NAN;", math.IsNaN},
	}
	for _, tt := range tests {
		v := decodeLenient(t, tt.input)
		require.True(t, tt.check(v.AsFloat()), "input %q, got %v", tt.input, v.AsFloat())
	}
}

func TestDecodeFloatBoundary(t *testing.T) {
	v := decodeLenient(t, "d:1e-308;")
	require.InDelta(t, 1e-308, v.AsFloat(), 1e-320)

	v = decodeLenient(t, "d:1e308;")
	require.InDelta(t, 1e308, v.AsFloat(), 1e294)
}

func TestStringPayloadPreservation(t *testing.T) {
	payloads := [][]byte{
		[]byte("hello"),
		[]byte(""),
		{0x00, 'a', 0x00},
		[]byte(`has "quotes" and ; semicolons`),
	}
	for _, p := range payloads {
		input := "s:" + itoa(int64(len(p))) + `:"` + string(p) + `";`
		v, err := Decode([]byte(input), Options{Strict: true, MaxDepth: DefaultMaxDepth})
		require.NoError(t, err, "input %q", input)
		require.Equal(t, p, v.Value.AsStr())
	}
}

func TestStringLengthMismatchRecovery(t *testing.T) {
	// Declared 10, actual payload is "hello" (5 bytes).
	v, err := Decode([]byte(`s:10:"hello";`), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "hello", string(v.Value.AsStr()))

	_, err = Decode([]byte(`s:10:"hello";`), Options{Strict: true, MaxDepth: DefaultMaxDepth})
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, BadLength, derr.Kind)
}

func TestSeqClassification(t *testing.T) {
	v := decodeLenient(t, `a:2:{i:0;s:3:"foo";i:1;s:3:"bar";}`)
	require.Equal(t, value.KindSeq, v.Kind())
	seq := v.AsSeq()
	require.Len(t, seq, 2)
	require.Equal(t, "foo", string(seq[0].AsStr()))
	require.Equal(t, "bar", string(seq[1].AsStr()))
}

func TestMapClassificationOnGap(t *testing.T) {
	v := decodeLenient(t, `a:2:{i:0;s:3:"foo";i:5;s:3:"bar";}`)
	require.Equal(t, value.KindMap, v.Kind())
	m := v.AsMap()
	require.Equal(t, 2, m.Len())
	got, ok := m.Get(value.IntKey(5))
	require.True(t, ok)
	require.Equal(t, "bar", string(got.AsStr()))
}

func TestMapWithStringKeys(t *testing.T) {
	v := decodeLenient(t, `a:2:{s:4:"name";s:5:"Alice";s:3:"age";i:30;}`)
	require.Equal(t, value.KindMap, v.Kind())
	m := v.AsMap()
	name, ok := m.Get(value.StrKey([]byte("name")))
	require.True(t, ok)
	require.Equal(t, "Alice", string(name.AsStr()))
	age, ok := m.Get(value.StrKey([]byte("age")))
	require.True(t, ok)
	require.Equal(t, int64(30), age.AsInt())
}

func TestEmptyAssocIsSeq(t *testing.T) {
	v := decodeLenient(t, "a:0:{}")
	require.Equal(t, value.KindSeq, v.Kind())
	require.Len(t, v.AsSeq(), 0)
}

func TestDecodeObj(t *testing.T) {
	v := decodeLenient(t, `O:8:"stdClass":2:{s:4:"name";s:5:"Alice";s:3:"age";i:30;}`)
	require.Equal(t, value.KindObj, v.Kind())
	obj := v.AsObj()
	require.Equal(t, "stdClass", string(obj.Class))
	age, ok := obj.Props.Get(value.StrKey([]byte("age")))
	require.True(t, ok)
	require.Equal(t, int64(30), age.AsInt())
}

func TestDecodeEnum(t *testing.T) {
	v := decodeLenient(t, `E:13:"Status:Active";`)
	require.Equal(t, value.KindEnum, v.Kind())
	e := v.AsEnum()
	require.Equal(t, "Status", string(e.Class))
	require.Equal(t, "Active", string(e.Case))
}

func TestDecodeRefs(t *testing.T) {
	v := decodeLenient(t, "R:1;")
	ref := v.AsRef()
	require.Equal(t, int64(1), ref.Ordinal)
	require.Equal(t, value.RefValueKind, ref.Kind)

	v = decodeLenient(t, "r:2;")
	ref = v.AsRef()
	require.Equal(t, value.RefObjectKind, ref.Kind)
}

func TestDuplicateKeysLastWriterWins(t *testing.T) {
	// Both pairs use key 0, so after overwrite there's a single entry at
	// key 0. The keys as read (0, 0) are not 0, 1, so the duplicate forces
	// Map (§4.4 rule 3).
	v := decodeLenient(t, `a:2:{i:0;s:1:"a";i:0;s:1:"b";}`)
	require.Equal(t, value.KindMap, v.Kind())
	m1 := v.AsMap()
	require.Equal(t, 1, m1.Len())
	got1, ok := m1.Get(value.IntKey(0))
	require.True(t, ok)
	require.Equal(t, "b", string(got1.AsStr()))

	// Adding a second, distinct key breaks seq-shape, so the overwrite is
	// directly observable through Map.Get.
	v2 := decodeLenient(t, `a:3:{i:0;s:1:"a";i:0;s:1:"b";i:5;N;}`)
	require.Equal(t, value.KindMap, v2.Kind())
	m := v2.AsMap()
	require.Equal(t, 2, m.Len())
	got, ok := m.Get(value.IntKey(0))
	require.True(t, ok)
	require.Equal(t, "b", string(got.AsStr()))
}

func TestDepthExceeded(t *testing.T) {
	// Build a:1:{i:0;a:1:{i:0; ... N; ... }}}} nested past the bound.
	depth := DefaultMaxDepth + 5
	var open, close string
	for i := 0; i < depth; i++ {
		open += "a:1:{i:0;"
		close += "}"
	}
	input := open + "N;" + close
	_, err := Decode([]byte(input), DefaultOptions())
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, DepthExceeded, derr.Kind)
}

func TestMalformedInputsFailCleanly(t *testing.T) {
	tests := []string{
		"",
		"N",
		"b:1",
		"b:",
		"i:42",
		"i:",
		`s:5:"hel`,
		`s:5:"hello"`,
		`s:5:"hello`,
		"a:1:{",
		"a:1:{i:0;",
		`a:1:{i:0;s:3:"foo"`,
		"X:42;",
		"z:1;",
		`s:-1:"";`,
		`a:2:{i:0;s:3:"foo";}`,
	}
	for _, in := range tests {
		_, err := Decode([]byte(in), DefaultOptions())
		require.Error(t, err, "input %q should fail", in)
	}
}

func TestTrailingBytes(t *testing.T) {
	_, err := Decode([]byte("N;garbage"), DefaultOptions())
	require.Error(t, err)
	var derr *Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, TrailingBytes, derr.Kind)
}

func TestValueCountExcludesRefs(t *testing.T) {
	// Two real values (Null, Int) plus one Ref, which should not consume
	// an ordinal slot (invariant 4, §3.2).
	res, err := Decode([]byte(`a:2:{i:0;N;i:1;R:1;}`), DefaultOptions())
	require.NoError(t, err)
	// values: the array itself, key i:0, N, key i:1, R:1 (not counted) ->
	// array(1) + i:0(1) + N(1) + i:1(1) = 4.
	require.EqualValues(t, 4, res.ValueCount)
}

func TestDecodeEmptyStr(t *testing.T) {
	v := decodeLenient(t, `s:0:"";`)
	require.Equal(t, "", string(v.AsStr()))
}

func TestDecodeFloatZeroForms(t *testing.T) {
	for _, in := range []string{"d:0;", "d:0.0;", "d:-0;", "d:0e0;"} {
		v := decodeLenient(t, in)
		require.Zero(t, v.AsFloat(), "input %q", in)
	}
}

func TestIsSerialized(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"N;", true},
		{"b:1;", true},
		{"i:1;", true},
		{"d:1;", true},
		{`s:1:"x";`, true},
		{"a:0:{}", true},
		{`O:1:"x":0:{}`, true},
		{"R:1;", true},
		{"r:1;", true},
		{`E:1:"x";`, true},
		{"X:1;", false},
		{"not serialized", false},
	}
	for _, tt := range tests {
		got := IsSerialized([]byte(tt.in))
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestDeepEqualTreeComparison(t *testing.T) {
	a := decodeLenient(t, `a:1:{i:0;s:3:"foo";}`)
	b := decodeLenient(t, `a:1:{i:0;s:3:"foo";}`)
	diff := cmp.Diff(a, b, cmp.AllowUnexported(value.Value{}, value.Map{}, value.Key{}))
	if diff != "" {
		t.Fatalf("identical inputs produced different trees (-a +b):\n%s", diff)
	}
}
