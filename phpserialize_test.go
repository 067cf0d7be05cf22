package phpserialize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokojh/phpserialize-go/value"
)

func TestDecodeBasic(t *testing.T) {
	res, err := Decode([]byte(`a:1:{i:0;s:5:"hello";}`))
	require.NoError(t, err)
	require.Equal(t, KindSeq, res.Value.Kind())
}

func TestDecodeWithAutoUnescape(t *testing.T) {
	escaped := []byte(`"s:5:""hello"";"`)
	res, err := Decode(escaped)
	require.NoError(t, err)
	require.Equal(t, "hello", string(res.Value.AsStr()))
}

func TestDecodeEscapedMapScenario(t *testing.T) {
	escaped := []byte(`"a:1:{s:3:""key"";s:5:""value"";}"`)
	res, err := Decode(escaped)
	require.NoError(t, err)
	require.Equal(t, KindMap, res.Value.Kind())
	m := res.Value.AsMap()
	got, ok := m.Get(value.StrKey([]byte("key")))
	require.True(t, ok)
	require.Equal(t, "value", string(got.AsStr()))
}

func TestDecodeAutoUnescapeDisabled(t *testing.T) {
	escaped := []byte(`"s:5:""hello"";"`)
	_, err := Decode(escaped, WithAutoUnescape(false))
	require.Error(t, err)
}

func TestDecodeStrictOption(t *testing.T) {
	_, err := Decode([]byte(`s:10:"hello";`), WithStrict(true))
	require.Error(t, err)

	res, err := Decode([]byte(`s:10:"hello";`), WithStrict(false))
	require.NoError(t, err)
	require.Equal(t, "hello", string(res.Value.AsStr()))
}

func TestDecodeMaxDepthOption(t *testing.T) {
	_, err := Decode([]byte(`a:1:{i:0;a:1:{i:0;N;}}`), WithMaxDepth(1))
	require.Error(t, err)
}

func TestDecodeToJSON(t *testing.T) {
	out, err := DecodeToJSON([]byte(`a:1:{i:0;i:42;}`))
	require.NoError(t, err)
	require.Equal(t, "[42]", string(out))
}

func TestIsSerialized(t *testing.T) {
	require.True(t, IsSerialized([]byte("N;")))
	require.False(t, IsSerialized([]byte("not serialized")))
}

func TestPreprocessPassthrough(t *testing.T) {
	in := []byte(`s:5:"hello";`)
	out := Preprocess(in)
	require.Equal(t, in, out)
}
