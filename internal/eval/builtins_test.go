// Copyright 2026 The Hone Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honelang/hone/internal/value"
)

func call(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := builtinTable(EnvOptions{})[name]
	require.True(t, ok, "builtin %q is not registered", name)
	v, err := fn(args)
	require.NoError(t, err)
	return v
}

func TestStringBuiltinsUseSnakeCaseNames(t *testing.T) {
	assert.Equal(t, true, call(t, "starts_with", value.String("hello"), value.String("he")).Bool())
	assert.Equal(t, true, call(t, "ends_with", value.String("hello"), value.String("lo")).Bool())
	assert.Equal(t, "3", call(t, "to_str", value.Int(3)).Str())
	assert.Equal(t, int64(3), call(t, "to_int", value.String(" 3 ")).Int())
	assert.Equal(t, 3.5, call(t, "to_float", value.String("3.5")).Float())
}

func TestToBool(t *testing.T) {
	assert.Equal(t, true, call(t, "to_bool", value.Int(1)).Bool())
	assert.Equal(t, false, call(t, "to_bool", value.Int(0)).Bool())
	assert.Equal(t, false, call(t, "to_bool", value.Null).Bool())
	assert.Equal(t, true, call(t, "to_bool", value.String("true")).Bool())
	assert.Equal(t, false, call(t, "to_bool", value.String("false")).Bool())
}

func TestJSONRoundTrip(t *testing.T) {
	obj := value.NewObject()
	obj.Set("a", value.Int(1))
	obj.Set("b", value.Array([]value.Value{value.String("x"), value.Bool(true)}))

	encoded := call(t, "to_json", value.Obj(obj))
	decoded := call(t, "from_json", encoded)

	require.Equal(t, value.KindObject, decoded.Kind())
	a, ok := decoded.Object().Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), a.Int())
}

func TestBase64RoundTrip(t *testing.T) {
	encoded := call(t, "base64_encode", value.String("hone"))
	decoded := call(t, "base64_decode", encoded)
	assert.Equal(t, "hone", decoded.Str())
}

func TestSHA256(t *testing.T) {
	got := call(t, "sha256", value.String("hone"))
	assert.Len(t, got.Str(), 64)
}

func TestConcat(t *testing.T) {
	got := call(t, "concat", value.String("a"), value.String("b"), value.String("c"))
	assert.Equal(t, "abc", got.Str())

	arr := call(t, "concat",
		value.Array([]value.Value{value.Int(1)}),
		value.Array([]value.Value{value.Int(2), value.Int(3)}))
	require.Equal(t, value.KindArray, arr.Kind())
	assert.Len(t, arr.Elems(), 3)

	_, err := builtinConcat([]value.Value{value.String("a"), value.Int(1)})
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	nested := value.Array([]value.Value{
		value.Int(1),
		value.Array([]value.Value{value.Int(2), value.Array([]value.Value{value.Int(3)})}),
	})
	got := call(t, "flatten", nested)
	require.Len(t, got.Elems(), 3)
	assert.Equal(t, int64(1), got.Elems()[0].Int())
	assert.Equal(t, int64(3), got.Elems()[2].Int())
}

func TestDefault(t *testing.T) {
	assert.Equal(t, int64(5), call(t, "default", value.Null, value.Int(5)).Int())
	assert.Equal(t, int64(1), call(t, "default", value.Int(1), value.Int(5)).Int())
}

func TestMergeBuiltinMatchesMerge(t *testing.T) {
	base := value.NewObject()
	base.Set("a", value.Int(1))
	overlay := value.NewObject()
	overlay.Set("b", value.Int(2))

	got := call(t, "merge", value.Obj(base), value.Obj(overlay))
	a, _ := got.Object().Get("a")
	b, _ := got.Object().Get("b")
	assert.Equal(t, int64(1), a.Int())
	assert.Equal(t, int64(2), b.Int())
}

func TestUnique(t *testing.T) {
	got := call(t, "unique", value.Array([]value.Value{value.Int(1), value.Int(2), value.Int(1), value.Int(3)}))
	require.Len(t, got.Elems(), 3)
}

func TestSliceAndSubstring(t *testing.T) {
	arr := value.Array([]value.Value{value.Int(0), value.Int(1), value.Int(2), value.Int(3)})
	got := call(t, "slice", arr, value.Int(1), value.Int(3))
	require.Len(t, got.Elems(), 2)
	assert.Equal(t, int64(1), got.Elems()[0].Int())

	got = call(t, "slice", arr, value.Int(-2), value.Int(4))
	require.Len(t, got.Elems(), 2)

	s := call(t, "substring", value.String("hello world"), value.Int(0), value.Int(5))
	assert.Equal(t, "hello", s.Str())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, int64(5), call(t, "clamp", value.Int(1), value.Int(5), value.Int(10)).Int())
	assert.Equal(t, int64(10), call(t, "clamp", value.Int(20), value.Int(5), value.Int(10)).Int())
	assert.Equal(t, int64(7), call(t, "clamp", value.Int(7), value.Int(5), value.Int(10)).Int())
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "string", call(t, "type_of", value.String("x")).Str())
	assert.Equal(t, "int", call(t, "type_of", value.Int(1)).Str())
	assert.Equal(t, "null", call(t, "type_of", value.Null).Str())
}

func TestEntriesAndFromEntries(t *testing.T) {
	obj := value.NewObject()
	obj.Set("a", value.Int(1))
	obj.Set("b", value.Int(2))

	pairs := call(t, "entries", value.Obj(obj))
	require.Len(t, pairs.Elems(), 2)
	assert.Equal(t, "a", pairs.Elems()[0].Elems()[0].Str())

	back := call(t, "from_entries", pairs)
	a, ok := back.Object().Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), a.Int())
}
