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

	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/token"
	"github.com/honelang/hone/internal/value"
)

func obj(pairs ...interface{}) value.Value {
	o := value.NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1].(value.Value))
	}
	return value.Obj(o)
}

func TestMergeScalarOverlayReplacesBase(t *testing.T) {
	got := Merge(value.Int(1), value.String("x"))
	assert.Equal(t, value.KindString, got.Kind())
	assert.Equal(t, "x", got.Str())
}

func TestMergeObjectsKeyByKey(t *testing.T) {
	base := obj("name", value.String("base"), "port", value.Int(80))
	overlay := obj("port", value.Int(443), "tls", value.Bool(true))

	merged := Merge(base, overlay)
	require.Equal(t, value.KindObject, merged.Kind())

	name, ok := merged.Object().Get("name")
	require.True(t, ok)
	assert.Equal(t, "base", name.Str())

	port, ok := merged.Object().Get("port")
	require.True(t, ok)
	assert.Equal(t, int64(443), port.Int())

	tls, ok := merged.Object().Get("tls")
	require.True(t, ok)
	assert.True(t, tls.Bool())
}

func TestMergePreservesBaseKeyOrderAndAppendsNew(t *testing.T) {
	base := obj("a", value.Int(1), "b", value.Int(2))
	overlay := obj("b", value.Int(20), "c", value.Int(3))

	merged := Merge(base, overlay)
	assert.Equal(t, []string{"a", "b", "c"}, merged.Object().Keys())
}

func TestMergeRecursesIntoNestedObjects(t *testing.T) {
	base := obj("db", obj("host", value.String("localhost"), "port", value.Int(5432)))
	overlay := obj("db", obj("port", value.Int(5433)))

	merged := Merge(base, overlay)
	db, ok := merged.Object().Get("db")
	require.True(t, ok)

	host, ok := db.Object().Get("host")
	require.True(t, ok)
	assert.Equal(t, "localhost", host.Str())

	port, ok := db.Object().Get("port")
	require.True(t, ok)
	assert.Equal(t, int64(5433), port.Int())
}

func TestMergeIsNotCommutative(t *testing.T) {
	a := obj("x", value.Int(1))
	b := obj("x", value.Int(2))

	ab, _ := Merge(a, b).Object().Get("x")
	ba, _ := Merge(b, a).Object().Get("x")
	assert.NotEqual(t, ab.Int(), ba.Int())
}

func TestMergeIsAssociative(t *testing.T) {
	a := obj("x", value.Int(1), "y", value.Int(1))
	b := obj("y", value.Int(2), "z", value.Int(2))
	c := obj("z", value.Int(3), "w", value.Int(3))

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))

	for _, k := range []string{"x", "y", "z", "w"} {
		lv, lok := left.Object().Get(k)
		rv, rok := right.Object().Get(k)
		require.True(t, lok)
		require.True(t, rok)
		assert.True(t, value.Equal(lv, rv), "key %q diverged: %v vs %v", k, lv, rv)
	}
}

func TestAppendConcatenatesArrays(t *testing.T) {
	base := value.Array([]value.Value{value.Int(1), value.Int(2)})
	overlay := value.Array([]value.Value{value.Int(3)})

	got, err := Append(base, true, token.NoPos, overlay)
	require.NoError(t, err)
	require.Len(t, got.Elems(), 3)
	assert.Equal(t, int64(1), got.Elems()[0].Int())
	assert.Equal(t, int64(3), got.Elems()[2].Int())
}

func TestAppendFirstOccurrenceActsAsAssignment(t *testing.T) {
	overlay := value.Array([]value.Value{value.Int(1)})
	got, err := Append(value.Value{}, false, token.NoPos, overlay)
	require.NoError(t, err)
	assert.Equal(t, value.KindArray, got.Kind())
	assert.Len(t, got.Elems(), 1)
}

func TestAppendRejectsNonArrayOverlay(t *testing.T) {
	_, err := Append(value.Array(nil), true, token.NoPos, value.Int(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(errors.ErrTypeMismatch))
}

func TestAppendRejectsNonArrayBase(t *testing.T) {
	_, err := Append(value.String("not an array"), true, token.NoPos, value.Array([]value.Value{value.Int(1)}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(errors.ErrTypeMismatch))
}
