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

package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "hone"), 0)
	require.NoError(t, err)

	key := Key([]byte("source text"), []byte("--format=json"))
	_, ok := c.Get(key)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, []byte(`{"ok":true}`)))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, `{"ok":true}`, string(got))
}

func TestKeyIsOrderSensitive(t *testing.T) {
	a := Key([]byte("ab"), []byte("c"))
	b := Key([]byte("a"), []byte("bc"))
	assert.NotEqual(t, a, b)
}

func TestGetMissFromFreshHotLayer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hone")
	c1, err := Open(dir, 8)
	require.NoError(t, err)
	key := Key([]byte("x"))
	require.NoError(t, c1.Put(key, []byte("payload")))

	c2, err := Open(dir, 8)
	require.NoError(t, err)
	got, ok := c2.Get(key)
	require.True(t, ok, "entry written by one Cache must be readable from a fresh one pointed at the same dir")
	assert.Equal(t, "payload", string(got))
}

func TestClean(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "hone"), 8)
	require.NoError(t, err)
	key := Key([]byte("x"))
	require.NoError(t, c.Put(key, []byte("payload")))

	require.NoError(t, c.Clean(0))

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestCleanOlderThan(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "hone"), 0)
	require.NoError(t, err)

	oldKey := Key([]byte("old"))
	require.NoError(t, c.Put(oldKey, []byte("payload")))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(c.path(oldKey), old, old))

	newKey := Key([]byte("new"))
	require.NoError(t, c.Put(newKey, []byte("payload")))

	require.NoError(t, c.Clean(time.Hour))

	c.hot.Purge()
	_, ok := c.Get(oldKey)
	assert.False(t, ok, "entry older than the cutoff must be removed")
	_, ok = c.Get(newKey)
	assert.True(t, ok, "entry newer than the cutoff must survive")
}
