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

package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.hone", `name: "hone"`)

	r := New(16)
	m, err := r.Load(path)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Nil(t, m.From)
	assert.Empty(t, m.Imports)
}

func TestLoadResolvesImportsRelativeToImportingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.hone", `port: 8080`)
	path := writeFile(t, dir, "main.hone", `
import "lib.hone" as lib
name: "hone"
`)

	r := New(16)
	m, err := r.Load(path)
	require.NoError(t, err)
	require.Len(t, m.Imports, 1)
	require.NotNil(t, m.Imports[0].Module)
	assert.Equal(t, filepath.Join(dir, "lib.hone"), m.Imports[0].Module.Path)
}

func TestLoadResolvesFromBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.hone", `name: "base"`)
	path := writeFile(t, dir, "main.hone", `
from "base.hone"
port: 8080
`)

	r := New(16)
	m, err := r.Load(path)
	require.NoError(t, err)
	require.NotNil(t, m.From)
	assert.Equal(t, filepath.Join(dir, "base.hone"), m.From.Path)
}

func TestLoadMissingFileReportsE0101(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.hone", `
import "missing.hone" as m
name: "hone"
`)

	r := New(16)
	_, err := r.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E0101")
}

func TestLoadImportCycleReportsE0102(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.hone", `
import "b.hone" as b
name: "a"
`)
	path := writeFile(t, dir, "b.hone", `
import "a.hone" as a
name: "b"
`)

	r := New(16)
	_, err := r.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E0102")
}

func TestLoadCachesParsedModulesByPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.hone", `port: 8080`)
	path := writeFile(t, dir, "main.hone", `
import "lib.hone" as a
import "lib.hone" as b
name: "hone"
`)

	r := New(16)
	m, err := r.Load(path)
	require.NoError(t, err)
	require.Len(t, m.Imports, 2)
	assert.Same(t, m.Imports[0].Module, m.Imports[1].Module)
}
