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

package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honelang/hone/internal/value"
)

func sampleObject() value.Value {
	db := value.NewObject()
	db.Set("host", value.String("localhost"))
	db.Set("port", value.Int(5432))

	root := value.NewObject()
	root.Set("name", value.String("hone"))
	root.Set("debug", value.Bool(false))
	root.Set("tags", value.Array([]value.Value{value.String("a"), value.String("b")}))
	root.Set("db", value.Obj(db))
	return value.Obj(root)
}

func TestJSONPreservesKeyOrder(t *testing.T) {
	out, err := JSON(sampleObject())
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.Index(s, `"name"`) < strings.Index(s, `"debug"`))
	assert.True(t, strings.Index(s, `"debug"`) < strings.Index(s, `"tags"`))
	assert.Contains(t, s, `"host": "localhost"`)
}

func TestJSONRendersSecretSentinel(t *testing.T) {
	obj := value.NewObject()
	obj.Set("token", value.String("<SECRET:env:API_KEY>").WithSecret())
	out, err := JSON(value.Obj(obj))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"<SECRET:env:API_KEY>"`)
}

func TestYAMLRoundTripsScalars(t *testing.T) {
	out, err := YAML(sampleObject())
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "name: hone")
	assert.Contains(t, s, "port: 5432")
}

func TestTOMLNestedTables(t *testing.T) {
	out, err := TOML(sampleObject())
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "[db]")
	assert.Contains(t, s, `host = 'localhost'`)
}

func TestDotenvFlattensAndUppercases(t *testing.T) {
	db := value.NewObject()
	db.Set("host", value.String("localhost"))
	db.Set("port", value.Int(5432))
	root := value.NewObject()
	root.Set("name", value.String("hone"))
	root.Set("db", value.Obj(db))

	out, err := Dotenv(value.Obj(root))
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "DB_HOST=localhost")
	assert.Contains(t, s, "DB_PORT=5432")
	assert.Contains(t, s, "NAME=hone")
}

func TestDotenvRejectsArrays(t *testing.T) {
	_, err := Dotenv(sampleObject())
	assert.Error(t, err, "tags is an array and has no dotenv representation")
}

func TestDotenvQuotesValuesWithSpaces(t *testing.T) {
	obj := value.NewObject()
	obj.Set("greeting", value.String("hello world"))
	out, err := Dotenv(value.Obj(obj))
	require.NoError(t, err)
	assert.Contains(t, string(out), `GREETING="hello world"`)
}

func TestDotenvRendersSecretSentinel(t *testing.T) {
	obj := value.NewObject()
	obj.Set("token", value.String("<SECRET:env:API_KEY>").WithSecret())
	out, err := Dotenv(value.Obj(obj))
	require.NoError(t, err)
	assert.Contains(t, string(out), "TOKEN=<SECRET:env:API_KEY>")
}
