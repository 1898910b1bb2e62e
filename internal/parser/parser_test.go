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

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honelang/hone/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := ParseFile("test.hone", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, f)
	return f
}

func TestParseSimpleDocument(t *testing.T) {
	f := parseOK(t, `
name: "hone"
port: 8080
debug: true
`)
	require.Len(t, f.Docs, 1)
	require.Len(t, f.Docs[0].Entries, 3)
	assert.Equal(t, "name", f.Docs[0].Entries[0].Key.(*ast.Ident).Name)
}

func TestParseAssignModes(t *testing.T) {
	f := parseOK(t, `
tags: ["a"]
tags +: ["b"]
tags !: ["c"]
`)
	entries := f.Docs[0].Entries
	require.Len(t, entries, 3)
	assert.Equal(t, ast.AssignMerge, entries[0].Mode)
	assert.Equal(t, ast.AssignAppend, entries[1].Mode)
	assert.Equal(t, ast.AssignForce, entries[2].Mode)
}

func TestParsePreambleDeclarations(t *testing.T) {
	f := parseOK(t, `
let greeting = "hi"
import "lib.hone" as lib
import { helper } from "lib2.hone"
from "base.hone"
expect args.name : string = "default"
secret token from "env:API_KEY"

name: greeting
`)
	require.Len(t, f.Preamble.Lets, 1)
	require.Len(t, f.Preamble.Imports, 2)
	require.NotNil(t, f.Preamble.From)
	require.Len(t, f.Preamble.Expects, 1)
	require.Len(t, f.Preamble.Secrets, 1)

	assert.Equal(t, "lib.hone", f.Preamble.Imports[0].Path)
	assert.Equal(t, "lib", f.Preamble.Imports[0].Alias.Name)
	assert.Nil(t, f.Preamble.Imports[0].Names)

	assert.Equal(t, "lib2.hone", f.Preamble.Imports[1].Path)
	assert.Nil(t, f.Preamble.Imports[1].Alias)
	require.Len(t, f.Preamble.Imports[1].Names, 1)
	assert.Equal(t, "helper", f.Preamble.Imports[1].Names[0].Name)

	assert.Equal(t, "base.hone", f.Preamble.From.Path)
	assert.Equal(t, "env:API_KEY", f.Preamble.Secrets[0].Provider)
}

func TestFromForbiddenInMultiDocument(t *testing.T) {
	_, err := ParseFile("test.hone", []byte(`
from "base.hone"
---a
x: 1
---b
y: 2
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E0304")
}

func TestParseMultiDocument(t *testing.T) {
	f := parseOK(t, `
---staging
name: "staging"
---production
name: "production"
`)
	require.Len(t, f.Docs, 2)
	assert.Equal(t, "staging", f.Docs[0].Name)
	assert.Equal(t, "production", f.Docs[1].Name)
}

// TestForExpressionBareBody covers `for n in xs { n * 2 }` in expression
// position: the body is a single expression, repeated per iteration.
func TestForExpressionBareBody(t *testing.T) {
	f := parseOK(t, `
doubled: for n in [1, 2, 3] { n * 2 }
`)
	entry := f.Docs[0].Entries[0]
	fe, ok := entry.Value.(*ast.ForExpr)
	require.True(t, ok)
	assert.NotNil(t, fe.Body)
	assert.Nil(t, fe.Entries)
}

// TestForExpressionKeyedBody covers `for (k, v) in m { name: v }` in
// expression position: looksLikeEntries must recognize the body as a
// sequence of object entries, not a bare expression, by speculatively
// parsing the first key and rolling back.
func TestForExpressionKeyedBody(t *testing.T) {
	f := parseOK(t, `
items: for (k, v) in {a: 1, b: 2} { name: k, value: v }
`)
	entry := f.Docs[0].Entries[0]
	fe, ok := entry.Value.(*ast.ForExpr)
	require.True(t, ok)
	assert.Nil(t, fe.Body)
	require.Len(t, fe.Entries, 2)
	assert.Equal(t, "name", fe.Entries[0].Key.(*ast.Ident).Name)
	assert.Equal(t, "value", fe.Entries[1].Key.(*ast.Ident).Name)
}

// TestForBodyEntryAlwaysKeyed covers `for` appearing directly as a body
// entry (not in expression position), which can only take a keyed body.
func TestForBodyEntryAlwaysKeyed(t *testing.T) {
	f := parseOK(t, `
for (k, v) in {a: 1} {
	k: v
}
`)
	entry := f.Docs[0].Entries[0]
	require.NotNil(t, entry.For)
	require.Len(t, entry.For.Entries, 1)
	assert.Nil(t, entry.For.Body)
}

func TestParseWhenChain(t *testing.T) {
	f := parseOK(t, `
when args.prod {
	debug: false
} else when args.staging {
	debug: false
} else {
	debug: true
}
`)
	entry := f.Docs[0].Entries[0]
	require.NotNil(t, entry.When)
	assert.Len(t, entry.When.Cases, 3)
	assert.Nil(t, entry.When.Cases[2].Cond)
}

func TestParseSchemaWithExtendsAndOpen(t *testing.T) {
	f := parseOK(t, `
schema Base {
	name : string
}
schema App extends Base {
	port : int(1, 65535)
	...
}
name: "x"
`)
	require.Len(t, f.Preamble.Schemas, 2)
	app := f.Preamble.Schemas[1]
	require.NotNil(t, app.Extends)
	assert.Equal(t, "Base", app.Extends.Name)
	assert.True(t, app.Open)
}

func TestParseInlineObjectLeniency(t *testing.T) {
	f := parseOK(t, `db: { host: "h", port: 5432, }`)
	entry := f.Docs[0].Entries[0]
	obj, ok := entry.Value.(*ast.ObjectLit)
	require.True(t, ok)
	assert.Len(t, obj.Entries, 2)
}

func TestParsePolicyAndVariant(t *testing.T) {
	f := parseOK(t, `
policy noDebugInProd (deny) when output.debug {
	"debug must be off in production"
}
variant env {
	default dev {
		let region = "local"
		region: region
	}
	prod {
		region: "us-east-1"
	}
}
name: "x"
`)
	require.Len(t, f.Preamble.Policies, 1)
	require.Len(t, f.Preamble.Variants, 1)
	v := f.Preamble.Variants[0]
	require.Len(t, v.Cases, 2)
	assert.True(t, v.Cases[0].IsDefault)
}
