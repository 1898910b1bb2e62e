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

	"github.com/honelang/hone/internal/parser"
	"github.com/honelang/hone/internal/value"
)

// evalSource parses and evaluates src's single default document, returning
// its assembled value.
func evalSource(t *testing.T, src string, args map[string]value.Value, variants map[string]string) value.Value {
	t.Helper()
	f, err := parser.ParseFile("test.hone", []byte(src))
	require.NoError(t, err)

	ev := New(EnvOptions{}, args, variants)
	res, err := ev.EvalFile(f, args)
	require.NoError(t, err)
	doc, ok := res.Docs[""]
	require.True(t, ok)
	return doc
}

func TestAssembleObjectPreservesInsertionOrder(t *testing.T) {
	doc := evalSource(t, `
b: 1
a: 2
c: 3
`, nil, nil)
	assert.Equal(t, []string{"b", "a", "c"}, doc.Object().Keys())
}

func TestAssignModeMergeMergesObjects(t *testing.T) {
	doc := evalSource(t, `
db: { host: "h1" }
db: { port: 5432 }
`, nil, nil)
	db, ok := doc.Object().Get("db")
	require.True(t, ok)
	host, _ := db.Object().Get("host")
	assert.Equal(t, "h1", host.Str())
	port, _ := db.Object().Get("port")
	assert.Equal(t, int64(5432), port.Int())
}

func TestAssignModeAppendConcatenatesArrays(t *testing.T) {
	doc := evalSource(t, `
tags: ["a"]
tags +: ["b", "c"]
`, nil, nil)
	tags, ok := doc.Object().Get("tags")
	require.True(t, ok)
	require.Len(t, tags.Elems(), 3)
	assert.Equal(t, "c", tags.Elems()[2].Str())
}

func TestAssignModeForceReplacesEntirely(t *testing.T) {
	doc := evalSource(t, `
db: { host: "h1", port: 1 }
db !: { port: 2 }
`, nil, nil)
	db, ok := doc.Object().Get("db")
	require.True(t, ok)
	_, hasHost := db.Object().Get("host")
	assert.False(t, hasHost, "!: must replace rather than merge")
	port, _ := db.Object().Get("port")
	assert.Equal(t, int64(2), port.Int())
}

func TestAssignModeAppendRejectsNonArray(t *testing.T) {
	f, perr := parser.ParseFile("test.hone", []byte(`
x: 1
x +: 2
`))
	require.NoError(t, perr)
	ev := New(EnvOptions{}, nil, nil)
	_, err := ev.EvalFile(f, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E0202")
}

func TestWhenChainSelectsFirstTrueCase(t *testing.T) {
	doc := evalSource(t, `
when args.env == "prod" {
	level: "error"
} else when args.env == "staging" {
	level: "warn"
} else {
	level: "debug"
}
`, map[string]value.Value{"env": value.String("staging")}, nil)
	level, ok := doc.Object().Get("level")
	require.True(t, ok)
	assert.Equal(t, "warn", level.Str())
}

func TestWhenChainFallsBackToElse(t *testing.T) {
	doc := evalSource(t, `
when args.env == "prod" {
	level: "error"
} else {
	level: "debug"
}
`, map[string]value.Value{"env": value.String("dev")}, nil)
	level, _ := doc.Object().Get("level")
	assert.Equal(t, "debug", level.Str())
}

func TestForExpressionBareBodyProducesArray(t *testing.T) {
	doc := evalSource(t, `doubled: for n in [1, 2, 3] { n * 2 }`, nil, nil)
	doubled, ok := doc.Object().Get("doubled")
	require.True(t, ok)
	require.Len(t, doubled.Elems(), 3)
	assert.Equal(t, int64(4), doubled.Elems()[1].Int())
}

func TestForBodyEntryAssemblesKeyedObjects(t *testing.T) {
	doc := evalSource(t, `
for (k, v) in {a: 1, b: 2} {
	[k]: v * 10
}
`, nil, nil)
	a, ok := doc.Object().Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(10), a.Int())
	b, ok := doc.Object().Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(20), b.Int())
}

func TestVariantSelectsDefaultCaseWhenUnselected(t *testing.T) {
	doc := evalSource(t, `
variant env {
	default dev {
		let region = "local"
		region: region
	}
	prod {
		region: "us-east-1"
	}
}
`, nil, nil)
	region, ok := doc.Object().Get("region")
	require.True(t, ok)
	assert.Equal(t, "local", region.Str())
}

func TestVariantSelectsChosenCase(t *testing.T) {
	doc := evalSource(t, `
variant env {
	default dev {
		region: "local"
	}
	prod {
		region: "us-east-1"
	}
}
`, nil, map[string]string{"env": "prod"})
	region, ok := doc.Object().Get("region")
	require.True(t, ok)
	assert.Equal(t, "us-east-1", region.Str())
}

func TestStringInterpolation(t *testing.T) {
	doc := evalSource(t, `
let name = "hone"
greeting: "hello, ${name}!"
`, nil, nil)
	greeting, ok := doc.Object().Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello, hone!", greeting.Str())
}

func TestSecretBindsSentinelByDefault(t *testing.T) {
	doc := evalSource(t, `
secret token from "env:API_KEY"
out: token
`, nil, nil)
	out, ok := doc.Object().Get("out")
	require.True(t, ok)
	assert.Equal(t, "<SECRET:env:API_KEY>", out.Str())
	assert.True(t, out.Secret(), "a value derived from a secret declaration must stay tagged")
}

func TestSecretTagPropagatesThroughInterpolation(t *testing.T) {
	doc := evalSource(t, `
secret token from "env:API_KEY"
out: "bearer ${token}"
`, nil, nil)
	out, ok := doc.Object().Get("out")
	require.True(t, ok)
	assert.Contains(t, out.Str(), "<SECRET:env:API_KEY>")
	assert.True(t, out.Secret(), "interpolating a secret must keep the result tagged")
}

func TestSecretTagPropagatesThroughConcatenation(t *testing.T) {
	doc := evalSource(t, `
secret token from "env:API_KEY"
out: "prefix-" + token
`, nil, nil)
	out, ok := doc.Object().Get("out")
	require.True(t, ok)
	assert.True(t, out.Secret(), "string concatenation with a secret operand must keep the result tagged")
}
