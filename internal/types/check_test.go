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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honelang/hone/internal/ast"
	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/value"
)

func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }

func field(name string, t ast.TypeExpr, optional bool) *ast.SchemaField {
	return &ast.SchemaField{Name: ident(name), Type: t, Optional: optional}
}

func obj(pairs ...interface{}) value.Value {
	o := value.NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1].(value.Value))
	}
	return value.Obj(o)
}

func TestCheckRequiredFieldMissing(t *testing.T) {
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("name", ast.TypeExpr{Kind: ast.KindString}, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	err := Check(reg, "App", obj(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(errors.ErrMissingRequired))
}

func TestCheckOptionalFieldMayBeAbsent(t *testing.T) {
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("name", ast.TypeExpr{Kind: ast.KindString}, true)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	err := Check(reg, "App", obj(), nil)
	assert.NoError(t, err)
}

func TestCheckTypeMismatch(t *testing.T) {
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("port", ast.TypeExpr{Kind: ast.KindInt}, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	err := Check(reg, "App", obj("port", value.String("not an int")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(errors.ErrTypeMismatch))
}

func TestCheckClosedSchemaRejectsUnknownField(t *testing.T) {
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("name", ast.TypeExpr{Kind: ast.KindString}, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	err := Check(reg, "App", obj("name", value.String("x"), "extra", value.Int(1)), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(errors.ErrUnknownField))
}

func TestCheckOpenSchemaAllowsUnknownField(t *testing.T) {
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("name", ast.TypeExpr{Kind: ast.KindString}, false)},
		Open:   true,
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	err := Check(reg, "App", obj("name", value.String("x"), "extra", value.Int(1)), nil)
	assert.NoError(t, err)
}

func TestCheckExtendsInheritsParentFieldsAndOpenness(t *testing.T) {
	base := &ast.SchemaDecl{
		Name:   ident("Base"),
		Fields: []*ast.SchemaField{field("name", ast.TypeExpr{Kind: ast.KindString}, false)},
		Open:   true,
	}
	app := &ast.SchemaDecl{
		Name:    ident("App"),
		Extends: ident("Base"),
		Fields:  []*ast.SchemaField{field("port", ast.TypeExpr{Kind: ast.KindInt}, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"Base": base, "App": app})

	err := Check(reg, "App", obj("name", value.String("x"), "port", value.Int(80), "extra", value.Bool(true)), nil)
	assert.NoError(t, err, "extends should inherit both fields and Base's open flag")
}

func TestCheckExtendsChildOverridesParentField(t *testing.T) {
	base := &ast.SchemaDecl{
		Name:   ident("Base"),
		Fields: []*ast.SchemaField{field("port", ast.TypeExpr{Kind: ast.KindString}, false)},
	}
	app := &ast.SchemaDecl{
		Name:    ident("App"),
		Extends: ident("Base"),
		Fields:  []*ast.SchemaField{field("port", ast.TypeExpr{Kind: ast.KindInt}, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"Base": base, "App": app})

	err := Check(reg, "App", obj("port", value.Int(80)), nil)
	assert.NoError(t, err, "App's redeclared int port should win over Base's string port")
}

func TestCheckRangeConstraint(t *testing.T) {
	portType := ast.TypeExpr{Kind: ast.KindInt, HasRange: true, Min: 1, Max: 65535}
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("port", portType, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	assert.NoError(t, Check(reg, "App", obj("port", value.Int(8080)), nil))

	err := Check(reg, "App", obj("port", value.Int(99999)), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(errors.ErrOutOfRange))
}

func TestCheckStringRegexIsAnchored(t *testing.T) {
	nameType := ast.TypeExpr{Kind: ast.KindString, Regex: "[a-z]+"}
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("name", nameType, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	assert.NoError(t, Check(reg, "App", obj("name", value.String("abc")), nil))

	err := Check(reg, "App", obj("name", value.String("abc123")), nil)
	require.Error(t, err, "unanchored substring matching would have let the trailing digits through")
	assert.Contains(t, err.Error(), string(errors.ErrRegexMismatch))
}

func TestCheckStringLengthConstraint(t *testing.T) {
	nameType := ast.TypeExpr{Kind: ast.KindString, HasLength: true, MinLen: 2, MaxLen: 4}
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("name", nameType, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	assert.NoError(t, Check(reg, "App", obj("name", value.String("abcd")), nil))

	err := Check(reg, "App", obj("name", value.String("abcde")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(errors.ErrOutOfRange))
}

func TestCheckUncheckedPathSkipsValidation(t *testing.T) {
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("port", ast.TypeExpr{Kind: ast.KindInt}, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	err := Check(reg, "App", obj("port", value.String("whatever")), map[string]bool{"port": true})
	assert.NoError(t, err)
}

func TestCheckNestedSchemaRef(t *testing.T) {
	db := &ast.SchemaDecl{
		Name:   ident("Database"),
		Fields: []*ast.SchemaField{field("host", ast.TypeExpr{Kind: ast.KindString}, false)},
	}
	app := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("db", ast.TypeExpr{Kind: ast.KindSchemaRef, Ref: "Database"}, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"Database": db, "App": app})

	assert.NoError(t, Check(reg, "App", obj("db", obj("host", value.String("localhost"))), nil))

	err := Check(reg, "App", obj("db", obj("port", value.Int(1))), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(errors.ErrMissingRequired))
}

func TestCheckNullableAcceptsNull(t *testing.T) {
	nullableInt := ast.TypeExpr{Kind: ast.KindNullable, Inner: &ast.TypeExpr{Kind: ast.KindInt}}
	schema := &ast.SchemaDecl{
		Name:   ident("App"),
		Fields: []*ast.SchemaField{field("port", nullableInt, false)},
	}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	assert.NoError(t, Check(reg, "App", obj("port", value.Value{}), nil))
	assert.NoError(t, Check(reg, "App", obj("port", value.Int(80)), nil))
}

func TestApplyDefaultsFillsAbsentField(t *testing.T) {
	schema := &ast.SchemaDecl{
		Name: ident("App"),
		Fields: []*ast.SchemaField{
			field("name", ast.TypeExpr{Kind: ast.KindString}, true),
		},
	}
	schema.Fields[0].Default = &ast.BasicLit{Kind: 0, Value: "default-name"}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	doc := obj()
	evalDefault := func(e ast.Expr) (value.Value, error) {
		return value.String("default-name"), nil
	}
	require.NoError(t, ApplyDefaults(reg, schema, doc, evalDefault))

	got, ok := doc.Object().Get("name")
	require.True(t, ok)
	assert.Equal(t, "default-name", got.Str())
}

func TestApplyDefaultsLeavesPresentFieldAlone(t *testing.T) {
	schema := &ast.SchemaDecl{
		Name: ident("App"),
		Fields: []*ast.SchemaField{
			field("name", ast.TypeExpr{Kind: ast.KindString}, true),
		},
	}
	schema.Fields[0].Default = &ast.BasicLit{Value: "default-name"}
	reg := NewRegistry(map[string]*ast.SchemaDecl{"App": schema})

	doc := obj("name", value.String("explicit"))
	called := false
	evalDefault := func(e ast.Expr) (value.Value, error) {
		called = true
		return value.String("default-name"), nil
	}
	require.NoError(t, ApplyDefaults(reg, schema, doc, evalDefault))
	assert.False(t, called)

	got, _ := doc.Object().Get("name")
	assert.Equal(t, "explicit", got.Str())
}
