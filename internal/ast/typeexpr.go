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

package ast

import "github.com/honelang/hone/internal/token"

// TypeExpr is the result of parsing a schema field's type expression
// (int[range], float[range], string[length|regex], bool, object, array,
// a SchemaRef, or Nullable(T)). It is produced by
// internal/parser.ParseTypeExpr, a small grammar kept separate from the
// main Pratt expression parser (see internal/parser/typeexpr.go).
type TypeExpr struct {
	Pos_ token.Pos
	End_ token.Pos

	Kind TypeKind

	// Int / Float range, checked only when HasRange is set.
	HasRange bool
	Min, Max float64

	// String length bounds or regex; mutually exclusive.
	HasLength bool
	MinLen    int
	MaxLen    int
	Regex     string // non-empty for string("regex")

	// SchemaRef name.
	Ref string

	// Nullable(Inner).
	Inner *TypeExpr
}

func (t TypeExpr) Pos() token.Pos { return t.Pos_ }
func (t TypeExpr) End() token.Pos { return t.End_ }

// TypeKind enumerates the type-expression shapes of spec.md §3.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindFloat
	KindString
	KindBool
	KindObject
	KindArray
	KindSchemaRef
	KindNullable
)

func (k TypeKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindSchemaRef:
		return "schema"
	case KindNullable:
		return "nullable"
	default:
		return "unknown"
	}
}
