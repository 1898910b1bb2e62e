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
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/honelang/hone/internal/ast"
	"github.com/honelang/hone/internal/token"
)

// The schema type-expression grammar (int(min,max), float(min,max),
// string(min,max), string("regex"), bool, object, array, Nullable(T), and
// bare SchemaRef identifiers) is a small, closed sub-language distinct from
// the main Pratt expression grammar, so it is parsed with participle
// instead of hand-written recursive descent — the same division of labor
// holomush-holomush uses for its policy DSL.
var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// typeLit is the participle grammar root: a Nullable(...) wrapper or a
// primitive/SchemaRef name with optional parenthesized arguments.
type typeLit struct {
	Nullable *nullableLit `parser:"  @@"`
	Prim     *primType    `parser:"| @@"`
}

type nullableLit struct {
	Inner *typeLit `parser:"'Nullable' '(' @@ ')'"`
}

type primType struct {
	Name string    `parser:"@Ident"`
	Args *argsList `parser:"('(' @@ ')')?"`
}

type argsList struct {
	Str  *string   `parser:"  @String"`
	Nums []float64 `parser:"| @Number (',' @Number)*"`
}

var typeParser = participle.MustBuild[typeLit](
	participle.Lexer(typeLexer),
	participle.Elide("whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(participle.MaxLookahead),
)

// ParseTypeExpr parses the text of a schema field's type expression. base
// is the position of src's first byte in the enclosing file, used only to
// make the returned node's Pos/End meaningful for diagnostics.
func ParseTypeExpr(src string, base token.Pos) (*ast.TypeExpr, error) {
	lit, err := typeParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("invalid type expression %q: %w", src, err)
	}
	t, err := buildTypeExpr(lit)
	if err != nil {
		return nil, err
	}
	t.Pos_ = base
	t.End_ = base.Add(len(src))
	return t, nil
}

func buildTypeExpr(lit *typeLit) (*ast.TypeExpr, error) {
	if lit.Nullable != nil {
		inner, err := buildTypeExpr(lit.Nullable.Inner)
		if err != nil {
			return nil, err
		}
		return &ast.TypeExpr{Kind: ast.KindNullable, Inner: inner}, nil
	}
	p := lit.Prim
	switch p.Name {
	case "int", "float":
		kind := ast.KindInt
		if p.Name == "float" {
			kind = ast.KindFloat
		}
		t := &ast.TypeExpr{Kind: kind}
		if p.Args != nil {
			if p.Args.Str != nil {
				return nil, fmt.Errorf("%s does not take a string argument", p.Name)
			}
			switch len(p.Args.Nums) {
			case 2:
				t.HasRange = true
				t.Min, t.Max = p.Args.Nums[0], p.Args.Nums[1]
			default:
				return nil, fmt.Errorf("%s(...) expects exactly two bounds", p.Name)
			}
		}
		return t, nil
	case "string":
		t := &ast.TypeExpr{Kind: ast.KindString}
		if p.Args != nil {
			switch {
			case p.Args.Str != nil:
				t.Regex = *p.Args.Str
			case len(p.Args.Nums) == 2:
				t.HasLength = true
				t.MinLen = int(p.Args.Nums[0])
				t.MaxLen = int(p.Args.Nums[1])
			default:
				return nil, fmt.Errorf("string(...) expects either a regex string or two length bounds")
			}
		}
		return t, nil
	case "bool":
		return &ast.TypeExpr{Kind: ast.KindBool}, nil
	case "object":
		return &ast.TypeExpr{Kind: ast.KindObject}, nil
	case "array":
		return &ast.TypeExpr{Kind: ast.KindArray}, nil
	default:
		if p.Args != nil {
			return nil, fmt.Errorf("unknown parameterized type %q", p.Name)
		}
		return &ast.TypeExpr{Kind: ast.KindSchemaRef, Ref: p.Name}, nil
	}
}
