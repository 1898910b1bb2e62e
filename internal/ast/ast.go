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

// Package ast declares the types used to represent the syntax tree of a
// Hone source file.
package ast

import "github.com/honelang/hone/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Decl is implemented by all preamble declaration nodes.
type Decl interface {
	Node
	declNode()
}

// AssignMode is the operator used for a body entry: ':' (merge), '+:'
// (append), or '!:' (force replace). See spec.md §4.4.
type AssignMode int

const (
	AssignMerge AssignMode = iota
	AssignAppend
	AssignForce
)

func (m AssignMode) String() string {
	switch m {
	case AssignAppend:
		return "+:"
	case AssignForce:
		return "!:"
	default:
		return ":"
	}
}

// ---------------------------------------------------------------------
// Expressions

type (
	// BadExpr is a placeholder for an expression containing syntax errors,
	// so that parsing can continue collecting further diagnostics.
	BadExpr struct {
		From, To token.Pos
	}

	// Ident is an identifier reference.
	Ident struct {
		NamePos token.Pos
		Name    string
	}

	// BasicLit is an integer, float, bool, or null literal.
	BasicLit struct {
		ValuePos token.Pos
		Kind     token.Token // INT, FLOAT, TRUE, FALSE, NULL
		Value    string
	}

	// StringPart is either a literal chunk or an interpolated expression
	// inside an Interpolation.
	StringPart struct {
		Lit  string // set when Expr == nil
		Expr Expr   // set for "${...}" parts
	}

	// Interpolation is a single-quoted, double-quoted, or triple-quoted
	// string, represented as a sequence of literal/expression parts.
	Interpolation struct {
		Quote    token.Token // STRING (no interpolation) or StringStart
		StartPos token.Pos
		EndPos   token.Pos
		Parts    []StringPart
	}

	// ArrayLit is an array literal: [e1, e2, ...].
	ArrayLit struct {
		Lbrack token.Pos
		Elts   []Expr
		Rbrack token.Pos
	}

	// Entry is one "key op value" triple inside an object body, or a
	// control-flow entry (When, a body-level For, or Assert).
	Entry struct {
		// One of Key/When/For/Assert is set.
		Key        Expr // identifier, interpolated string, or [expr]
		KeyIsIdent bool
		Mode       AssignMode
		Value      Expr
		Unchecked  bool

		When   *WhenExpr
		For    *ForExpr
		Assert *AssertEntry

		Pos_ token.Pos
		End_ token.Pos
	}

	// AssertEntry is an `assert expr : msg` appearing as a body entry.
	AssertEntry struct {
		Keyword token.Pos
		Cond    Expr
		Msg     Expr
	}

	// ObjectLit is a struct literal: a sequence of Entries, block or
	// inline.
	ObjectLit struct {
		Lbrace  token.Pos
		Entries []*Entry
		Rbrace  token.Pos
		Inline  bool
	}

	// SpreadExpr is `...expr` appearing where an array or object element
	// is expected.
	SpreadExpr struct {
		Ellipsis token.Pos
		Value    Expr
	}

	// ForBinding is the `name` or `(key, value)` pattern bound by a for
	// comprehension.
	ForBinding struct {
		Key   *Ident // nil for single-name array bindings
		Value *Ident
	}

	// ForExpr is `for bind in iterable { body }`, in expression or
	// body-entry position. A body entry always has Entries set; in
	// expression position Body or Entries is set by the body's shape.
	ForExpr struct {
		Keyword  token.Pos
		Bind     ForBinding
		Iterable Expr
		Body     Expr    // non-nil when the for body is a bare expression
		Entries  []*Entry // non-nil when the for body is an object body
		Rbrace   token.Pos
	}

	// WhenCase is one `when cond { ... }` / `else when cond { ... }`
	// branch.
	WhenCase struct {
		Keyword token.Pos
		Cond    Expr // nil for a trailing "else"
		Entries []*Entry
		Rbrace  token.Pos
	}

	// WhenExpr is a `when/else when/else` chain.
	WhenExpr struct {
		Cases []*WhenCase
	}

	// ParenExpr is `(expr)`.
	ParenExpr struct {
		Lparen token.Pos
		X      Expr
		Rparen token.Pos
	}

	// SelectorExpr is `x.sel`.
	SelectorExpr struct {
		X   Expr
		Sel *Ident
	}

	// IndexExpr is `x[index]`.
	IndexExpr struct {
		X      Expr
		Lbrack token.Pos
		Index  Expr
		Rbrack token.Pos
	}

	// CallExpr is `fun(args...)`.
	CallExpr struct {
		Fun    Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// UnaryExpr is `-x`, `!x`.
	UnaryExpr struct {
		OpPos token.Pos
		Op    token.Token
		X     Expr
	}

	// BinaryExpr is `x op y`.
	BinaryExpr struct {
		X     Expr
		OpPos token.Pos
		Op    token.Token
		Y     Expr
	}

	// TernaryExpr is `cond ? then : els`.
	TernaryExpr struct {
		Cond token.Pos
		Cnd  Expr
		Then Expr
		Els  Expr
	}
)

func (*BadExpr) exprNode()       {}
func (*Ident) exprNode()         {}
func (*BasicLit) exprNode()      {}
func (*Interpolation) exprNode() {}
func (*ArrayLit) exprNode()      {}
func (*ObjectLit) exprNode()     {}
func (*SpreadExpr) exprNode()    {}
func (*ForExpr) exprNode()       {}
func (*WhenExpr) exprNode()      {}
func (*ParenExpr) exprNode()     {}
func (*SelectorExpr) exprNode()  {}
func (*IndexExpr) exprNode()     {}
func (*CallExpr) exprNode()      {}
func (*UnaryExpr) exprNode()     {}
func (*BinaryExpr) exprNode()    {}
func (*TernaryExpr) exprNode()   {}

func (x *BadExpr) Pos() token.Pos       { return x.From }
func (x *Ident) Pos() token.Pos         { return x.NamePos }
func (x *BasicLit) Pos() token.Pos      { return x.ValuePos }
func (x *Interpolation) Pos() token.Pos { return x.StartPos }
func (x *ArrayLit) Pos() token.Pos      { return x.Lbrack }
func (x *ObjectLit) Pos() token.Pos     { return x.Lbrace }
func (x *SpreadExpr) Pos() token.Pos    { return x.Ellipsis }
func (x *ForExpr) Pos() token.Pos       { return x.Keyword }
func (x *WhenExpr) Pos() token.Pos {
	if len(x.Cases) == 0 {
		return token.NoPos
	}
	return x.Cases[0].Keyword
}
func (x *ParenExpr) Pos() token.Pos    { return x.Lparen }
func (x *SelectorExpr) Pos() token.Pos { return x.X.Pos() }
func (x *IndexExpr) Pos() token.Pos    { return x.X.Pos() }
func (x *CallExpr) Pos() token.Pos     { return x.Fun.Pos() }
func (x *UnaryExpr) Pos() token.Pos    { return x.OpPos }
func (x *BinaryExpr) Pos() token.Pos   { return x.X.Pos() }
func (x *TernaryExpr) Pos() token.Pos  { return x.Cnd.Pos() }

func (x *BadExpr) End() token.Pos       { return x.To }
func (x *Ident) End() token.Pos         { return x.NamePos.Add(len(x.Name)) }
func (x *BasicLit) End() token.Pos      { return x.ValuePos.Add(len(x.Value)) }
func (x *Interpolation) End() token.Pos { return x.EndPos }
func (x *ArrayLit) End() token.Pos      { return x.Rbrack.Add(1) }
func (x *ObjectLit) End() token.Pos     { return x.Rbrace.Add(1) }
func (x *SpreadExpr) End() token.Pos    { return x.Value.End() }
func (x *ForExpr) End() token.Pos       { return x.Rbrace.Add(1) }
func (x *WhenExpr) End() token.Pos {
	if len(x.Cases) == 0 {
		return token.NoPos
	}
	return x.Cases[len(x.Cases)-1].Rbrace.Add(1)
}
func (x *ParenExpr) End() token.Pos    { return x.Rparen.Add(1) }
func (x *SelectorExpr) End() token.Pos { return x.Sel.End() }
func (x *IndexExpr) End() token.Pos    { return x.Rbrack.Add(1) }
func (x *CallExpr) End() token.Pos     { return x.Rparen.Add(1) }
func (x *UnaryExpr) End() token.Pos    { return x.X.End() }
func (x *BinaryExpr) End() token.Pos   { return x.Y.End() }
func (x *TernaryExpr) End() token.Pos  { return x.Els.End() }

func (e *Entry) Pos() token.Pos { return e.Pos_ }
func (e *Entry) End() token.Pos { return e.End_ }

// ---------------------------------------------------------------------
// Declarations (preamble items)

type (
	// LetDecl is `let NAME = expr`.
	LetDecl struct {
		Keyword token.Pos
		Name    *Ident
		Value   Expr
	}

	// FnDecl is `fn NAME(p1, p2) { expr }`.
	FnDecl struct {
		Keyword token.Pos
		Name    *Ident
		Params  []*Ident
		Body    Expr
		Rbrace  token.Pos
	}

	// ImportDecl is `import STR as NAME` or `import { N1, N2 } from STR`.
	ImportDecl struct {
		Keyword token.Pos
		Path    string
		Alias   *Ident   // set for "as NAME" form
		Names   []*Ident // set for "{ N1, N2 } from" form
		End_    token.Pos
	}

	// FromDecl is `from STR`; at most one per single-document file.
	FromDecl struct {
		Keyword token.Pos
		Path    string
		End_    token.Pos
	}

	// ExpectDecl is `expect args.NAME : type [= default]`.
	ExpectDecl struct {
		Keyword token.Pos
		Name    *Ident
		Type    TypeExpr
		Default Expr // nil if no default; required iff Default == nil
	}

	// SecretDecl is `secret NAME from "PROVIDER:PATH"`.
	SecretDecl struct {
		Keyword  token.Pos
		Name     *Ident
		Provider string
		End_     token.Pos
	}

	// TypeDecl is `type NAME = typeExpr`.
	TypeDecl struct {
		Keyword token.Pos
		Name    *Ident
		Type    TypeExpr
	}

	// SchemaField is one field inside a `schema { ... }` body.
	SchemaField struct {
		Name     *Ident
		Optional bool
		Type     TypeExpr
		Default  Expr
	}

	// SchemaDecl is `schema NAME [extends Parent] { fields... [...] }`.
	SchemaDecl struct {
		Keyword token.Pos
		Name    *Ident
		Extends *Ident
		Fields  []*SchemaField
		Open    bool
		Rbrace  token.Pos
	}

	// UseDecl is `use SchemaRef`.
	UseDecl struct {
		Keyword token.Pos
		Schema  *Ident
	}

	// AssertDecl is a preamble-level `assert expr : msg`.
	AssertDecl struct {
		Keyword token.Pos
		Cond    Expr
		Msg     Expr
	}

	// PolicyDecl is `policy NAME (deny|warn) when expr [{ "message" }]`.
	PolicyDecl struct {
		Keyword token.Pos
		Name    *Ident
		Kind    token.Token // DENY or WARN
		Cond    Expr
		Message Expr // nil if absent
		End_    token.Pos
	}

	// VariantCase is one `case { ... }` (or `default case { ... }`)
	// inside a variant declaration.
	VariantCase struct {
		Name     *Ident
		IsDefault bool
		Lets     []*LetDecl
		Entries  []*Entry
		Rbrace   token.Pos
	}

	// VariantDecl is `variant NAME { case1 { ... } case2 { ... } ... }`.
	VariantDecl struct {
		Keyword token.Pos
		Name    *Ident
		Cases   []*VariantCase
		Rbrace  token.Pos
	}
)

func (*LetDecl) declNode()     {}
func (*FnDecl) declNode()      {}
func (*ImportDecl) declNode()  {}
func (*FromDecl) declNode()    {}
func (*ExpectDecl) declNode()  {}
func (*SecretDecl) declNode()  {}
func (*TypeDecl) declNode()    {}
func (*SchemaDecl) declNode()  {}
func (*UseDecl) declNode()     {}
func (*AssertDecl) declNode()  {}
func (*PolicyDecl) declNode()  {}
func (*VariantDecl) declNode() {}

func (d *LetDecl) Pos() token.Pos     { return d.Keyword }
func (d *FnDecl) Pos() token.Pos      { return d.Keyword }
func (d *ImportDecl) Pos() token.Pos  { return d.Keyword }
func (d *FromDecl) Pos() token.Pos    { return d.Keyword }
func (d *ExpectDecl) Pos() token.Pos  { return d.Keyword }
func (d *SecretDecl) Pos() token.Pos  { return d.Keyword }
func (d *TypeDecl) Pos() token.Pos    { return d.Keyword }
func (d *SchemaDecl) Pos() token.Pos  { return d.Keyword }
func (d *UseDecl) Pos() token.Pos     { return d.Keyword }
func (d *AssertDecl) Pos() token.Pos  { return d.Keyword }
func (d *PolicyDecl) Pos() token.Pos  { return d.Keyword }
func (d *VariantDecl) Pos() token.Pos { return d.Keyword }

func (d *LetDecl) End() token.Pos     { return d.Value.End() }
func (d *FnDecl) End() token.Pos      { return d.Rbrace.Add(1) }
func (d *ImportDecl) End() token.Pos  { return d.End_ }
func (d *FromDecl) End() token.Pos    { return d.End_ }
func (d *ExpectDecl) End() token.Pos {
	if d.Default != nil {
		return d.Default.End()
	}
	return d.Type.End()
}
func (d *SecretDecl) End() token.Pos  { return d.End_ }
func (d *TypeDecl) End() token.Pos    { return d.Type.End() }
func (d *SchemaDecl) End() token.Pos  { return d.Rbrace.Add(1) }
func (d *UseDecl) End() token.Pos     { return d.Schema.End() }
func (d *AssertDecl) End() token.Pos  { return d.Msg.End() }
func (d *PolicyDecl) End() token.Pos  { return d.End_ }
func (d *VariantDecl) End() token.Pos { return d.Rbrace.Add(1) }

// Preamble groups all declarations that may precede a file's body.
type Preamble struct {
	Lets     []*LetDecl
	Fns      []*FnDecl
	Imports  []*ImportDecl
	From     *FromDecl
	Expects  []*ExpectDecl
	Secrets  []*SecretDecl
	Types    []*TypeDecl
	Schemas  []*SchemaDecl
	Uses     []*UseDecl
	Asserts  []*AssertDecl
	Policies []*PolicyDecl
	Variants []*VariantDecl
}

// Document is one `---NAME` section of a multi-document file, or the sole
// body of a single-document file (Name == "").
type Document struct {
	Name    string
	NamePos token.Pos
	Entries []*Entry
}

// File is the parsed representation of a single .hone source file.
type File struct {
	Filename string
	Preamble Preamble
	Docs     []*Document // len == 1 for a single-document file
}

// Exports returns the set of top-level names a file makes available to
// importers: every let, fn, schema, and type declaration.
func (f *File) Exports() map[string]bool {
	names := make(map[string]bool)
	for _, l := range f.Preamble.Lets {
		names[l.Name.Name] = true
	}
	for _, fn := range f.Preamble.Fns {
		names[fn.Name.Name] = true
	}
	for _, s := range f.Preamble.Schemas {
		names[s.Name.Name] = true
	}
	for _, t := range f.Preamble.Types {
		names[t.Name.Name] = true
	}
	return names
}
