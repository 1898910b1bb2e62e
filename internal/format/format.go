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

// Package format implements the canonical Hone source pretty-printer used
// by `hone fmt`. It walks the ast.File tree directly, the way cue/format
// walks cue/ast, rather than re-tokenizing or diffing source text.
package format

import (
	"bytes"
	"fmt"

	"github.com/honelang/hone/internal/ast"
	"github.com/honelang/hone/internal/token"
)

const indentStep = "  "

// Node renders a single *ast.File back to canonical Hone source.
func Node(f *ast.File) ([]byte, error) {
	p := &printer{}
	p.file(f)
	return p.buf.Bytes(), nil
}

type printer struct {
	buf    bytes.Buffer
	indent string
}

func (p *printer) line(format string, args ...any) {
	p.buf.WriteString(p.indent)
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) push() { p.indent += indentStep }
func (p *printer) pop()  { p.indent = p.indent[:len(p.indent)-len(indentStep)] }

func (p *printer) file(f *ast.File) {
	pre := f.Preamble
	for _, im := range pre.Imports {
		p.importDecl(im)
	}
	if pre.From != nil {
		p.line("from %q", pre.From.Path)
	}
	for _, s := range pre.Secrets {
		p.line("secret %s from %q", s.Name.Name, s.Provider)
	}
	for _, e := range pre.Expects {
		if e.Default != nil {
			p.line("expect args.%s : %s = %s", e.Name.Name, typeExpr(e.Type), expr(e.Default))
		} else {
			p.line("expect args.%s : %s", e.Name.Name, typeExpr(e.Type))
		}
	}
	for _, t := range pre.Types {
		p.line("type %s = %s", t.Name.Name, typeExpr(t.Type))
	}
	for _, l := range pre.Lets {
		p.line("let %s = %s", l.Name.Name, expr(l.Value))
	}
	for _, fn := range pre.Fns {
		names := make([]string, len(fn.Params))
		for i, pa := range fn.Params {
			names[i] = pa.Name
		}
		p.line("fn %s(%s) { %s }", fn.Name.Name, joinComma(names), expr(fn.Body))
	}
	for _, s := range pre.Schemas {
		p.schemaDecl(s)
	}
	for _, u := range pre.Uses {
		p.line("use %s", u.Schema.Name)
	}
	for _, v := range pre.Variants {
		p.variantDecl(v)
	}
	for _, a := range pre.Asserts {
		p.assertDecl(a)
	}
	for _, pol := range pre.Policies {
		p.policyDecl(pol)
	}

	for _, doc := range f.Docs {
		if doc.Name != "" {
			if p.buf.Len() > 0 {
				p.buf.WriteByte('\n')
			}
			p.line("---%s", doc.Name)
		}
		p.entries(doc.Entries)
	}
}

func (p *printer) importDecl(im *ast.ImportDecl) {
	switch {
	case im.Alias != nil:
		p.line("import %q as %s", im.Path, im.Alias.Name)
	case len(im.Names) > 0:
		names := make([]string, len(im.Names))
		for i, n := range im.Names {
			names[i] = n.Name
		}
		p.line("import { %s } from %q", joinComma(names), im.Path)
	default:
		p.line("import %q", im.Path)
	}
}

func (p *printer) schemaDecl(s *ast.SchemaDecl) {
	head := "schema " + s.Name.Name
	if s.Extends != nil {
		head += " extends " + s.Extends.Name
	}
	p.line("%s {", head)
	p.push()
	for _, f := range s.Fields {
		opt := ""
		if f.Optional {
			opt = "?"
		}
		if f.Default != nil {
			p.line("%s%s: %s = %s", f.Name.Name, opt, typeExpr(f.Type), expr(f.Default))
		} else {
			p.line("%s%s: %s", f.Name.Name, opt, typeExpr(f.Type))
		}
	}
	if s.Open {
		p.line("...")
	}
	p.pop()
	p.line("}")
}

func (p *printer) variantDecl(v *ast.VariantDecl) {
	p.line("variant %s {", v.Name.Name)
	p.push()
	for _, c := range v.Cases {
		head := c.Name.Name
		if c.IsDefault {
			head = "default " + head
		}
		p.line("%s {", head)
		p.push()
		for _, l := range c.Lets {
			p.line("let %s = %s", l.Name.Name, expr(l.Value))
		}
		p.entries(c.Entries)
		p.pop()
		p.line("}")
	}
	p.pop()
	p.line("}")
}

func (p *printer) assertDecl(a *ast.AssertDecl) {
	if a.Msg != nil {
		p.line("assert %s : %s", expr(a.Cond), expr(a.Msg))
	} else {
		p.line("assert %s", expr(a.Cond))
	}
}

func (p *printer) policyDecl(pol *ast.PolicyDecl) {
	kind := "deny"
	if pol.Kind == token.WARN {
		kind = "warn"
	}
	if pol.Message != nil {
		p.line("policy %s (%s) when %s { %s }", pol.Name.Name, kind, expr(pol.Cond), expr(pol.Message))
	} else {
		p.line("policy %s (%s) when %s", pol.Name.Name, kind, expr(pol.Cond))
	}
}

func (p *printer) entries(entries []*ast.Entry) {
	for _, e := range entries {
		p.entry(e)
	}
}

func (p *printer) entry(e *ast.Entry) {
	switch {
	case e.Assert != nil:
		p.assertEntry(e.Assert)
	case e.When != nil:
		p.whenExpr(e.When)
	case e.For != nil:
		p.forEntry(e.For)
	default:
		key := expr(e.Key)
		if lit, ok := e.Value.(*ast.ObjectLit); ok && !lit.Inline {
			p.line("%s%s {", key, e.Mode)
			p.push()
			p.entries(lit.Entries)
			p.pop()
			p.line("}")
			return
		}
		unchecked := ""
		if e.Unchecked {
			unchecked = "@unchecked "
		}
		p.line("%s%s%s %s", unchecked, key, e.Mode, expr(e.Value))
	}
}

func (p *printer) assertEntry(a *ast.AssertEntry) {
	if a.Msg != nil {
		p.line("assert %s : %s", expr(a.Cond), expr(a.Msg))
	} else {
		p.line("assert %s", expr(a.Cond))
	}
}

func (p *printer) whenExpr(w *ast.WhenExpr) {
	for i, c := range w.Cases {
		kw := "when"
		if i > 0 {
			kw = "else when"
		}
		if c.Cond == nil {
			kw = "else"
			p.line("%s {", kw)
		} else {
			p.line("%s %s {", kw, expr(c.Cond))
		}
		p.push()
		p.entries(c.Entries)
		p.pop()
		p.line("}")
	}
}

func (p *printer) forEntry(f *ast.ForExpr) {
	p.line("for %s in %s {", forBinding(f.Bind), expr(f.Iterable))
	p.push()
	p.entries(f.Entries)
	p.pop()
	p.line("}")
}

func forBinding(b ast.ForBinding) string {
	if b.Key != nil {
		return fmt.Sprintf("(%s, %s)", b.Key.Name, b.Value.Name)
	}
	return b.Value.Name
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// expr renders an expression to a single line. Hone expressions never
// span the block constructs (when/for) handled structurally above, so a
// single-line renderer is sufficient for every Expr variant reachable
// here.
func expr(e ast.Expr) string {
	switch x := e.(type) {
	case nil:
		return ""
	case *ast.Ident:
		return x.Name
	case *ast.BasicLit:
		return x.Value
	case *ast.Interpolation:
		return interpolation(x)
	case *ast.ArrayLit:
		parts := make([]string, len(x.Elts))
		for i, el := range x.Elts {
			parts[i] = expr(el)
		}
		return "[" + joinComma(parts) + "]"
	case *ast.ObjectLit:
		parts := make([]string, 0, len(x.Entries))
		for _, e := range x.Entries {
			if e.Key != nil {
				parts = append(parts, fmt.Sprintf("%s%s %s", expr(e.Key), e.Mode, expr(e.Value)))
			}
		}
		return "{ " + joinComma(parts) + " }"
	case *ast.SpreadExpr:
		return "..." + expr(x.Value)
	case *ast.ParenExpr:
		return "(" + expr(x.X) + ")"
	case *ast.SelectorExpr:
		return expr(x.X) + "." + x.Sel.Name
	case *ast.IndexExpr:
		return expr(x.X) + "[" + expr(x.Index) + "]"
	case *ast.CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = expr(a)
		}
		return expr(x.Fun) + "(" + joinComma(args) + ")"
	case *ast.UnaryExpr:
		return x.Op.String() + expr(x.X)
	case *ast.BinaryExpr:
		return expr(x.X) + " " + x.Op.String() + " " + expr(x.Y)
	case *ast.TernaryExpr:
		return expr(x.Cnd) + " ? " + expr(x.Then) + " : " + expr(x.Els)
	case *ast.ForExpr:
		if x.Body != nil {
			return fmt.Sprintf("for %s in %s { %s }", forBinding(x.Bind), expr(x.Iterable), expr(x.Body))
		}
		return fmt.Sprintf("for %s in %s { ... }", forBinding(x.Bind), expr(x.Iterable))
	case *ast.WhenExpr:
		return "when ..."
	default:
		return fmt.Sprintf("<%T>", x)
	}
}

func joinSemi(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += "; "
		}
		out += s
	}
	return out
}

func interpolation(x *ast.Interpolation) string {
	s := ""
	for _, part := range x.Parts {
		if part.Expr != nil {
			s += "${" + expr(part.Expr) + "}"
		} else {
			s += part.Lit
		}
	}
	return fmt.Sprintf("%q", s)
}

func typeExpr(t ast.TypeExpr) string {
	switch t.Kind {
	case ast.KindInt, ast.KindFloat:
		if t.HasRange {
			return fmt.Sprintf("%s(%s,%s)", t.Kind, trimNum(t.Min), trimNum(t.Max))
		}
		return t.Kind.String()
	case ast.KindString:
		if t.Regex != "" {
			return fmt.Sprintf("string(%q)", t.Regex)
		}
		if t.HasLength {
			return fmt.Sprintf("string(%d,%d)", t.MinLen, t.MaxLen)
		}
		return "string"
	case ast.KindSchemaRef:
		return t.Ref
	case ast.KindNullable:
		return "Nullable(" + typeExpr(*t.Inner) + ")"
	default:
		return t.Kind.String()
	}
}

func trimNum(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
