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

// Package parser implements a recursive-descent parser for Hone source
// text, using a Pratt parser for expressions. See spec.md §4.2.
package parser

import (
	"github.com/honelang/hone/internal/ast"
	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/scanner"
	"github.com/honelang/hone/internal/token"
)

// Parser holds the state of one file's parse.
type Parser struct {
	file    *token.File
	sc      scanner.Scanner
	errs    errors.List
	seenFrom bool

	pos     token.Pos
	tok     token.Token
	lit     string
	newline bool
}

// ParseFile parses the named source into an *ast.File. Errors are
// returned as an errors.List; parsing continues past recoverable errors
// so that diagnostics accumulate.
func ParseFile(filename string, src []byte) (*ast.File, error) {
	p := &Parser{file: token.NewFile(filename, len(src))}
	p.sc.Init(p.file, src, func(pos token.Position, code errors.Code, msg string) {
		p.errs.Add(errors.Newf(code, p.file.Pos(pos.Offset), "%s", msg))
	})
	p.next()

	f := &ast.File{Filename: filename}
	p.parsePreamble(&f.Preamble)

	if p.tok == token.DOCSEP {
		if f.Preamble.From != nil {
			p.errorf(errors.ErrFromInMultiDoc, p.pos, "from is forbidden in multi-document files")
		}
		for p.tok == token.DOCSEP {
			name := p.lit
			namePos := p.pos
			p.next()
			doc := &ast.Document{Name: name, NamePos: namePos}
			doc.Entries = p.parseEntries(token.DOCSEP)
			f.Docs = append(f.Docs, doc)
		}
	} else {
		doc := &ast.Document{}
		doc.Entries = p.parseEntries(token.ILLEGAL)
		f.Docs = append(f.Docs, doc)
	}

	return f, p.errs.Err()
}

func (p *Parser) next() {
	p.pos, p.tok, p.lit, p.newline = p.sc.Scan()
}

func (p *Parser) errorf(code errors.Code, pos token.Pos, format string, args ...interface{}) {
	p.errs.AddNewf(code, pos, format, args...)
}

func (p *Parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorf(errors.ErrIllegalChar, p.pos, "expected %s, found %s", tok, p.tok)
	} else {
		p.next()
	}
	return pos
}

// ---------------------------------------------------------------------
// Preamble

func isPreambleStart(tok token.Token) bool {
	switch tok {
	case token.LET, token.FN, token.IMPORT, token.FROM, token.EXPECT,
		token.SECRET, token.TYPE, token.SCHEMA, token.USE, token.ASSERT,
		token.POLICY, token.VARIANT:
		return true
	}
	return false
}

func (p *Parser) parsePreamble(pre *ast.Preamble) {
	for isPreambleStart(p.tok) {
		switch p.tok {
		case token.LET:
			pre.Lets = append(pre.Lets, p.parseLet())
		case token.FN:
			pre.Fns = append(pre.Fns, p.parseFn())
		case token.IMPORT:
			pre.Imports = append(pre.Imports, p.parseImport())
		case token.FROM:
			fd := p.parseFrom()
			if pre.From != nil {
				p.errorf(errors.ErrMultipleFrom, fd.Keyword, "at most one 'from' is allowed per file")
			} else {
				pre.From = fd
			}
		case token.EXPECT:
			pre.Expects = append(pre.Expects, p.parseExpect())
		case token.SECRET:
			pre.Secrets = append(pre.Secrets, p.parseSecret())
		case token.TYPE:
			pre.Types = append(pre.Types, p.parseType())
		case token.SCHEMA:
			pre.Schemas = append(pre.Schemas, p.parseSchema())
		case token.USE:
			pre.Uses = append(pre.Uses, p.parseUse())
		case token.ASSERT:
			pre.Asserts = append(pre.Asserts, p.parseAssertDecl())
		case token.POLICY:
			pre.Policies = append(pre.Policies, p.parsePolicy())
		case token.VARIANT:
			pre.Variants = append(pre.Variants, p.parseVariant())
		}
	}
}

func (p *Parser) parseIdent() *ast.Ident {
	pos, name := p.pos, p.lit
	if p.tok != token.IDENT {
		p.errorf(errors.ErrIllegalChar, p.pos, "expected identifier, found %s", p.tok)
		name = p.tok.String()
	} else {
		p.next()
	}
	return &ast.Ident{NamePos: pos, Name: name}
}

func (p *Parser) parseLet() *ast.LetDecl {
	kw := p.pos
	p.next() // 'let'
	name := p.parseIdent()
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	return &ast.LetDecl{Keyword: kw, Name: name, Value: val}
}

func (p *Parser) parseFn() *ast.FnDecl {
	kw := p.pos
	p.next() // 'fn'
	name := p.parseIdent()
	p.expect(token.LPAREN)
	var params []*ast.Ident
	for p.tok != token.RPAREN && p.tok != token.EOF {
		params = append(params, p.parseIdent())
		if p.tok == token.COMMA {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	body := p.parseExpr()
	rb := p.expect(token.RBRACE)
	return &ast.FnDecl{Keyword: kw, Name: name, Params: params, Body: body, Rbrace: rb}
}

func (p *Parser) parseStringLiteralText() (string, token.Pos) {
	pos := p.pos
	switch p.tok {
	case token.STRING:
		s := p.lit
		p.next()
		return s, pos
	case token.StringStart:
		var b []byte
		p.next()
		for p.tok == token.StringLit {
			b = append(b, p.lit...)
			p.next()
		}
		p.expect(token.StringEnd)
		return string(b), pos
	default:
		p.errorf(errors.ErrIllegalChar, p.pos, "expected string literal, found %s", p.tok)
		return "", pos
	}
}

func (p *Parser) parseImport() *ast.ImportDecl {
	kw := p.pos
	p.next() // 'import'
	d := &ast.ImportDecl{Keyword: kw}
	if p.tok == token.LBRACE {
		p.next()
		for p.tok != token.RBRACE && p.tok != token.EOF {
			d.Names = append(d.Names, p.parseIdent())
			if p.tok == token.COMMA {
				p.next()
			}
		}
		p.expect(token.RBRACE)
		if p.tok == token.FROM {
			p.next()
		} else {
			p.errorf(errors.ErrIllegalChar, p.pos, "expected 'from' after import list")
		}
		d.Path, _ = p.parseStringLiteralText()
	} else {
		d.Path, _ = p.parseStringLiteralText()
		if p.tok == token.AS {
			p.next()
			d.Alias = p.parseIdent()
		}
	}
	d.End_ = p.pos
	return d
}

func (p *Parser) parseFrom() *ast.FromDecl {
	kw := p.pos
	p.next() // 'from'
	path, _ := p.parseStringLiteralText()
	return &ast.FromDecl{Keyword: kw, Path: path, End_: p.pos}
}

func (p *Parser) parseExpect() *ast.ExpectDecl {
	kw := p.pos
	p.next() // 'expect'
	// args.NAME
	p.expect(token.IDENT) // "args" (not validated further; the evaluator checks it)
	p.expect(token.PERIOD)
	name := p.parseIdent()
	p.expect(token.COLON)
	typ := p.parseTypeExprInline()
	var def ast.Expr
	if p.tok == token.ASSIGN {
		p.next()
		def = p.parseExpr()
	}
	return &ast.ExpectDecl{Keyword: kw, Name: name, Type: *typ, Default: def}
}

func (p *Parser) parseSecret() *ast.SecretDecl {
	kw := p.pos
	p.next() // 'secret'
	name := p.parseIdent()
	if p.tok == token.FROM {
		p.next()
	} else {
		p.errorf(errors.ErrIllegalChar, p.pos, "expected 'from' in secret declaration")
	}
	provider, _ := p.parseStringLiteralText()
	return &ast.SecretDecl{Keyword: kw, Name: name, Provider: provider, End_: p.pos}
}

func (p *Parser) parseType() *ast.TypeDecl {
	kw := p.pos
	p.next() // 'type'
	name := p.parseIdent()
	p.expect(token.ASSIGN)
	typ := p.parseTypeExprInline()
	return &ast.TypeDecl{Keyword: kw, Name: name, Type: *typ}
}

func (p *Parser) parseSchema() *ast.SchemaDecl {
	kw := p.pos
	p.next() // 'schema'
	name := p.parseIdent()
	d := &ast.SchemaDecl{Keyword: kw, Name: name}
	if p.tok == token.EXTENDS {
		p.next()
		d.Extends = p.parseIdent()
	}
	p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if p.tok == token.ELLIPSIS {
			p.next()
			d.Open = true
			continue
		}
		field := &ast.SchemaField{Name: p.parseIdent()}
		if p.tok == token.QUESTION {
			p.next()
			field.Optional = true
		}
		p.expect(token.COLON)
		field.Type = *p.parseTypeExprInline()
		if p.tok == token.ASSIGN {
			p.next()
			field.Default = p.parseExpr()
		}
		d.Fields = append(d.Fields, field)
		if p.tok == token.COMMA {
			p.next()
		}
	}
	d.Rbrace = p.expect(token.RBRACE)
	return d
}

func (p *Parser) parseUse() *ast.UseDecl {
	kw := p.pos
	p.next() // 'use'
	return &ast.UseDecl{Keyword: kw, Schema: p.parseIdent()}
}

func (p *Parser) parseAssertDecl() *ast.AssertDecl {
	kw := p.pos
	p.next() // 'assert'
	cond := p.parseExpr()
	p.expect(token.COLON)
	msg := p.parseExpr()
	return &ast.AssertDecl{Keyword: kw, Cond: cond, Msg: msg}
}

func (p *Parser) parsePolicy() *ast.PolicyDecl {
	kw := p.pos
	p.next() // 'policy'
	name := p.parseIdent()
	p.expect(token.LPAREN)
	kind := p.tok
	if kind != token.DENY && kind != token.WARN {
		p.errorf(errors.ErrIllegalChar, p.pos, "expected 'deny' or 'warn'")
	}
	p.next()
	p.expect(token.RPAREN)
	if p.tok == token.WHEN {
		p.next()
	} else {
		p.errorf(errors.ErrIllegalChar, p.pos, "expected 'when' in policy declaration")
	}
	cond := p.parseExpr()
	d := &ast.PolicyDecl{Keyword: kw, Name: name, Kind: kind, Cond: cond}
	if p.tok == token.LBRACE {
		p.next()
		d.Message = p.parseExpr()
		p.expect(token.RBRACE)
	}
	d.End_ = p.pos
	return d
}

func (p *Parser) parseVariant() *ast.VariantDecl {
	kw := p.pos
	p.next() // 'variant'
	name := p.parseIdent()
	d := &ast.VariantDecl{Keyword: kw, Name: name}
	p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		vc := &ast.VariantCase{}
		if p.tok == token.DEFAULT {
			p.next()
			vc.IsDefault = true
		}
		vc.Name = p.parseIdent()
		p.expect(token.LBRACE)
		for p.tok != token.RBRACE && p.tok != token.EOF {
			if p.tok == token.LET {
				vc.Lets = append(vc.Lets, p.parseLet())
				continue
			}
			vc.Entries = append(vc.Entries, p.parseEntry())
			if p.tok == token.COMMA {
				p.next()
			}
		}
		vc.Rbrace = p.expect(token.RBRACE)
		d.Cases = append(d.Cases, vc)
	}
	d.Rbrace = p.expect(token.RBRACE)
	return d
}

// parseTypeExprInline captures the raw source text of a type expression
// (identifier plus optional parenthesized args) and hands it to the
// participle-based sub-parser in typeexpr.go.
func (p *Parser) parseTypeExprInline() *ast.TypeExpr {
	start := p.pos
	var text []byte
	text = p.appendTypeToken(text)
	p.next()
	if p.tok == token.LPAREN {
		text = append(text, '(')
		p.next()
		depth := 1
		for depth > 0 && p.tok != token.EOF {
			switch p.tok {
			case token.LPAREN:
				depth++
				text = append(text, '(')
				p.next()
			case token.RPAREN:
				depth--
				text = append(text, ')')
				p.next()
			case token.COMMA:
				text = append(text, ',')
				p.next()
			case token.STRING:
				text = append(text, '"')
				text = append(text, escapeTypeArgString(p.lit)...)
				text = append(text, '"')
				p.next()
			case token.StringStart:
				text = append(text, '"')
				text = append(text, escapeTypeArgString(p.consumeStaticString())...)
				text = append(text, '"')
			default:
				text = p.appendTypeToken(text)
				p.next()
			}
		}
	}
	texp, err := ParseTypeExpr(string(text), start)
	if err != nil {
		p.errorf(errors.ErrTypeMismatch, start, "%s", err.Error())
		return &ast.TypeExpr{Pos_: start, End_: p.pos, Kind: ast.KindSchemaRef, Ref: string(text)}
	}
	return texp
}

// appendTypeToken appends the source text of the current token (an
// identifier or number) to text.
func (p *Parser) appendTypeToken(text []byte) []byte {
	switch p.tok {
	case token.IDENT, token.INT, token.FLOAT:
		return append(text, p.lit...)
	default:
		return append(text, p.tok.String()...)
	}
}

// consumeStaticString reads a StringStart..StringEnd sequence with no
// interpolated parts (the only kind a type-expression regex argument may
// contain) and returns its literal text.
func (p *Parser) consumeStaticString() string {
	p.next() // StringStart
	var s string
	for p.tok == token.StringLit {
		s += p.lit
		p.next()
	}
	if p.tok == token.StringExprStart {
		p.errorf(errors.ErrTypeMismatch, p.pos, "type arguments cannot contain interpolated strings")
		for p.tok != token.StringEnd && p.tok != token.EOF {
			p.next()
		}
	}
	p.expect(token.StringEnd)
	return s
}

func escapeTypeArgString(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// ---------------------------------------------------------------------
// Entries / body

// parseEntries parses a sequence of body entries until stop (DOCSEP) or
// EOF is reached (top level) or an enclosing RBRACE (nested, passed as
// token.RBRACE).
func (p *Parser) parseEntries(stop token.Token) []*ast.Entry {
	var entries []*ast.Entry
	for p.tok != token.EOF && p.tok != stop && !(stop == token.ILLEGAL && p.tok == token.RBRACE) {
		entries = append(entries, p.parseEntry())
		if p.tok == token.COMMA {
			p.next()
		}
	}
	return entries
}

func (p *Parser) parseEntry() *ast.Entry {
	start := p.pos
	switch p.tok {
	case token.WHEN:
		w := p.parseWhenChain()
		return &ast.Entry{When: w, Pos_: start, End_: w.End()}
	case token.FOR:
		f := p.parseFor(true)
		return &ast.Entry{For: f, Pos_: start, End_: f.End()}
	}

	unchecked := false
	if p.tok == token.AT {
		p.next()
		if p.tok == token.IDENT && p.lit == "unchecked" {
			unchecked = true
			p.next()
		} else {
			p.errorf(errors.ErrIllegalChar, p.pos, "unknown annotation")
		}
	}

	key, isIdent := p.parseKey()
	mode := ast.AssignMerge
	switch p.tok {
	case token.COLON:
		mode = ast.AssignMerge
	case token.APPEND:
		mode = ast.AssignAppend
	case token.FORCE:
		mode = ast.AssignForce
	default:
		p.errorf(errors.ErrIllegalChar, p.pos, "expected ':', '+:', or '!:' after entry key")
	}
	p.next()
	val := p.parseExpr()
	return &ast.Entry{
		Key: key, KeyIsIdent: isIdent, Mode: mode, Value: val,
		Unchecked: unchecked, Pos_: start, End_: val.End(),
	}
}

func (p *Parser) parseKey() (ast.Expr, bool) {
	switch p.tok {
	case token.IDENT:
		return p.parseIdent(), true
	case token.STRING, token.StringStart:
		return p.parseStringExpr(), false
	case token.LBRACK:
		p.next()
		e := p.parseExpr()
		p.expect(token.RBRACK)
		return e, false
	default:
		if token.IsKeyword(p.tok.String()) {
			p.errorf(errors.ErrReservedKey, p.pos, "reserved word %q cannot be used as a bare key", p.tok)
			name := p.tok.String()
			p.next()
			return &ast.Ident{Name: name}, true
		}
		p.errorf(errors.ErrIllegalChar, p.pos, "expected entry key, found %s", p.tok)
		p.next()
		return &ast.BadExpr{}, false
	}
}

// ---------------------------------------------------------------------
// when / for

func (p *Parser) parseWhenChain() *ast.WhenExpr {
	w := &ast.WhenExpr{}
	for {
		kw := p.pos
		p.next() // 'when' or consumed by caller for first iteration
		wc := &ast.WhenCase{Keyword: kw}
		wc.Cond = p.parseExpr()
		p.expect(token.LBRACE)
		wc.Entries = p.parseEntries(token.RBRACE)
		wc.Rbrace = p.expect(token.RBRACE)
		w.Cases = append(w.Cases, wc)

		if p.tok == token.ELSE {
			elseKw := p.pos
			p.next()
			if p.tok == token.WHEN {
				continue
			}
			ec := &ast.WhenCase{Keyword: elseKw}
			p.expect(token.LBRACE)
			ec.Entries = p.parseEntries(token.RBRACE)
			ec.Rbrace = p.expect(token.RBRACE)
			w.Cases = append(w.Cases, ec)
		}
		break
	}
	return w
}

func (p *Parser) parseForBinding() ast.ForBinding {
	if p.tok == token.LPAREN {
		p.next()
		k := p.parseIdent()
		p.expect(token.COMMA)
		v := p.parseIdent()
		p.expect(token.RPAREN)
		return ast.ForBinding{Key: k, Value: v}
	}
	return ast.ForBinding{Value: p.parseIdent()}
}

// parseFor parses a for comprehension. asEntry forces the body to be
// parsed as a sequence of object entries (for the body-entry position,
// where that's the only legal shape). In expression position asEntry is
// false and looksLikeEntries decides: `for (k, v) in m { name: v }` yields
// an Array of singleton Objects, one per iteration, while `for n in xs {
// n * 2 }` yields an Array of the bare expression's values.
func (p *Parser) parseFor(asEntry bool) *ast.ForExpr {
	kw := p.pos
	p.next() // 'for'
	bind := p.parseForBinding()
	if p.tok == token.IN {
		p.next()
	} else {
		p.errorf(errors.ErrIllegalChar, p.pos, "expected 'in' in for comprehension")
	}
	iterable := p.parseExpr()
	p.expect(token.LBRACE)
	f := &ast.ForExpr{Keyword: kw, Bind: bind, Iterable: iterable}
	if asEntry || p.looksLikeEntries() {
		f.Entries = p.parseEntries(token.RBRACE)
	} else {
		f.Body = p.parseExpr()
	}
	f.Rbrace = p.expect(token.RBRACE)
	return f
}

// parserState snapshots everything parseFor's lookahead needs to roll
// back after a speculative parse of a candidate entry key.
type parserState struct {
	sc      scanner.Scanner
	pos     token.Pos
	tok     token.Token
	lit     string
	newline bool
	errsLen int
}

func (p *Parser) snapshot() parserState {
	return parserState{sc: p.sc, pos: p.pos, tok: p.tok, lit: p.lit, newline: p.newline, errsLen: len(p.errs)}
}

func (p *Parser) restore(s parserState) {
	p.sc, p.pos, p.tok, p.lit, p.newline = s.sc, s.pos, s.tok, s.lit, s.newline
	p.errs = p.errs[:s.errsLen]
}

// looksLikeEntries decides, just past a for-expression's opening brace,
// whether the body is a keyed object body or a single bare expression.
// `when`/`for`/`@unchecked` and an empty body can only start an entries
// body; anything else is an entries body only if the candidate key is
// followed by an assignment operator, which it speculatively parses and
// then rolls back regardless of the outcome.
func (p *Parser) looksLikeEntries() bool {
	switch p.tok {
	case token.WHEN, token.FOR, token.AT, token.RBRACE:
		return true
	case token.IDENT, token.STRING, token.StringStart, token.LBRACK:
		snap := p.snapshot()
		defer p.restore(snap)
		p.parseKey()
		return p.tok == token.COLON || p.tok == token.APPEND || p.tok == token.FORCE
	}
	return false
}

// ---------------------------------------------------------------------
// Expressions (Pratt parser)
//
// Precedence, tightest to loosest: member/call/index, unary, `* / %`,
// `+ -`, `??`, comparison, equality, `&&`, `||`, ternary.

func (p *Parser) parseExpr() ast.Expr {
	return p.parseTernary()
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseBinary(1)
	if p.tok == token.QUESTION {
		qpos := p.pos
		p.next()
		then := p.parseExpr()
		p.expect(token.COLON)
		els := p.parseExpr()
		return &ast.TernaryExpr{Cond: qpos, Cnd: cond, Then: then, Els: els}
	}
	return cond
}

func (p *Parser) parseBinary(minPrec int) ast.Expr {
	x := p.parseUnary()
	for {
		prec := p.tok.Precedence()
		if prec == 0 || prec < minPrec {
			return x
		}
		op, opPos := p.tok, p.pos
		p.next()
		y := p.parseBinary(prec + 1)
		x = &ast.BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	if p.tok == token.SUB || p.tok == token.NOT {
		op, pos := p.tok, p.pos
		p.next()
		return &ast.UnaryExpr{OpPos: pos, Op: op, X: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.tok {
		case token.PERIOD:
			p.next()
			x = &ast.SelectorExpr{X: x, Sel: p.parseIdent()}
		case token.LBRACK:
			lb := p.pos
			p.next()
			idx := p.parseExpr()
			rb := p.expect(token.RBRACK)
			x = &ast.IndexExpr{X: x, Lbrack: lb, Index: idx, Rbrack: rb}
		case token.LPAREN:
			lp := p.pos
			p.next()
			var args []ast.Expr
			for p.tok != token.RPAREN && p.tok != token.EOF {
				args = append(args, p.parseExpr())
				if p.tok == token.COMMA {
					p.next()
				}
			}
			rp := p.expect(token.RPAREN)
			x = &ast.CallExpr{Fun: x, Lparen: lp, Args: args, Rparen: rp}
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.IDENT:
		return p.parseIdent()
	case token.INT, token.FLOAT:
		lit := &ast.BasicLit{ValuePos: p.pos, Kind: p.tok, Value: p.lit}
		p.next()
		return lit
	case token.TRUE, token.FALSE:
		lit := &ast.BasicLit{ValuePos: p.pos, Kind: p.tok, Value: p.tok.String()}
		p.next()
		return lit
	case token.NULL:
		lit := &ast.BasicLit{ValuePos: p.pos, Kind: token.NULL, Value: "null"}
		p.next()
		return lit
	case token.STRING, token.StringStart:
		return p.parseStringExpr()
	case token.LBRACK:
		return p.parseArrayLit()
	case token.LBRACE:
		return p.parseObjectLit()
	case token.LPAREN:
		lp := p.pos
		p.next()
		x := p.parseExpr()
		rp := p.expect(token.RPAREN)
		return &ast.ParenExpr{Lparen: lp, X: x, Rparen: rp}
	case token.WHEN:
		return p.parseWhenChain()
	case token.FOR:
		return p.parseFor(false)
	case token.ELLIPSIS:
		ep := p.pos
		p.next()
		return &ast.SpreadExpr{Ellipsis: ep, Value: p.parseExpr()}
	default:
		bad := &ast.BadExpr{From: p.pos}
		p.errorf(errors.ErrIllegalChar, p.pos, "unexpected token %s in expression", p.tok)
		p.next()
		bad.To = p.pos
		return bad
	}
}

func (p *Parser) parseStringExpr() ast.Expr {
	if p.tok == token.STRING {
		lit := p.lit
		pos := p.pos
		p.next()
		return &ast.Interpolation{
			Quote: token.STRING, StartPos: pos, EndPos: pos.Add(len(lit) + 2),
			Parts: []ast.StringPart{{Lit: lit}},
		}
	}
	start := p.pos
	p.next() // StringStart
	var parts []ast.StringPart
	for {
		switch p.tok {
		case token.StringLit:
			parts = append(parts, ast.StringPart{Lit: p.lit})
			p.next()
		case token.StringExprStart:
			p.next()
			e := p.parseExpr()
			p.expect(token.StringExprEnd)
			parts = append(parts, ast.StringPart{Expr: e})
		case token.StringEnd:
			end := p.pos
			p.next()
			return &ast.Interpolation{Quote: token.StringStart, StartPos: start, EndPos: end, Parts: parts}
		default:
			p.errorf(errors.ErrUnterminatedStr, p.pos, "unterminated interpolation")
			return &ast.Interpolation{Quote: token.StringStart, StartPos: start, EndPos: p.pos, Parts: parts}
		}
	}
}

func (p *Parser) parseArrayLit() *ast.ArrayLit {
	lb := p.pos
	p.next()
	a := &ast.ArrayLit{Lbrack: lb}
	for p.tok != token.RBRACK && p.tok != token.EOF {
		a.Elts = append(a.Elts, p.parseExpr())
		if p.tok == token.COMMA {
			p.next()
		}
	}
	a.Rbrack = p.expect(token.RBRACK)
	return a
}

func (p *Parser) parseObjectLit() *ast.ObjectLit {
	lb := p.pos
	p.next()
	o := &ast.ObjectLit{Lbrace: lb}
	o.Entries = p.parseEntries(token.RBRACE)
	o.Rbrace = p.expect(token.RBRACE)
	return o
}
