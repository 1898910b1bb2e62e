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

// Package eval implements Hone's tree-walking evaluator: expression
// evaluation, object assembly under the three assignment modes, scoping,
// string interpolation, when/for/variant control flow, and the fixed
// builtin function table.
package eval

import (
	"strconv"
	"strings"

	"github.com/honelang/hone/internal/ast"
	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/token"
	"github.com/honelang/hone/internal/value"
)

const maxDepth = 256

// Evaluator holds all state needed to evaluate one file's preamble and
// document bodies: bound lets, user function declarations, resolved
// `expect` arguments, secret provider resolutions, and variant
// selections.
type Evaluator struct {
	root     *scope
	fns      map[string]*ast.FnDecl
	fnScope  map[string]*scope
	builtins map[string]Builtin
	opts     EnvOptions

	variantChoice map[string]string // variant name -> chosen case name

	uncheckedPaths map[string]bool
	depth          int
	errs           errors.List
}

// Result is everything EvalFile produces: the assembled value per
// document (keyed by document name; "" for a single-document file) plus
// preamble metadata the later pipeline stages (types, policy) consult.
type Result struct {
	Docs           map[string]value.Value
	UncheckedPaths map[string]bool
	Schemas        map[string]*ast.SchemaDecl
	Uses           []*ast.UseDecl
	Policies       []*ast.PolicyDecl
}

// New creates an Evaluator. args supplies already-resolved values for the
// file's `expect args.NAME` declarations (e.g. from CLI --set flags);
// variantChoice supplies the selected case name for each `variant NAME`
// declaration the file defines.
func New(opts EnvOptions, args map[string]value.Value, variantChoice map[string]string) *Evaluator {
	e := &Evaluator{
		root:          newScope(nil),
		fns:           make(map[string]*ast.FnDecl),
		fnScope:       make(map[string]*scope),
		builtins:      builtinTable(opts),
		opts:          opts,
		variantChoice: variantChoice,
		uncheckedPaths: make(map[string]bool),
	}
	if args == nil {
		args = map[string]value.Value{}
	}
	argsObj := value.NewObject()
	for k, v := range args {
		argsObj.Set(k, v)
	}
	e.root.define("args", value.Obj(argsObj))
	return e
}

// EvalFile evaluates a parsed file's preamble and every document body.
func (e *Evaluator) EvalFile(f *ast.File, resolvedArgs map[string]value.Value) (*Result, error) {
	for _, l := range f.Preamble.Lets {
		v, err := e.evalExpr(l.Value, e.root)
		if err != nil {
			e.addErr(err)
			continue
		}
		e.root.define(l.Name.Name, v)
	}

	for _, fn := range f.Preamble.Fns {
		e.fns[fn.Name.Name] = fn
		e.fnScope[fn.Name.Name] = e.root
	}

	for _, s := range f.Preamble.Secrets {
		v, err := e.resolveSecret(s)
		if err != nil {
			e.addErr(err)
			continue
		}
		e.root.define(s.Name.Name, v)
	}

	argsObjV, _ := e.root.lookup("args")
	argsObj := argsObjV.Object()
	for _, ex := range f.Preamble.Expects {
		if resolvedArgs != nil {
			if v, ok := resolvedArgs[ex.Name.Name]; ok {
				argsObj.Set(ex.Name.Name, v)
				continue
			}
		}
		if argsObj.Has(ex.Name.Name) {
			continue
		}
		if ex.Default != nil {
			v, err := e.evalExpr(ex.Default, e.root)
			if err != nil {
				e.addErr(err)
				continue
			}
			argsObj.Set(ex.Name.Name, v)
			continue
		}
		e.errs.AddNewf(errors.ErrMissingRequired, ex.Pos(), "missing required argument %q", ex.Name.Name)
	}

	for _, a := range f.Preamble.Asserts {
		e.checkAssert(a.Cond, a.Msg, e.root)
	}

	var variantEntries []*ast.Entry
	var variantLets []*ast.LetDecl
	for _, vd := range f.Preamble.Variants {
		vc := e.selectVariantCase(vd)
		if vc == nil {
			continue
		}
		variantLets = append(variantLets, vc.Lets...)
		variantEntries = append(variantEntries, vc.Entries...)
	}

	docs := make(map[string]value.Value, len(f.Docs))
	for _, doc := range f.Docs {
		sc := e.root.child()
		for _, l := range variantLets {
			v, err := e.evalExpr(l.Value, sc)
			if err != nil {
				e.addErr(err)
				continue
			}
			sc.define(l.Name.Name, v)
		}
		obj := value.NewObject()
		if len(variantEntries) > 0 {
			e.assembleInto(obj, nil, variantEntries, sc)
		}
		e.assembleInto(obj, nil, doc.Entries, sc)
		docs[doc.Name] = value.Obj(obj)
	}

	schemas := make(map[string]*ast.SchemaDecl, len(f.Preamble.Schemas))
	for _, s := range f.Preamble.Schemas {
		schemas[s.Name.Name] = s
	}

	return &Result{
		Docs:           docs,
		UncheckedPaths: e.uncheckedPaths,
		Schemas:        schemas,
		Uses:           f.Preamble.Uses,
		Policies:       f.Preamble.Policies,
	}, e.errs.Err()
}

// DefineImport binds name to v in the root scope. The pipeline calls
// this for each `import PATH as NAME` / `import { N1, N2 } from PATH`
// binding before EvalFile runs, so the bound names are visible to the
// file's own `let`s, `fn`s, and document bodies.
func (e *Evaluator) DefineImport(name string, v value.Value) {
	e.root.define(name, v)
}

// Exports returns this evaluator's top-level `let` bindings and `fn`
// declarations as an Object, for another file's `import PATH as NAME` to
// bind as a namespace, or `import { N1, N2 } from PATH` to bind
// individually. Call EvalFile first; Exports reflects whatever is bound
// in the root scope at the time it's called.
func (e *Evaluator) Exports() value.Value {
	obj := value.NewObject()
	for k, v := range e.root.vars {
		if k == "args" {
			continue
		}
		obj.Set(k, v)
	}
	for name, fn := range e.fns {
		fn := fn
		params := make([]string, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Name
		}
		obj.Set(name, value.Fn(&value.Function{
			Name:   name,
			Params: params,
			Call: func(args []value.Value) (value.Value, error) {
				return e.callUserFn(fn, args, fn.Pos())
			},
		}))
	}
	return value.Obj(obj)
}

// EvalWithOutput evaluates expr against the file's root scope extended
// with `output` bound to the given document value; it is the bridge
// internal/policy uses to evaluate `policy` conditions without an import
// cycle between eval and policy.
func (e *Evaluator) EvalWithOutput(expr ast.Expr, output value.Value) (value.Value, error) {
	sc := e.root.child()
	sc.define("output", output)
	return e.evalExpr(expr, sc)
}

func (e *Evaluator) addErr(err error) {
	if list, ok := err.(errors.List); ok {
		e.errs = append(e.errs, list...)
		return
	}
	if ce, ok := err.(errors.Error); ok {
		e.errs.Add(ce)
		return
	}
	e.errs.AddNewf(errors.ErrArith, token.NoPos, "%s", err.Error())
}

func (e *Evaluator) checkAssert(cond, msg ast.Expr, sc *scope) {
	v, err := e.evalExpr(cond, sc)
	if err != nil {
		e.addErr(err)
		return
	}
	if v.Kind() == value.KindBool && v.Bool() {
		return
	}
	text := "assertion failed"
	if msg != nil {
		mv, err := e.evalExpr(msg, sc)
		if err == nil && mv.Kind() == value.KindString {
			text = mv.Str()
		}
	}
	e.errs.AddNewf(errors.ErrAssertionFailed, cond.Pos(), "%s", text)
}

func (e *Evaluator) selectVariantCase(vd *ast.VariantDecl) *ast.VariantCase {
	chosen := e.variantChoice[vd.Name.Name]
	var fallback *ast.VariantCase
	for _, vc := range vd.Cases {
		if vc.Name.Name == chosen {
			return vc
		}
		if vc.IsDefault {
			fallback = vc
		}
	}
	if fallback != nil {
		return fallback
	}
	if chosen != "" {
		e.errs.AddNewf(errors.ErrUndefinedIdent, vd.Pos(), "variant %q has no case %q", vd.Name.Name, chosen)
	}
	return nil
}

// resolveSecret evaluates a `secret NAME from "P"` binding. By default
// (and under `--secrets-mode placeholder`/`error`) NAME binds to the
// sentinel string `<SECRET:P>` plus a hidden secret tag, never the real
// value; only `--secrets-mode env` with `--allow-env` set resolves an
// `env:`-prefixed provider to its real environment value (still tagged
// secret). Other provider schemes (`file:`, `vault:`, `ssm:`, `gsm:`,
// ...) are opaque and always bind the sentinel.
func (e *Evaluator) resolveSecret(s *ast.SecretDecl) (value.Value, error) {
	mode := e.opts.SecretsMode
	if mode == "" {
		mode = "placeholder"
	}
	if mode == "env" && e.opts.Allowed && strings.HasPrefix(s.Provider, "env:") {
		name := strings.TrimPrefix(s.Provider, "env:")
		v, err := e.builtins["env"]([]value.Value{value.String(name)})
		if err != nil {
			return value.Value{}, err
		}
		return v.WithSecret(), nil
	}
	return value.String("<SECRET:" + s.Provider + ">").WithSecret(), nil
}

// ---------------------------------------------------------------------
// Object assembly

// assembleInto evaluates entries against sc and merges the result into
// obj in place, tracking `@unchecked` paths under the dotted prefix
// path.
func (e *Evaluator) assembleInto(obj *value.Object, path []string, entries []*ast.Entry, sc *scope) {
	for _, entry := range entries {
		switch {
		case entry.When != nil:
			wc := e.matchWhenCase(entry.When, sc)
			if wc != nil {
				e.assembleInto(obj, path, wc.Entries, sc)
			}
		case entry.For != nil:
			e.assembleFor(obj, path, entry.For, sc)
		case entry.Assert != nil:
			e.checkAssert(entry.Assert.Cond, entry.Assert.Msg, sc)
		default:
			e.assembleKeyEntry(obj, path, entry, sc)
		}
	}
}

func (e *Evaluator) matchWhenCase(w *ast.WhenExpr, sc *scope) *ast.WhenCase {
	for _, wc := range w.Cases {
		if wc.Cond == nil {
			return wc
		}
		v, err := e.evalExpr(wc.Cond, sc)
		if err != nil {
			e.addErr(err)
			continue
		}
		if v.Kind() == value.KindBool && v.Bool() {
			return wc
		}
	}
	return nil
}

func (e *Evaluator) assembleFor(obj *value.Object, path []string, f *ast.ForExpr, sc *scope) {
	iter, err := e.evalExpr(f.Iterable, sc)
	if err != nil {
		e.addErr(err)
		return
	}
	iterate := func(bindKey, bindVal value.Value) {
		child := sc.child()
		if f.Bind.Key != nil {
			child.define(f.Bind.Key.Name, bindKey)
		}
		child.define(f.Bind.Value.Name, bindVal)
		if f.Entries != nil {
			e.assembleInto(obj, path, f.Entries, child)
		}
	}
	switch iter.Kind() {
	case value.KindArray:
		for i, elem := range iter.Elems() {
			iterate(value.Int(int64(i)), elem)
		}
	case value.KindObject:
		for _, k := range iter.Object().Keys() {
			v, _ := iter.Object().Get(k)
			iterate(value.String(k), v)
		}
	default:
		e.errs.AddNewf(errors.ErrTypeMismatch, f.Iterable.Pos(), "for comprehension requires an array or object, got %s", iter.Kind())
	}
}

func (e *Evaluator) assembleKeyEntry(obj *value.Object, path []string, entry *ast.Entry, sc *scope) {
	key, err := e.evalKey(entry.Key, entry.KeyIsIdent, sc)
	if err != nil {
		e.addErr(err)
		return
	}
	val, err := e.evalExpr(entry.Value, sc)
	if err != nil {
		e.addErr(err)
		return
	}
	if entry.Unchecked {
		e.uncheckedPaths[strings.Join(append(append([]string(nil), path...), key), ".")] = true
	}
	existing, has := obj.Get(key)
	switch entry.Mode {
	case ast.AssignAppend:
		appended, err := Append(existing, has, entry.Value.Pos(), val)
		if err != nil {
			e.addErr(err)
			return
		}
		obj.Set(key, appended)
	case ast.AssignForce:
		obj.Set(key, val)
	default:
		if has {
			obj.Set(key, Merge(existing, val))
		} else {
			obj.Set(key, val)
		}
	}
}

func (e *Evaluator) evalKey(key ast.Expr, isIdent bool, sc *scope) (string, error) {
	if isIdent {
		return key.(*ast.Ident).Name, nil
	}
	v, err := e.evalExpr(key, sc)
	if err != nil {
		return "", err
	}
	if v.Kind() != value.KindString {
		return "", errors.Newf(errors.ErrTypeMismatch, key.Pos(), "entry key must evaluate to a string")
	}
	return v.Str(), nil
}

// ---------------------------------------------------------------------
// Expressions

func (e *Evaluator) evalExpr(x ast.Expr, sc *scope) (value.Value, error) {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > maxDepth {
		return value.Value{}, errors.Newf(errors.ErrNestingDepth, x.Pos(), "expression nesting exceeds the maximum depth")
	}

	switch n := x.(type) {
	case *ast.BadExpr:
		return value.Null, nil
	case *ast.Ident:
		v, ok := sc.lookup(n.Name)
		if !ok {
			return value.Value{}, errors.Newf(errors.ErrUndefinedIdent, n.Pos(), "undefined identifier %q", n.Name)
		}
		return v, nil
	case *ast.BasicLit:
		return e.evalBasicLit(n)
	case *ast.Interpolation:
		return e.evalInterpolation(n, sc)
	case *ast.ArrayLit:
		return e.evalArrayLit(n, sc)
	case *ast.ObjectLit:
		obj := value.NewObject()
		e.assembleInto(obj, nil, n.Entries, sc.child())
		return value.Obj(obj), nil
	case *ast.ParenExpr:
		return e.evalExpr(n.X, sc)
	case *ast.SelectorExpr:
		return e.evalSelector(n, sc)
	case *ast.IndexExpr:
		return e.evalIndex(n, sc)
	case *ast.CallExpr:
		return e.evalCall(n, sc)
	case *ast.UnaryExpr:
		return e.evalUnary(n, sc)
	case *ast.BinaryExpr:
		return e.evalBinary(n, sc)
	case *ast.TernaryExpr:
		cond, err := e.evalExpr(n.Cnd, sc)
		if err != nil {
			return value.Value{}, err
		}
		if cond.Kind() != value.KindBool {
			return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Cnd.Pos(), "ternary condition must be bool")
		}
		if cond.Bool() {
			return e.evalExpr(n.Then, sc)
		}
		return e.evalExpr(n.Els, sc)
	case *ast.WhenExpr:
		wc := e.matchWhenCase(n, sc)
		obj := value.NewObject()
		if wc != nil {
			e.assembleInto(obj, nil, wc.Entries, sc.child())
		}
		return value.Obj(obj), nil
	case *ast.ForExpr:
		return e.evalForExpr(n, sc)
	case *ast.SpreadExpr:
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "spread may only appear inside an array or object literal")
	}
	return value.Value{}, errors.Newf(errors.ErrTypeMismatch, x.Pos(), "unsupported expression")
}

func (e *Evaluator) evalBasicLit(n *ast.BasicLit) (value.Value, error) {
	switch n.Kind {
	case token.INT:
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return value.Value{}, errors.Newf(errors.ErrArith, n.Pos(), "invalid integer literal %q", n.Value)
		}
		return value.Int(i), nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return value.Value{}, errors.Newf(errors.ErrArith, n.Pos(), "invalid float literal %q", n.Value)
		}
		return value.Float(f), nil
	case token.TRUE:
		return value.Bool(true), nil
	case token.FALSE:
		return value.Bool(false), nil
	case token.NULL:
		return value.Null, nil
	}
	return value.Value{}, errors.Newf(errors.ErrArith, n.Pos(), "unrecognized literal")
}

func (e *Evaluator) evalInterpolation(n *ast.Interpolation, sc *scope) (value.Value, error) {
	var b strings.Builder
	secret := false
	for _, part := range n.Parts {
		if part.Expr == nil {
			b.WriteString(part.Lit)
			continue
		}
		v, err := e.evalExpr(part.Expr, sc)
		if err != nil {
			return value.Value{}, err
		}
		if v.Secret() {
			secret = true
		}
		s, err := renderInterpPart(part.Expr.Pos(), v)
		if err != nil {
			return value.Value{}, err
		}
		b.WriteString(s)
	}
	out := value.String(b.String())
	if secret {
		out = out.WithSecret()
	}
	return out, nil
}

func (e *Evaluator) evalArrayLit(n *ast.ArrayLit, sc *scope) (value.Value, error) {
	var out []value.Value
	for _, elt := range n.Elts {
		if sp, ok := elt.(*ast.SpreadExpr); ok {
			v, err := e.evalExpr(sp.Value, sc)
			if err != nil {
				return value.Value{}, err
			}
			if v.Kind() != value.KindArray {
				return value.Value{}, errors.Newf(errors.ErrTypeMismatch, sp.Pos(), "spread target must be an array")
			}
			out = append(out, v.Elems()...)
			continue
		}
		v, err := e.evalExpr(elt, sc)
		if err != nil {
			return value.Value{}, err
		}
		out = append(out, v)
	}
	return value.Array(out), nil
}

func (e *Evaluator) evalSelector(n *ast.SelectorExpr, sc *scope) (value.Value, error) {
	x, err := e.evalExpr(n.X, sc)
	if err != nil {
		return value.Value{}, err
	}
	if x.Kind() != value.KindObject {
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "cannot select field %q on a %s value", n.Sel.Name, x.Kind())
	}
	v, ok := x.Object().Get(n.Sel.Name)
	if !ok {
		return value.Value{}, errors.Newf(errors.ErrUndefinedIdent, n.Sel.Pos(), "undefined field %q", n.Sel.Name)
	}
	return v, nil
}

func (e *Evaluator) evalIndex(n *ast.IndexExpr, sc *scope) (value.Value, error) {
	x, err := e.evalExpr(n.X, sc)
	if err != nil {
		return value.Value{}, err
	}
	idx, err := e.evalExpr(n.Index, sc)
	if err != nil {
		return value.Value{}, err
	}
	switch x.Kind() {
	case value.KindArray:
		if idx.Kind() != value.KindInt {
			return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Index.Pos(), "array index must be an int")
		}
		i := idx.Int()
		if i < 0 || i >= int64(len(x.Elems())) {
			return value.Value{}, errors.Newf(errors.ErrOutOfRange, n.Index.Pos(), "array index %d out of range", i)
		}
		return x.Elems()[i], nil
	case value.KindObject:
		if idx.Kind() != value.KindString {
			return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Index.Pos(), "object index must be a string")
		}
		v, ok := x.Object().Get(idx.Str())
		if !ok {
			return value.Value{}, errors.Newf(errors.ErrUndefinedIdent, n.Index.Pos(), "undefined field %q", idx.Str())
		}
		return v, nil
	}
	return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "cannot index a %s value", x.Kind())
}

func (e *Evaluator) evalCall(n *ast.CallExpr, sc *scope) (value.Value, error) {
	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := e.evalExpr(a, sc)
		if err != nil {
			return value.Value{}, err
		}
		args = append(args, v)
	}
	if ident, ok := n.Fun.(*ast.Ident); ok {
		if fn, ok := e.fns[ident.Name]; ok {
			return e.callUserFn(fn, args, n.Pos())
		}
		if b, ok := e.builtins[ident.Name]; ok {
			v, err := b(args)
			if err != nil {
				return value.Value{}, errors.Newf(errors.ErrArith, n.Pos(), "%s", err.Error())
			}
			if v.Kind() == value.KindString && !v.Secret() {
				for _, a := range args {
					if value.ContainsSecret(a) {
						v = v.WithSecret()
						break
					}
				}
			}
			return v, nil
		}
		if v, ok := sc.lookup(ident.Name); ok && v.Kind() == value.KindFunction {
			return e.callFunctionValue(v, args, n.Pos())
		}
		return value.Value{}, errors.Newf(errors.ErrUndefinedIdent, n.Pos(), "undefined function %q", ident.Name)
	}
	// Anything else (a selector into an imported namespace, an index, a
	// parenthesized expression) must evaluate to a function value, e.g.
	// `lib.helper(x)` where `lib` is an `import PATH as NAME` namespace.
	fv, err := e.evalExpr(n.Fun, sc)
	if err != nil {
		return value.Value{}, err
	}
	if fv.Kind() != value.KindFunction {
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "call target must be a function")
	}
	return e.callFunctionValue(fv, args, n.Pos())
}

func (e *Evaluator) callFunctionValue(fv value.Value, args []value.Value, callPos token.Pos) (value.Value, error) {
	v, err := fv.Function().Call(args)
	if err != nil {
		return value.Value{}, errors.Newf(errors.ErrArith, callPos, "%s", err.Error())
	}
	return v, nil
}

func (e *Evaluator) callUserFn(fn *ast.FnDecl, args []value.Value, callPos token.Pos) (value.Value, error) {
	if len(args) != len(fn.Params) {
		return value.Value{}, errors.Newf(errors.ErrArith, callPos, "function %q expects %d argument(s), got %d", fn.Name.Name, len(fn.Params), len(args))
	}
	base := e.fnScope[fn.Name.Name]
	if base == nil {
		base = e.root
	}
	child := base.child()
	for i, p := range fn.Params {
		child.define(p.Name, args[i])
	}
	return e.evalExpr(fn.Body, child)
}

func (e *Evaluator) evalForExpr(n *ast.ForExpr, sc *scope) (value.Value, error) {
	iter, err := e.evalExpr(n.Iterable, sc)
	if err != nil {
		return value.Value{}, err
	}
	var out []value.Value
	bind := func(bk, bv value.Value) error {
		child := sc.child()
		if n.Bind.Key != nil {
			child.define(n.Bind.Key.Name, bk)
		}
		child.define(n.Bind.Value.Name, bv)
		if n.Entries != nil {
			obj := value.NewObject()
			e.assembleInto(obj, nil, n.Entries, child)
			out = append(out, value.Obj(obj))
			return nil
		}
		v, err := e.evalExpr(n.Body, child)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	}
	switch iter.Kind() {
	case value.KindArray:
		for i, elem := range iter.Elems() {
			if err := bind(value.Int(int64(i)), elem); err != nil {
				return value.Value{}, err
			}
		}
	case value.KindObject:
		for _, k := range iter.Object().Keys() {
			v, _ := iter.Object().Get(k)
			if err := bind(value.String(k), v); err != nil {
				return value.Value{}, err
			}
		}
	default:
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Iterable.Pos(), "for comprehension requires an array or object, got %s", iter.Kind())
	}
	return value.Array(out), nil
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr, sc *scope) (value.Value, error) {
	v, err := e.evalExpr(n.X, sc)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case token.SUB:
		switch v.Kind() {
		case value.KindInt:
			return value.Int(-v.Int()), nil
		case value.KindFloat:
			return value.Float(-v.Float()), nil
		}
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "unary - requires a numeric operand")
	case token.NOT:
		if v.Kind() != value.KindBool {
			return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "unary ! requires a bool operand")
		}
		return value.Bool(!v.Bool()), nil
	}
	return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "unsupported unary operator")
}

func (e *Evaluator) evalBinary(n *ast.BinaryExpr, sc *scope) (value.Value, error) {
	if n.Op == token.LAND || n.Op == token.LOR {
		return e.evalShortCircuit(n, sc)
	}
	if n.Op == token.COALESCE {
		left, err := e.evalExpr(n.X, sc)
		if err != nil {
			return value.Value{}, err
		}
		if !left.IsNull() {
			return left, nil
		}
		return e.evalExpr(n.Y, sc)
	}

	x, err := e.evalExpr(n.X, sc)
	if err != nil {
		return value.Value{}, err
	}
	y, err := e.evalExpr(n.Y, sc)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case token.EQL:
		return value.Bool(value.Equal(x, y)), nil
	case token.NEQ:
		return value.Bool(!value.Equal(x, y)), nil
	case token.LSS:
		return compareOp(x, y, n.Pos(), func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b })
	case token.LEQ:
		return compareOp(x, y, n.Pos(), func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b })
	case token.GTR:
		return compareOp(x, y, n.Pos(), func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b })
	case token.GEQ:
		return compareOp(x, y, n.Pos(), func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b })
	}

	return e.evalArith(n, x, y)
}

func (e *Evaluator) evalShortCircuit(n *ast.BinaryExpr, sc *scope) (value.Value, error) {
	x, err := e.evalExpr(n.X, sc)
	if err != nil {
		return value.Value{}, err
	}
	if x.Kind() != value.KindBool {
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.X.Pos(), "operand must be bool")
	}
	if n.Op == token.LAND && !x.Bool() {
		return value.Bool(false), nil
	}
	if n.Op == token.LOR && x.Bool() {
		return value.Bool(true), nil
	}
	y, err := e.evalExpr(n.Y, sc)
	if err != nil {
		return value.Value{}, err
	}
	if y.Kind() != value.KindBool {
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Y.Pos(), "operand must be bool")
	}
	return y, nil
}

func compareOp(x, y value.Value, pos token.Pos, numCmp func(a, b float64) bool, strCmp func(a, b string) bool) (value.Value, error) {
	switch {
	case isNumeric(x) && isNumeric(y):
		return value.Bool(numCmp(x.AsFloat(), y.AsFloat())), nil
	case x.Kind() == value.KindString && y.Kind() == value.KindString:
		return value.Bool(strCmp(x.Str(), y.Str())), nil
	}
	return value.Value{}, errors.Newf(errors.ErrTypeMismatch, pos, "comparison requires two numbers or two strings")
}

func isNumeric(v value.Value) bool { return v.Kind() == value.KindInt || v.Kind() == value.KindFloat }

func (e *Evaluator) evalArith(n *ast.BinaryExpr, x, y value.Value) (value.Value, error) {
	if n.Op == token.ADD {
		switch {
		case x.Kind() == value.KindString && y.Kind() == value.KindString:
			out := value.String(x.Str() + y.Str())
			if x.Secret() || y.Secret() {
				out = out.WithSecret()
			}
			return out, nil
		case x.Kind() == value.KindArray && y.Kind() == value.KindArray:
			return value.Array(append(append([]value.Value(nil), x.Elems()...), y.Elems()...)), nil
		}
	}
	if !isNumeric(x) || !isNumeric(y) {
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "arithmetic operator %s requires numeric operands", n.Op)
	}
	if x.Kind() == value.KindInt && y.Kind() == value.KindInt {
		a, b := x.Int(), y.Int()
		switch n.Op {
		case token.ADD:
			return value.Int(a + b), nil
		case token.SUB:
			return value.Int(a - b), nil
		case token.MUL:
			return value.Int(a * b), nil
		case token.QUO:
			if b == 0 {
				return value.Value{}, errors.Newf(errors.ErrArith, n.Pos(), "division by zero")
			}
			if a%b == 0 {
				return value.Int(a / b), nil
			}
			return value.Float(float64(a) / float64(b)), nil
		case token.REM:
			if b == 0 {
				return value.Value{}, errors.Newf(errors.ErrArith, n.Pos(), "division by zero")
			}
			return value.Int(a % b), nil
		}
	}
	a, b := x.AsFloat(), y.AsFloat()
	switch n.Op {
	case token.ADD:
		return value.Float(a + b), nil
	case token.SUB:
		return value.Float(a - b), nil
	case token.MUL:
		return value.Float(a * b), nil
	case token.QUO:
		if b == 0 {
			return value.Value{}, errors.Newf(errors.ErrArith, n.Pos(), "division by zero")
		}
		return value.Float(a / b), nil
	case token.REM:
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "%% requires integer operands")
	}
	return value.Value{}, errors.Newf(errors.ErrTypeMismatch, n.Pos(), "unsupported arithmetic operator")
}
