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

// Package pipeline wires the compiler stages together: resolve, evaluate,
// type-check, apply policy, emit. It is the one place that knows the
// stage order and how errors from each stage are combined, so cmd/hone
// and any embedder drive the compiler through a single entry point.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/honelang/hone/internal/ast"
	"github.com/honelang/hone/internal/cache"
	"github.com/honelang/hone/internal/emit"
	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/eval"
	"github.com/honelang/hone/internal/policy"
	"github.com/honelang/hone/internal/resolver"
	"github.com/honelang/hone/internal/token"
	"github.com/honelang/hone/internal/types"
	"github.com/honelang/hone/internal/value"
)

// Options controls a single compile.
type Options struct {
	Format        string // "json", "yaml", "toml", "dotenv"
	Args          map[string]value.Value
	VariantChoice map[string]string
	Env           eval.EnvOptions
	Cache         *cache.Cache // nil disables caching
	IgnorePolicy  bool         // skip policy checking entirely
	Strict        bool         // escalate warn policies to fatal errors
}

// Result is everything a compile produces, keyed by document name ("" for
// a single-document file).
type Result struct {
	Outputs  map[string][]byte
	Warnings []policy.Violation
}

// Compile resolves, evaluates, type-checks, applies policy, and emits the
// file at path. Caching, when opts.Cache is set, only covers the single
// ("") document case: a multi-document file's secondary documents are
// always recompiled, since caching their cross-document interaction is an
// open question (see DESIGN.md).
func Compile(path string, opts Options) (*Result, error) {
	res := resolver.New(256)
	mod, err := res.Load(path)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	if mod == nil {
		return nil, fmt.Errorf("resolve: %s produced no module", path)
	}

	var cacheKey string
	singleDoc := false
	if opts.Cache != nil {
		cacheKey = cacheKeyFor(path, opts)
		if raw, ok := opts.Cache.Get(cacheKey); ok {
			return &Result{Outputs: map[string][]byte{"": raw}}, nil
		}
	}

	top, err := evalModule(mod, opts)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	ev := top.evaluator
	evalResult := top.result

	reg := types.NewRegistry(evalResult.Schemas)
	var schema *ast.SchemaDecl
	var schemaName string
	if len(evalResult.Uses) > 0 {
		schemaName = evalResult.Uses[0].Schema.Name
		schema = evalResult.Schemas[schemaName]
		if schema == nil {
			return nil, fmt.Errorf("type check: %q names an undeclared schema", schemaName)
		}
	}

	var warnings []policy.Violation
	outputs := make(map[string][]byte, len(evalResult.Docs))

	docNames := make([]string, 0, len(evalResult.Docs))
	for name := range evalResult.Docs {
		docNames = append(docNames, name)
	}
	sort.Strings(docNames)
	singleDoc = len(docNames) == 1

	for _, name := range docNames {
		doc := evalResult.Docs[name]

		if schema != nil {
			evalDefault := func(x ast.Expr) (value.Value, error) {
				return ev.EvalWithOutput(x, doc)
			}
			if err := types.ApplyDefaults(reg, schema, doc, evalDefault); err != nil {
				return nil, fmt.Errorf("apply defaults: %w", err)
			}
			if err := types.Check(reg, schemaName, doc, evalResult.UncheckedPaths); err != nil {
				return nil, fmt.Errorf("type check: %w", err)
			}
		}

		if !opts.IgnorePolicy {
			violations, err := policy.Check(evalResult.Policies, doc, ev.EvalWithOutput)
			if err != nil {
				return nil, fmt.Errorf("policy: %w", err)
			}
			if opts.Strict {
				if err := policy.StrictError(violations); err != nil {
					return nil, err
				}
			} else {
				if err := policy.AsError(violations); err != nil {
					return nil, err
				}
				warnings = append(warnings, policy.Warnings(violations)...)
			}
		}

		if opts.Env.SecretsMode == "error" && value.ContainsSecret(doc) {
			return nil, errors.Newf(errors.ErrSecretLeak, token.NoPos, "document %q still contains a secret-tagged value under --secrets-mode error", orDefaultDocName(name))
		}

		rendered, err := renderDoc(doc, opts.Format)
		if err != nil {
			return nil, fmt.Errorf("emit %s: %w", name, err)
		}
		outputs[name] = rendered
	}

	if opts.Cache != nil && singleDoc {
		if raw, ok := outputs[""]; ok {
			_ = opts.Cache.Put(cacheKey, raw)
		}
	}
	return &Result{Outputs: outputs, Warnings: warnings}, nil
}

// moduleEval is one module's evaluation result: its documents/preamble
// metadata plus the Evaluator that produced them (needed afterward to
// evaluate schema defaults and policy conditions in the same scope) and
// its exports (for a file that `import`s it).
type moduleEval struct {
	evaluator *eval.Evaluator
	result    *eval.Result
	exports   value.Value
}

// evalModule evaluates mod's imports (so their exports are in scope),
// then mod itself, then deep-merges its `from` base underneath per
// spec.md §4.4's overlay rule. Evaluation proceeds in topological
// (post-order) order: a module's imports and its `from` base are fully
// evaluated before the module's own body runs.
func evalModule(mod *resolver.Module, opts Options) (*moduleEval, error) {
	ev := eval.New(opts.Env, opts.Args, opts.VariantChoice)
	for _, imp := range mod.Imports {
		if imp.Decl == nil || imp.Module == nil {
			continue
		}
		sub, err := evalModule(imp.Module, opts)
		if err != nil {
			return nil, fmt.Errorf("import %q: %w", imp.Decl.Path, err)
		}
		if imp.Decl.Alias != nil {
			ev.DefineImport(imp.Decl.Alias.Name, sub.exports)
		}
		for _, n := range imp.Decl.Names {
			v, ok := sub.exports.Object().Get(n.Name)
			if !ok {
				return nil, fmt.Errorf("import %q: no exported name %q", imp.Decl.Path, n.Name)
			}
			ev.DefineImport(n.Name, v)
		}
	}

	var base *moduleEval
	if mod.From != nil {
		b, err := evalModule(mod.From, opts)
		if err != nil {
			return nil, fmt.Errorf("from %q: %w", mod.File.Preamble.From.Path, err)
		}
		base = b
	}

	result, err := ev.EvalFile(mod.File, opts.Args)
	if err != nil {
		return nil, err
	}

	if base != nil {
		result.Docs = mergeDocSets(base.result.Docs, result.Docs)
		result.Policies = append(append([]*ast.PolicyDecl(nil), base.result.Policies...), result.Policies...)
		for name, schema := range base.result.Schemas {
			if _, ok := result.Schemas[name]; !ok {
				result.Schemas[name] = schema
			}
		}
		if len(result.Uses) == 0 {
			result.Uses = base.result.Uses
		}
		for path, v := range base.result.UncheckedPaths {
			if result.UncheckedPaths == nil {
				result.UncheckedPaths = map[string]bool{}
			}
			if !result.UncheckedPaths[path] {
				result.UncheckedPaths[path] = v
			}
		}
	}

	return &moduleEval{evaluator: ev, result: result, exports: ev.Exports()}, nil
}

// mergeDocSets deep-merges overlay's documents onto base's. When overlay
// has exactly one document — the common case, since `from` is forbidden
// in multi-document files — that document is merged onto every document
// base defines; otherwise documents are paired by name, and a name only
// base or only overlay defines passes through unchanged.
func mergeDocSets(base, overlay map[string]value.Value) map[string]value.Value {
	if len(base) == 0 {
		return overlay
	}
	merged := make(map[string]value.Value, len(base))
	for k, v := range base {
		merged[k] = v
	}
	if len(overlay) == 1 {
		for _, ov := range overlay {
			for k, bv := range merged {
				merged[k] = eval.Merge(bv, ov)
			}
		}
		return merged
	}
	for name, ov := range overlay {
		if bv, ok := merged[name]; ok {
			merged[name] = eval.Merge(bv, ov)
		} else {
			merged[name] = ov
		}
	}
	return merged
}

func orDefaultDocName(name string) string {
	if name == "" {
		return "(default)"
	}
	return name
}

func renderDoc(doc value.Value, format string) ([]byte, error) {
	switch format {
	case "", "json":
		return emit.JSON(doc)
	case "yaml":
		return emit.YAML(doc)
	case "toml":
		return emit.TOML(doc)
	case "dotenv":
		return emit.Dotenv(doc)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// cacheKeyFor hashes everything that can change a compile's output: the
// resolved file's path and modification time (so an edit invalidates the
// entry without needing to re-read and hash the source text), the
// requested format, and every caller-supplied option that influences
// evaluation.
func cacheKeyFor(path string, opts Options) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	var mtime string
	if fi, err := os.Stat(abs); err == nil {
		mtime = strconv.FormatInt(fi.ModTime().UnixNano(), 10)
	}

	parts := [][]byte{
		[]byte(abs), []byte(mtime), []byte(opts.Format),
		[]byte("secrets=" + opts.Env.SecretsMode),
		[]byte("allowenv=" + strconv.FormatBool(opts.Env.Allowed)),
		[]byte("strict=" + strconv.FormatBool(opts.Strict)),
		[]byte("ignorepolicy=" + strconv.FormatBool(opts.IgnorePolicy)),
	}
	names := make([]string, 0, len(opts.VariantChoice))
	for k := range opts.VariantChoice {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		parts = append(parts, []byte(k+"="+opts.VariantChoice[k]))
	}
	argNames := make([]string, 0, len(opts.Args))
	for k := range opts.Args {
		argNames = append(argNames, k)
	}
	sort.Strings(argNames)
	for _, k := range argNames {
		parts = append(parts, []byte(k+"="+opts.Args[k].String()))
	}
	return cache.Key(parts...)
}
