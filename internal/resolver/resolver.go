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

// Package resolver builds and resolves the import/from graph across
// Hone source files: parsing each file once, detecting import cycles
// (E0102), and reporting missing files (E0101).
package resolver

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/honelang/hone/internal/ast"
	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/parser"
	"github.com/honelang/hone/internal/token"
)

// Module is a parsed file plus its resolved absolute path and the other
// modules it references. From and each ImportBinding's Module are nil
// when the corresponding target failed to resolve (the error is already
// recorded in the Load call's errors.List).
type Module struct {
	Path    string
	File    *ast.File
	From    *Module
	Imports []ImportBinding
}

// ImportBinding pairs one `import` declaration with its resolved target
// module, so a caller can bind Decl.Alias or Decl.Names against Module's
// evaluated exports.
type ImportBinding struct {
	Decl   *ast.ImportDecl
	Module *Module
}

// Resolver parses and caches files by absolute path, and detects import
// cycles via a depth-first on-stack-set traversal.
type Resolver struct {
	cache   *lru.Cache[string, *Module]
	onStack map[string]bool
	order   []string // on-stack path stack, for cycle error messages
}

// New creates a Resolver with a hot parse cache holding up to size
// entries (0 disables the cache, always reparsing).
func New(size int) *Resolver {
	var c *lru.Cache[string, *Module]
	if size > 0 {
		c, _ = lru.New[string, *Module](size)
	}
	return &Resolver{cache: c, onStack: make(map[string]bool)}
}

// Load parses path (and, transitively, everything it imports or
// overlays via `from`), returning the root Module. Errors accumulate as
// an errors.List so that a single Load call surfaces every problem in
// the import graph it reaches, not just the first.
func (r *Resolver) Load(path string) (*Module, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Newf(errors.ErrFileNotFound, token.NoPos, "%s", err.Error())
	}
	var errs errors.List
	m := r.load(abs, &errs)
	return m, errs.Err()
}

func (r *Resolver) load(abs string, errs *errors.List) *Module {
	if r.cache != nil {
		if m, ok := r.cache.Get(abs); ok {
			return m
		}
	}
	if r.onStack[abs] {
		cycle := append(append([]string(nil), r.order...), abs)
		errs.AddNewf(errors.ErrImportCycle, token.NoPos, "import cycle: %s", formatCycle(cycle))
		return nil
	}

	src, err := os.ReadFile(abs)
	if err != nil {
		errs.AddNewf(errors.ErrFileNotFound, token.NoPos, "cannot read %q: %s", abs, err.Error())
		return nil
	}

	r.onStack[abs] = true
	r.order = append(r.order, abs)
	defer func() {
		delete(r.onStack, abs)
		r.order = r.order[:len(r.order)-1]
	}()

	f, err := parser.ParseFile(abs, src)
	if err != nil {
		if list, ok := err.(errors.List); ok {
			*errs = append(*errs, list...)
		} else {
			errs.AddNewf(errors.ErrFileNotFound, token.NoPos, "%s", err.Error())
		}
	}
	if f == nil {
		return nil
	}

	dir := filepath.Dir(abs)
	m := &Module{Path: abs, File: f}
	for _, imp := range f.Preamble.Imports {
		target := resolveImportPath(dir, imp.Path)
		m.Imports = append(m.Imports, ImportBinding{Decl: imp, Module: r.load(target, errs)})
	}
	if f.Preamble.From != nil {
		target := resolveImportPath(dir, f.Preamble.From.Path)
		m.From = r.load(target, errs)
	}

	if r.cache != nil {
		r.cache.Add(abs, m)
	}
	return m
}

func resolveImportPath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func formatCycle(paths []string) string {
	s := ""
	for i, p := range paths {
		if i > 0 {
			s += " -> "
		}
		s += filepath.Base(p)
	}
	return s
}

