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

// Package types implements schema validation: the hand-rolled recursive
// checker that is Hone's actual path of record (its error codes and
// @unchecked opt-out have no general-purpose JSON-Schema equivalent),
// plus a jsonschema-go projection used only for diagnostic/introspection
// surfaces (see internal/types/introspect.go).
package types

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/honelang/hone/internal/ast"
	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/token"
	"github.com/honelang/hone/internal/value"
)

// Registry resolves schema names, including `extends` parent chains.
type Registry struct {
	schemas map[string]*ast.SchemaDecl
}

func NewRegistry(schemas map[string]*ast.SchemaDecl) *Registry {
	return &Registry{schemas: schemas}
}

// Check validates doc against the schema named schemaName. unchecked is
// the set of dotted paths the evaluator collected from `@unchecked`
// annotations; fields under those paths skip validation entirely.
func Check(reg *Registry, schemaName string, doc value.Value, unchecked map[string]bool) error {
	schema, ok := reg.schemas[schemaName]
	if !ok {
		return errors.Newf(errors.ErrUnknownField, token.NoPos, "unknown schema %q", schemaName)
	}
	var errs errors.List
	checkObject(reg, schema, doc, nil, unchecked, &errs)
	return errs.Err()
}

// fields returns schema's own fields plus, recursively, every field
// inherited through `extends`. A field redeclared by a child schema
// overrides its parent's definition.
func (r *Registry) fields(schema *ast.SchemaDecl) ([]*ast.SchemaField, bool) {
	open := schema.Open
	var all []*ast.SchemaField
	seen := map[string]int{}
	if schema.Extends != nil {
		if parent, ok := r.schemas[schema.Extends.Name]; ok {
			pf, popen := r.fields(parent)
			all = append(all, pf...)
			open = open || popen
			for i, f := range all {
				seen[f.Name.Name] = i
			}
		}
	}
	for _, f := range schema.Fields {
		if i, ok := seen[f.Name.Name]; ok {
			all[i] = f
		} else {
			seen[f.Name.Name] = len(all)
			all = append(all, f)
		}
	}
	return all, open
}

func checkObject(reg *Registry, schema *ast.SchemaDecl, v value.Value, path []string, unchecked map[string]bool, errs *errors.List) {
	if dotted(path) != "" && unchecked[dotted(path)] {
		return
	}
	if v.Kind() != value.KindObject {
		errs.AddNewf(errors.ErrTypeMismatch, schema.Pos(), "%s: expected object, got %s", dotted(path), v.Kind())
		return
	}
	fields, open := reg.fields(schema)
	declared := map[string]*ast.SchemaField{}
	for _, f := range fields {
		declared[f.Name.Name] = f
	}

	for _, f := range fields {
		fpath := append(append([]string(nil), path...), f.Name.Name)
		if unchecked[dotted(fpath)] {
			continue
		}
		fv, has := v.Object().Get(f.Name.Name)
		if !has {
			if f.Default != nil || f.Optional {
				continue
			}
			errs.AddNewf(errors.ErrMissingRequired, f.Name.Pos(), "missing required field %q", dotted(fpath))
			continue
		}
		checkType(reg, &f.Type, fv, fpath, unchecked, errs)
	}

	if !open {
		for _, k := range v.Object().Keys() {
			if _, ok := declared[k]; !ok {
				fpath := append(append([]string(nil), path...), k)
				if unchecked[dotted(fpath)] {
					continue
				}
				errs.AddNewf(errors.ErrUnknownField, schema.Pos(), "unknown field %q", dotted(fpath))
			}
		}
	}
}

func dotted(path []string) string { return strings.Join(path, ".") }

func checkType(reg *Registry, t *ast.TypeExpr, v value.Value, path []string, unchecked map[string]bool, errs *errors.List) {
	if unchecked[dotted(path)] {
		return
	}
	switch t.Kind {
	case ast.KindNullable:
		if v.IsNull() {
			return
		}
		checkType(reg, t.Inner, v, path, unchecked, errs)
	case ast.KindInt:
		if v.Kind() != value.KindInt {
			errs.AddNewf(errors.ErrTypeMismatch, t.Pos(), "%s: expected int, got %s", dotted(path), v.Kind())
			return
		}
		checkRange(t, v.AsFloat(), path, errs)
	case ast.KindFloat:
		if v.Kind() != value.KindInt && v.Kind() != value.KindFloat {
			errs.AddNewf(errors.ErrTypeMismatch, t.Pos(), "%s: expected float, got %s", dotted(path), v.Kind())
			return
		}
		checkRange(t, v.AsFloat(), path, errs)
	case ast.KindString:
		if v.Kind() != value.KindString {
			errs.AddNewf(errors.ErrTypeMismatch, t.Pos(), "%s: expected string, got %s", dotted(path), v.Kind())
			return
		}
		checkStringConstraints(t, v.Str(), path, errs)
	case ast.KindBool:
		if v.Kind() != value.KindBool {
			errs.AddNewf(errors.ErrTypeMismatch, t.Pos(), "%s: expected bool, got %s", dotted(path), v.Kind())
		}
	case ast.KindArray:
		if v.Kind() != value.KindArray {
			errs.AddNewf(errors.ErrTypeMismatch, t.Pos(), "%s: expected array, got %s", dotted(path), v.Kind())
		}
	case ast.KindObject:
		if v.Kind() != value.KindObject {
			errs.AddNewf(errors.ErrTypeMismatch, t.Pos(), "%s: expected object, got %s", dotted(path), v.Kind())
		}
	case ast.KindSchemaRef:
		sub, ok := reg.schemas[t.Ref]
		if !ok {
			errs.AddNewf(errors.ErrUnknownField, t.Pos(), "unknown schema %q", t.Ref)
			return
		}
		checkObject(reg, sub, v, path, unchecked, errs)
	}
}

func checkRange(t *ast.TypeExpr, f float64, path []string, errs *errors.List) {
	if !t.HasRange {
		return
	}
	if f < t.Min || f > t.Max {
		errs.AddNewf(errors.ErrOutOfRange, t.Pos(), "%s: %v is outside the range [%v, %v]", dotted(path), f, t.Min, t.Max)
	}
}

func checkStringConstraints(t *ast.TypeExpr, s string, path []string, errs *errors.List) {
	if t.HasLength {
		n := len([]rune(s))
		if n < t.MinLen || n > t.MaxLen {
			errs.AddNewf(errors.ErrOutOfRange, t.Pos(), "%s: length %d is outside [%d, %d]", dotted(path), n, t.MinLen, t.MaxLen)
		}
	}
	if t.Regex != "" {
		// Anchored: string("...") validates the whole value, not merely a
		// substring of it, so the compiled pattern is wrapped in ^(?:...)$.
		re, err := regexp.Compile(`^(?:` + t.Regex + `)$`)
		if err != nil {
			errs.AddNewf(errors.ErrRegexMismatch, t.Pos(), "%s: invalid regex %q: %s", dotted(path), t.Regex, err.Error())
			return
		}
		if !re.MatchString(s) {
			errs.AddNewf(errors.ErrRegexMismatch, t.Pos(), "%s: %q does not match /%s/", dotted(path), s, t.Regex)
		}
	}
}

// ApplyDefaults walks schema, filling any absent field that declares a
// default with its evaluated value. Defaults are applied after
// evaluation and before type checking, per SPEC_FULL.md's resolution of
// spec.md's Open Question on default/schema ordering.
func ApplyDefaults(reg *Registry, schema *ast.SchemaDecl, doc value.Value, evalDefault func(ast.Expr) (value.Value, error)) error {
	if doc.Kind() != value.KindObject {
		return fmt.Errorf("ApplyDefaults requires an object value")
	}
	fields, _ := reg.fields(schema)
	for _, f := range fields {
		if doc.Object().Has(f.Name.Name) || f.Default == nil {
			continue
		}
		v, err := evalDefault(f.Default)
		if err != nil {
			return err
		}
		doc.Object().Set(f.Name.Name, v)
	}
	return nil
}
