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

// Package policy evaluates `policy` declarations against a compiled
// document: each policy binds the special identifier `output` to the
// document and evaluates its condition using Hone's own expression
// evaluator, then either denies (fails the compile) or warns.
package policy

import (
	"github.com/honelang/hone/internal/ast"
	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/token"
	"github.com/honelang/hone/internal/value"
)

// Evaluate is supplied by internal/eval at the call site (Exprs are
// evaluated against a scope that binds `output`); this package only
// needs a narrow function type to avoid an import cycle with eval.
type Evaluate func(cond ast.Expr, output value.Value) (value.Value, error)

// Violation is one triggered policy, classified by its declared kind.
type Violation struct {
	Name    string
	Deny    bool
	Message string
	Pos     token.Pos
}

// Check runs every policy in policies against output, returning the
// violations that fired (in declaration order). A non-nil error is
// returned only when a policy's condition itself fails to evaluate.
func Check(policies []*ast.PolicyDecl, output value.Value, eval Evaluate) ([]Violation, error) {
	var violations []Violation
	for _, p := range policies {
		v, err := eval(p.Cond, output)
		if err != nil {
			return nil, err
		}
		if v.Kind() != value.KindBool {
			return nil, errors.Newf(errors.ErrTypeMismatch, p.Cond.Pos(), "policy %q condition must evaluate to bool", p.Name.Name)
		}
		if !v.Bool() {
			continue
		}
		msg := "policy " + p.Name.Name + " triggered"
		if p.Message != nil {
			mv, err := eval(p.Message, output)
			if err == nil && mv.Kind() == value.KindString {
				msg = mv.Str()
			}
		}
		violations = append(violations, Violation{
			Name:    p.Name.Name,
			Deny:    p.Kind == token.DENY,
			Message: msg,
			Pos:     p.Pos(),
		})
	}
	return violations, nil
}

// AsError converts any deny violations into a single errors.List (E0801,
// reusing the hermeticity/policy range since a policy deny blocks an
// otherwise-hermetic compile from succeeding). Warnings are not errors;
// the compile and check commands print them to stderr themselves.
func AsError(violations []Violation) error {
	var errs errors.List
	for _, v := range violations {
		if v.Deny {
			errs.AddNewf(errors.ErrHermeticity, v.Pos, "%s", v.Message)
		}
	}
	return errs.Err()
}

// StrictError converts every violation, deny or warn, into a single
// errors.List. Under --strict a warn policy that would otherwise only
// print to stderr aborts the compile like a deny.
func StrictError(violations []Violation) error {
	var errs errors.List
	for _, v := range violations {
		errs.AddNewf(errors.ErrHermeticity, v.Pos, "%s", v.Message)
	}
	return errs.Err()
}

// Warnings filters violations down to the non-denying ones.
func Warnings(violations []Violation) []Violation {
	var out []Violation
	for _, v := range violations {
		if !v.Deny {
			out = append(out, v)
		}
	}
	return out
}
