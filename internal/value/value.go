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

// Package value implements Hone's runtime value model: a small tagged
// union produced by the evaluator and consumed by the type checker,
// policy checker, and emitters.
package value

import (
	"fmt"
	"math"
	"sort"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is the tagged-union result of evaluating a Hone expression.
// Object and Array are reference types (a *Object / []Value slice
// header); the zero Value is Null.
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	arr    []Value
	obj    *Object
	fn     *Function
	secret bool
}

// Null is the null value.
var Null = Value{kind: KindNull}

func Bool(b bool) Value    { return Value{kind: KindBool, b: b} }
func Int(i int64) Value    { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Array(elems []Value) Value { return Value{kind: KindArray, arr: elems} }
func Obj(o *Object) Value   { return Value{kind: KindObject, obj: o} }
func Fn(f *Function) Value  { return Value{kind: KindFunction, fn: f} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool       { return v.b }
func (v Value) Int() int64       { return v.i }
func (v Value) Float() float64   { return v.f }
func (v Value) Str() string      { return v.s }
func (v Value) Elems() []Value   { return v.arr }
func (v Value) Object() *Object  { return v.obj }
func (v Value) Function() *Function { return v.fn }

// AsFloat returns v's numeric value as a float64, widening an Int. Callers
// must check Kind is KindInt or KindFloat first.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Secret returns whether v (or a value it was derived from) is tagged as
// a secret. Secret values must never be written to a non-secret-aware
// sink; see spec.md's hermeticity/secret-leak rules (E0802).
func (v Value) Secret() bool { return v.secret }

// WithSecret returns a copy of v tagged as secret. The evaluator carries
// the tag onto strings derived from a tagged value (interpolation, `+`
// concatenation, and builtin calls that return a string); other derived
// values, such as numbers, booleans, or collections a builtin builds, are
// not tagged.
func (v Value) WithSecret() Value {
	v.secret = true
	return v
}

// ContainsSecret reports whether v, or anything nested inside it, still
// carries the secret tag. This is the final-pass scan `--secrets-mode
// error` runs over an assembled document before it is emitted.
func ContainsSecret(v Value) bool {
	if v.secret {
		return true
	}
	switch v.kind {
	case KindArray:
		for _, e := range v.arr {
			if ContainsSecret(e) {
				return true
			}
		}
	case KindObject:
		for _, k := range v.obj.Keys() {
			fv, _ := v.obj.Get(k)
			if ContainsSecret(fv) {
				return true
			}
		}
	}
	return false
}

// Function is a user-defined `fn` closure value.
type Function struct {
	Name   string
	Params []string
	// Call evaluates the function body against args; the evaluator
	// supplies this since the body is an ast.Expr evaluated in the
	// closure's defining scope.
	Call func(args []Value) (Value, error)
}

// Object is an insertion-ordered string-keyed map, matching spec.md's
// requirement that key order from first occurrence is preserved across
// merges.
type Object struct {
	keys   []string
	vals   map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order. The returned slice must not
// be mutated.
func (o *Object) Keys() []string { return o.keys }

// Get returns the value at key and whether it is present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

// Set assigns key to v. If key is new it is appended to the key order;
// if key already exists its position is unchanged, matching the deep
// merge invariant that existing keys keep their original position.
func (o *Object) Set(key string, v Value) {
	if o.vals == nil {
		o.vals = make(map[string]Value)
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Delete removes key, if present.
func (o *Object) Delete(key string) {
	if _, ok := o.vals[key]; !ok {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a shallow copy of o: a new key/value container with the
// same Values. Nested Objects are shared with o, not copied.
func (o *Object) Clone() *Object {
	n := &Object{
		keys: append([]string(nil), o.keys...),
		vals: make(map[string]Value, len(o.vals)),
	}
	for k, v := range o.vals {
		n.vals[k] = v
	}
	return n
}

// Equal reports deep structural equality between two values, used by
// `==`/`!=` and by assertion/testing helpers.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		// int/float compare numerically across kinds.
		if (a.kind == KindInt || a.kind == KindFloat) && (b.kind == KindInt || b.kind == KindFloat) {
			return a.AsFloat() == b.AsFloat()
		}
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		for _, k := range a.obj.Keys() {
			av, _ := a.obj.Get(k)
			bv, ok := b.obj.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindFunction:
		return a.fn == b.fn
	}
	return false
}

// sortRank implements the total order fixed by SPEC_FULL.md for the
// built-in `sort` function: Null < Bool < numeric < String < Array <
// Object, with same-kind values compared by their natural ordering.
func sortRank(v Value) int {
	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		return 1
	case KindInt, KindFloat:
		return 2
	case KindString:
		return 3
	case KindArray:
		return 4
	case KindObject:
		return 5
	}
	return 6
}

// Less implements the total order used by the `sort` builtin.
func Less(a, b Value) bool {
	ra, rb := sortRank(a), sortRank(b)
	if ra != rb {
		return ra < rb
	}
	switch a.kind {
	case KindBool:
		return !a.b && b.b
	case KindInt, KindFloat:
		return a.AsFloat() < b.AsFloat()
	case KindString:
		return a.s < b.s
	case KindArray:
		n := len(a.arr)
		if len(b.arr) < n {
			n = len(b.arr)
		}
		for i := 0; i < n; i++ {
			if Less(a.arr[i], b.arr[i]) {
				return true
			}
			if Less(b.arr[i], a.arr[i]) {
				return false
			}
		}
		return len(a.arr) < len(b.arr)
	case KindObject:
		ak, bk := append([]string(nil), a.obj.Keys()...), append([]string(nil), b.obj.Keys()...)
		sort.Strings(ak)
		sort.Strings(bk)
		n := len(ak)
		if len(bk) < n {
			n = len(bk)
		}
		for i := 0; i < n; i++ {
			if ak[i] != bk[i] {
				return ak[i] < bk[i]
			}
			av, _ := a.obj.Get(ak[i])
			bv, _ := b.obj.Get(bk[i])
			if Less(av, bv) {
				return true
			}
			if Less(bv, av) {
				return false
			}
		}
		return len(ak) < len(bk)
	}
	return false
}

// String renders v for diagnostics (not for emission; see internal/emit
// for format-specific serialization).
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		if math.Trunc(v.f) == v.f && !math.IsInf(v.f, 0) {
			return fmt.Sprintf("%.1f", v.f)
		}
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return v.s
	case KindArray:
		return fmt.Sprintf("array[%d]", len(v.arr))
	case KindObject:
		return fmt.Sprintf("object[%d]", v.obj.Len())
	case KindFunction:
		return fmt.Sprintf("fn %s", v.fn.Name)
	}
	return "?"
}
