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

package eval

import (
	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/token"
	"github.com/honelang/hone/internal/value"
)

// Merge deep-merges overlay onto base and returns the result. Merge is
// associative but not commutative: Merge(Merge(a,b),c) == Merge(a,
// Merge(b,c)), but Merge(a,b) != Merge(b,a) in general.
//
// Scalars, arrays, null, and functions in overlay replace base outright.
// Two objects merge key-by-key: keys present only in base or only in
// overlay pass through unchanged; keys present in both recurse. Key
// order follows spec.md's invariant: base's existing keys keep their
// original position, keys overlay introduces are appended in the order
// they first appear in overlay.
func Merge(base, overlay value.Value) value.Value {
	if base.Kind() != value.KindObject || overlay.Kind() != value.KindObject {
		return overlay
	}
	out := base.Object().Clone()
	for _, k := range overlay.Object().Keys() {
		ov, _ := overlay.Object().Get(k)
		if bv, ok := out.Get(k); ok {
			out.Set(k, Merge(bv, ov))
		} else {
			out.Set(k, ov)
		}
	}
	return value.Obj(out)
}

// Append implements the `+:` assignment mode: both sides must be arrays
// (spec.md §4.4: "both sides must be arrays; concatenate. Otherwise
// E0202"). If the key is not yet present, base is treated as an empty
// array rather than an error, so the first `+:` on a key behaves like a
// plain assignment of overlay.
func Append(base value.Value, present bool, pos token.Pos, overlay value.Value) (value.Value, error) {
	if overlay.Kind() != value.KindArray {
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, pos, "+: requires an array value, got %s", overlay.Kind())
	}
	if !present {
		return overlay, nil
	}
	if base.Kind() != value.KindArray {
		return value.Value{}, errors.Newf(errors.ErrTypeMismatch, pos, "+: requires the existing value to be an array, got %s", base.Kind())
	}
	combined := append(append([]value.Value(nil), base.Elems()...), overlay.Elems()...)
	return value.Array(combined), nil
}
