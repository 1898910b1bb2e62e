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

// renderInterpPart converts an evaluated expression part of a string
// interpolation into its textual form. A secret value renders normally
// here; the secret tag is propagated onto the interpolation's result by
// the caller rather than rejected at this point, matching spec.md's
// requirement that interpolation/concatenation carry secrecy forward to
// be caught by the emitter's final-pass scan instead.
func renderInterpPart(pos token.Pos, v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindArray, value.KindObject, value.KindFunction:
		return "", errors.Newf(errors.ErrTypeMismatch, pos, "cannot interpolate a %s value into a string", v.Kind())
	case value.KindNull:
		return "", nil
	}
	return v.String(), nil
}
