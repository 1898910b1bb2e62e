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

package errors

// Stable diagnostic codes, grouped by the ranges in spec.md §7.
const (
	// E00xx — syntax.
	ErrIllegalChar      Code = "E0001"
	ErrUndefinedIdent   Code = "E0002"
	ErrReservedKey      Code = "E0003"
	ErrUnterminatedStr  Code = "E0004"
	ErrBadEscape        Code = "E0005"

	// E01xx — import.
	ErrFileNotFound   Code = "E0101"
	ErrImportCycle    Code = "E0102"

	// E02xx — type.
	ErrOutOfRange      Code = "E0201"
	ErrTypeMismatch    Code = "E0202"
	ErrRegexMismatch   Code = "E0203"
	ErrMissingRequired Code = "E0204"
	ErrUnknownField    Code = "E0205"

	// E03xx — merge/preamble structure.
	ErrMultipleFrom      Code = "E0302"
	ErrFromInMultiDoc    Code = "E0304"

	// E04xx — eval.
	ErrArith         Code = "E0402"
	ErrNestingDepth  Code = "E0403"

	// E05xx — dependency.
	ErrValueCycle Code = "E0501"

	// E07xx — control flow.
	ErrTopLevelFor     Code = "E0701"
	ErrAssertionFailed Code = "E0702"

	// E08xx — hermeticity.
	ErrHermeticity Code = "E0801"
	ErrSecretLeak  Code = "E0802"
)
