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

package emit

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/honelang/hone/internal/value"
)

// Dotenv renders v as a flat KEY=VALUE file. Nested objects are flattened
// with "_" joining path segments (DB.HOST -> DB_HOST), matching the shell
// environment-variable convention dotenv files exist to feed. Arrays have
// no dotenv representation and are rejected, since there is no standard
// way to pass a list through a single environment variable. Lines are
// written in the object's insertion order.
func Dotenv(v value.Value) ([]byte, error) {
	if v.Kind() != value.KindObject {
		return nil, fmt.Errorf("dotenv output requires a top-level object")
	}
	flat := map[string]string{}
	var keys []string
	if err := flattenDotenv(v.Object(), nil, flat, &keys); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s=%s\n", k, dotenvQuote(flat[k]))
	}
	return buf.Bytes(), nil
}

func flattenDotenv(obj *value.Object, prefix []string, out map[string]string, order *[]string) error {
	for _, k := range obj.Keys() {
		fv, _ := obj.Get(k)
		path := append(append([]string(nil), prefix...), k)
		if kind := fv.Kind(); kind != value.KindObject && kind != value.KindArray {
			if _, seen := out[dotenvKey(path)]; !seen {
				*order = append(*order, dotenvKey(path))
			}
		}
		switch fv.Kind() {
		case value.KindObject:
			if err := flattenDotenv(fv.Object(), path, out, order); err != nil {
				return err
			}
		case value.KindArray:
			return fmt.Errorf("cannot emit array %q to dotenv: no list representation in KEY=VALUE format", dotenvKey(path))
		case value.KindNull:
			out[dotenvKey(path)] = ""
		case value.KindBool:
			out[dotenvKey(path)] = strconv.FormatBool(fv.Bool())
		case value.KindInt:
			out[dotenvKey(path)] = strconv.FormatInt(fv.Int(), 10)
		case value.KindFloat:
			out[dotenvKey(path)] = formatFloat(fv.Float())
		case value.KindString:
			out[dotenvKey(path)] = fv.Str()
		default:
			return fmt.Errorf("cannot emit a %s value to dotenv", fv.Kind())
		}
	}
	return nil
}

func dotenvKey(path []string) string {
	upper := make([]string, len(path))
	for i, p := range path {
		upper[i] = strings.ToUpper(p)
	}
	return strings.Join(upper, "_")
}

// dotenvQuote wraps a value in double quotes whenever it contains
// whitespace, a quote, a newline, or a `#` that would otherwise start a
// comment, escaping embedded quotes/backslashes/newlines.
func dotenvQuote(s string) string {
	needsQuote := s == ""
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '"' || r == '\\' || r == '\n' || r == '#' || r == '$' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
