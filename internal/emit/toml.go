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

	toml "github.com/pelletier/go-toml/v2"

	"github.com/honelang/hone/internal/value"
)

// TOML renders v as TOML. go-toml/v2 marshals from Go maps/structs and so
// cannot preserve Hone's insertion order on its own (its own
// documentation notes map key order is not guaranteed), so the table
// structure and key order are walked by hand here; go-toml/v2's Marshal
// is used only per-scalar, to keep string/number/date quoting rules
// consistent with the rest of the ecosystem instead of hand-rolling
// TOML's escaping rules a second time.
func TOML(v value.Value) ([]byte, error) {
	if v.Kind() != value.KindObject {
		return nil, fmt.Errorf("TOML output requires a top-level object")
	}
	var buf bytes.Buffer
	if err := writeTOMLTable(&buf, v.Object(), nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTOMLTable(buf *bytes.Buffer, obj *value.Object, path []string) error {
	var scalarKeys, arrayOfTableKeys, tableKeys []string
	for _, k := range obj.Keys() {
		fv, _ := obj.Get(k)
		switch {
		case fv.Kind() == value.KindObject:
			tableKeys = append(tableKeys, k)
		case fv.Kind() == value.KindArray && isArrayOfTables(fv):
			arrayOfTableKeys = append(arrayOfTableKeys, k)
		default:
			scalarKeys = append(scalarKeys, k)
		}
	}

	for _, k := range scalarKeys {
		fv, _ := obj.Get(k)
		scalar, err := tomlScalar(fv)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "%s = %s\n", tomlKey(k), scalar)
	}

	for _, k := range tableKeys {
		fv, _ := obj.Get(k)
		sub := append(append([]string(nil), path...), k)
		fmt.Fprintf(buf, "\n[%s]\n", tomlPath(sub))
		if err := writeTOMLTable(buf, fv.Object(), sub); err != nil {
			return err
		}
	}

	for _, k := range arrayOfTableKeys {
		fv, _ := obj.Get(k)
		sub := append(append([]string(nil), path...), k)
		for _, elem := range fv.Elems() {
			fmt.Fprintf(buf, "\n[[%s]]\n", tomlPath(sub))
			if err := writeTOMLTable(buf, elem.Object(), sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func isArrayOfTables(v value.Value) bool {
	elems := v.Elems()
	if len(elems) == 0 {
		return false
	}
	for _, e := range elems {
		if e.Kind() != value.KindObject {
			return false
		}
	}
	return true
}

func tomlKey(k string) string {
	bare := true
	for _, r := range k {
		if !(r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			bare = false
			break
		}
	}
	if bare && k != "" {
		return k
	}
	quoted, _ := toml.Marshal(struct {
		S string `toml:"s"`
	}{S: k})
	s := string(quoted)
	if i := bytes.IndexByte([]byte(s), '"'); i >= 0 {
		return s[i : len(s)-1]
	}
	return k
}

func tomlPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += "."
		}
		out += tomlKey(p)
	}
	return out
}

func tomlScalar(v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindNull:
		return "", fmt.Errorf("TOML has no null type; omit or default the field")
	case value.KindBool, value.KindInt, value.KindFloat:
		b, err := toml.Marshal(struct {
			V interface{} `toml:"v"`
		}{V: scalarGoValue(v)})
		if err != nil {
			return "", err
		}
		return extractScalarText(b), nil
	case value.KindString:
		b, err := toml.Marshal(struct {
			V string `toml:"v"`
		}{V: v.Str()})
		if err != nil {
			return "", err
		}
		return extractScalarText(b), nil
	case value.KindArray:
		parts := make([]string, 0, len(v.Elems()))
		for _, e := range v.Elems() {
			s, err := tomlScalar(e)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		out := "["
		for i, p := range parts {
			if i > 0 {
				out += ", "
			}
			out += p
		}
		return out + "]", nil
	}
	return "", fmt.Errorf("cannot emit a %s value to TOML", v.Kind())
}

func scalarGoValue(v value.Value) interface{} {
	switch v.Kind() {
	case value.KindBool:
		return v.Bool()
	case value.KindInt:
		return v.Int()
	case value.KindFloat:
		return v.Float()
	}
	return nil
}

func extractScalarText(marshaled []byte) string {
	s := string(marshaled)
	if i := bytes.IndexByte([]byte(s), '='); i >= 0 {
		s = s[i+2:]
	}
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
