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

// Package emit renders a compiled Hone value into each of the four
// output formats spec.md names: JSON, YAML, TOML, and dotenv.
package emit

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/honelang/hone/internal/value"
)

// JSON renders v as indented JSON. It is hand-written rather than fed
// through encoding/json because value.Value is not a plain Go type: it
// must walk Object's insertion order directly to preserve key order.
// Secret-tagged strings render as their `<SECRET:P>` sentinel text like
// any other string; the pipeline's final-pass scan, not the emitter, is
// what rejects a secret under `--secrets-mode error` (see internal/pipeline).
func JSON(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v value.Value, indent int) error {
	switch v.Kind() {
	case value.KindNull:
		buf.WriteString("null")
	case value.KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case value.KindInt:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case value.KindFloat:
		buf.WriteString(formatFloat(v.Float()))
	case value.KindString:
		buf.Write(jsonString(v.Str()))
	case value.KindArray:
		elems := v.Elems()
		if len(elems) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, e := range elems {
			writeIndent(buf, indent+1)
			if err := writeJSON(buf, e, indent+1); err != nil {
				return err
			}
			if i < len(elems)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, indent)
		buf.WriteByte(']')
	case value.KindObject:
		keys := v.Object().Keys()
		if len(keys) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, k := range keys {
			fv, _ := v.Object().Get(k)
			writeIndent(buf, indent+1)
			buf.Write(jsonString(k))
			buf.WriteString(": ")
			if err := writeJSON(buf, fv, indent+1); err != nil {
				return err
			}
			if i < len(keys)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		writeIndent(buf, indent)
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot emit a %s value to JSON", v.Kind())
	}
	return nil
}

func writeIndent(buf *bytes.Buffer, n int) {
	for i := 0; i < n; i++ {
		buf.WriteString("  ")
	}
}

func jsonString(s string) []byte {
	var b bytes.Buffer
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.Bytes()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
