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

package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// newImportCmd converts a YAML document into a Hone source literal: the
// peripheral "YAML→Hone importer" named in spec.md §6. It renders a
// single flat object body; nested maps/sequences become nested object
// and array literals, following the same literal-rendering approach as
// internal/format (a direct recursive print, not a round-trip through
// the parser).
func newImportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "convert a YAML document into a .hone source literal",
		Args:  cobra.ExactArgs(1),
		RunE: mkRunE(func(c *Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return oops.In("hone import").Wrapf(err, "read %q", args[0])
			}
			var doc any
			if err := yaml.Unmarshal(src, &doc); err != nil {
				return oops.In("hone import").With("file", args[0]).Wrapf(err, "parse YAML")
			}

			var b strings.Builder
			obj, ok := doc.(map[string]any)
			if !ok {
				return fmt.Errorf("%s: top-level YAML document must be a mapping", args[0])
			}
			writeObjectBody(&b, obj, 0)

			out := []byte(b.String())
			if output == "" {
				os.Stdout.Write(out)
				return nil
			}
			return os.WriteFile(output, out, 0o644)
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the .hone source to this path instead of stdout")
	return cmd
}

func writeObjectBody(b *strings.Builder, obj map[string]any, depth int) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	indent := strings.Repeat("  ", depth)
	for _, k := range keys {
		b.WriteString(indent)
		b.WriteString(importKey(k))
		writeImportValue(b, obj[k], depth)
	}
}

func importKey(k string) string {
	if isBareIdent(k) {
		return k
	}
	return strconv.Quote(k)
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func writeImportValue(b *strings.Builder, v any, depth int) {
	switch x := v.(type) {
	case map[string]any:
		b.WriteString(": {\n")
		writeObjectBody(b, x, depth+1)
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("}\n")
	case []any:
		b.WriteString(": [")
		for i, el := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(importScalar(el))
		}
		b.WriteString("]\n")
	default:
		b.WriteString(": ")
		b.WriteString(importScalar(x))
		b.WriteString("\n")
	}
}

func importScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case string:
		return strconv.Quote(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case uint64:
		return strconv.FormatUint(x, 10)
	case map[string]any:
		var b strings.Builder
		b.WriteString("{ ")
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(importKey(k))
			b.WriteString(": ")
			b.WriteString(importScalar(x[k]))
		}
		b.WriteString(" }")
		return b.String()
	case []any:
		parts := make([]string, len(x))
		for i, el := range x {
			parts[i] = importScalar(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%q", fmt.Sprint(x))
	}
}
