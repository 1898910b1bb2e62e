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
	"fmt"

	goyaml "github.com/goccy/go-yaml"

	"github.com/honelang/hone/internal/value"
)

// YAML renders v as YAML, using goccy/go-yaml's MapSlice/MapItem so that
// object key order follows the same insertion order as JSON/TOML rather
// than the alphabetical order a plain map[string]any would produce.
func YAML(v value.Value) ([]byte, error) {
	node, err := toYAMLNode(v)
	if err != nil {
		return nil, err
	}
	return goyaml.Marshal(node)
}

func toYAMLNode(v value.Value) (interface{}, error) {
	switch v.Kind() {
	case value.KindNull:
		return nil, nil
	case value.KindBool:
		return v.Bool(), nil
	case value.KindInt:
		return v.Int(), nil
	case value.KindFloat:
		return v.Float(), nil
	case value.KindString:
		return v.Str(), nil
	case value.KindArray:
		out := make([]interface{}, 0, len(v.Elems()))
		for _, e := range v.Elems() {
			ev, err := toYAMLNode(e)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		return out, nil
	case value.KindObject:
		slice := make(goyaml.MapSlice, 0, v.Object().Len())
		for _, k := range v.Object().Keys() {
			fv, _ := v.Object().Get(k)
			ev, err := toYAMLNode(fv)
			if err != nil {
				return nil, err
			}
			slice = append(slice, goyaml.MapItem{Key: k, Value: ev})
		}
		return slice, nil
	}
	return nil, fmt.Errorf("cannot emit a %s value to YAML", v.Kind())
}
