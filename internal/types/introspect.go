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

package types

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/honelang/hone/internal/ast"
)

// ToJSONSchema projects a Hone schema declaration into a *jsonschema.Schema
// for the `hone typegen` command. It is never used as the validation path of record: Hone's
// own error codes (out-of-range vs. regex-mismatch vs. unknown-field,
// and the @unchecked opt-out) have no general-purpose JSON-Schema
// equivalent, so checkType in check.go remains authoritative.
func ToJSONSchema(reg *Registry, name string) (*jsonschema.Schema, error) {
	schema, ok := reg.schemas[name]
	if !ok {
		return nil, errUnknownSchema(name)
	}
	return objectSchema(reg, schema), nil
}

func objectSchema(reg *Registry, schema *ast.SchemaDecl) *jsonschema.Schema {
	fields, _ := reg.fields(schema)
	props := make(map[string]*jsonschema.Schema, len(fields))
	var required []string
	for _, f := range fields {
		props[f.Name.Name] = typeSchema(reg, &f.Type)
		if !f.Optional && f.Default == nil {
			required = append(required, f.Name.Name)
		}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func typeSchema(reg *Registry, t *ast.TypeExpr) *jsonschema.Schema {
	switch t.Kind {
	case ast.KindNullable:
		return typeSchema(reg, t.Inner)
	case ast.KindInt:
		return &jsonschema.Schema{Type: "integer"}
	case ast.KindFloat:
		return &jsonschema.Schema{Type: "number"}
	case ast.KindString:
		s := &jsonschema.Schema{Type: "string"}
		if t.Regex != "" {
			s.Pattern = t.Regex
		}
		return s
	case ast.KindBool:
		return &jsonschema.Schema{Type: "boolean"}
	case ast.KindArray:
		return &jsonschema.Schema{Type: "array"}
	case ast.KindObject:
		return &jsonschema.Schema{Type: "object"}
	case ast.KindSchemaRef:
		if sub, ok := reg.schemas[t.Ref]; ok {
			return objectSchema(reg, sub)
		}
	}
	return &jsonschema.Schema{}
}

type schemaError string

func (e schemaError) Error() string { return string(e) }

func errUnknownSchema(name string) error {
	return schemaError("unknown schema \"" + name + "\"")
}
