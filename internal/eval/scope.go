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

import "github.com/honelang/hone/internal/value"

// scope is one lexical frame: `let` bindings, fn parameters, and for-loop
// bindings all push a child frame. Lookups walk outward to the root.
type scope struct {
	parent *scope
	vars   map[string]value.Value
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]value.Value)}
}

func (s *scope) define(name string, v value.Value) {
	s.vars[name] = v
}

func (s *scope) lookup(name string) (value.Value, bool) {
	for f := s; f != nil; f = f.parent {
		if v, ok := f.vars[name]; ok {
			return v, true
		}
	}
	return value.Value{}, false
}

func (s *scope) child() *scope { return newScope(s) }
