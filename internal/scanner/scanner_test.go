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

package scanner

import (
	"testing"

	"github.com/honelang/hone/internal/errors"
	"github.com/honelang/hone/internal/token"
)

type tok struct {
	tok token.Token
	lit string
}

func scanAll(t *testing.T, src string) []tok {
	t.Helper()
	file := token.NewFile("test.hone", len(src))
	var s Scanner
	var errs []string
	s.Init(file, []byte(src), func(pos token.Position, code errors.Code, msg string) {
		errs = append(errs, string(code)+": "+msg)
	})
	var out []tok
	for {
		_, tk, lit, _ := s.Scan()
		out = append(out, tok{tk, lit})
		if tk == token.EOF {
			break
		}
	}
	if len(errs) > 0 {
		t.Fatalf("unexpected scan errors: %v", errs)
	}
	return out
}

func TestScanIdentAndOps(t *testing.T) {
	got := scanAll(t, `let x = 1 + 2`)
	want := []token.Token{token.LET, token.IDENT, token.ASSIGN, token.INT, token.ADD, token.INT, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].tok != w {
			t.Errorf("token %d: got %v, want %v", i, got[i].tok, w)
		}
	}
}

func TestScanAssignModes(t *testing.T) {
	got := scanAll(t, `x: 1
x +: 2
x !: 3`)
	var kinds []token.Token
	for _, g := range got {
		kinds = append(kinds, g.tok)
	}
	wantContains := []token.Token{token.COLON, token.APPEND, token.FORCE}
	for _, w := range wantContains {
		found := false
		for _, k := range kinds {
			if k == w {
				found = true
			}
		}
		if !found {
			t.Errorf("expected token %v in %v", w, kinds)
		}
	}
}

func TestScanNumber(t *testing.T) {
	got := scanAll(t, `1 1.5 1e3 1.5e-2`)
	want := []token.Token{token.INT, token.FLOAT, token.FLOAT, token.FLOAT, token.EOF}
	for i, w := range want {
		if got[i].tok != w {
			t.Errorf("token %d: got %v, want %v", i, got[i].tok, w)
		}
	}
}

func TestScanSingleQuoted(t *testing.T) {
	got := scanAll(t, `'a\'b'`)
	if got[0].tok != token.STRING || got[0].lit != "a'b" {
		t.Errorf("got %+v", got[0])
	}
}

func TestScanInterpolation(t *testing.T) {
	got := scanAll(t, `"Hello, ${n}"`)
	var kinds []token.Token
	for _, g := range got {
		kinds = append(kinds, g.tok)
	}
	want := []token.Token{
		token.StringStart, token.StringLit, token.StringExprStart,
		token.IDENT, token.StringExprEnd, token.StringEnd, token.EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want shape %v", kinds, want)
	}
	for i, w := range want {
		if kinds[i] != w {
			t.Errorf("token %d: got %v, want %v", i, kinds[i], w)
		}
	}
}
