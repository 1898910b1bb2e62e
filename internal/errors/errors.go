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

// Package errors defines the coded diagnostic type shared by every stage of
// the Hone compilation pipeline.
package errors

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/honelang/hone/internal/token"
)

// Code is a stable diagnostic identifier, e.g. "E0102". Codes are never
// renumbered across releases; see the table in spec.md §7.
type Code string

// Error ranges, per spec.md §7.
const (
	Syntax       = "E00"
	Import       = "E01"
	Type         = "E02"
	Merge        = "E03"
	Eval         = "E04"
	Dependency   = "E05"
	Control      = "E07"
	Hermeticity  = "E08"
)

// Error is the interface every Hone diagnostic implements.
type Error interface {
	error
	Code() Code
	Position() token.Pos
	Help() string
}

// coded is the concrete Error implementation.
type coded struct {
	code Code
	pos  token.Pos
	msg  string
	help string
}

// Newf constructs a coded Error at pos.
func Newf(code Code, pos token.Pos, format string, args ...interface{}) Error {
	return &coded{code: code, pos: pos, msg: fmt.Sprintf(format, args...)}
}

// WithHelp attaches a "help:" suggestion to an error, returning a new Error.
func WithHelp(err Error, help string) Error {
	c := *err.(*coded)
	c.help = help
	return &c
}

func (e *coded) Code() Code         { return e.code }
func (e *coded) Position() token.Pos { return e.pos }
func (e *coded) Help() string       { return e.help }

func (e *coded) Error() string {
	pos := e.pos.Position()
	if pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.code, pos, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Is supports errors.Is comparison by code: two coded errors with the same
// Code are considered equivalent for classification purposes.
func (e *coded) Is(target error) bool {
	var t *coded
	if errors.As(target, &t) {
		return t.code == e.code
	}
	return false
}

// List is an ordered collection of diagnostics collected across a single
// compilation stage. A non-empty List itself implements error, so a stage
// can return it directly.
type List []Error

// Add appends err to the list.
func (l *List) Add(err Error) { *l = append(*l, err) }

// AddNewf is a convenience wrapper around Add(Newf(...)).
func (l *List) AddNewf(code Code, pos token.Pos, format string, args ...interface{}) {
	l.Add(Newf(code, pos, format, args...))
}

// Err returns l as an error, or nil if l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
	}
	return b.String()
}

// Sort orders the list by source position, file then offset.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		pi, pj := l[i].Position().Position(), l[j].Position().Position()
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		return pi.Offset < pj.Offset
	})
}

// Config controls how diagnostics are rendered by Print.
type Config struct {
	// Cwd names a directory to relativize filenames against. Print does
	// not consult it; positions are printed as recorded.
	Cwd string
}

// Print writes every error in err (a List, a single Error, or any error) to
// w, one per line, each followed by its help text if present.
func Print(w io.Writer, err error, cfg *Config) {
	for _, e := range Errors(err) {
		fmt.Fprintln(w, e.Error())
		if help := e.Help(); help != "" {
			fmt.Fprintf(w, "    help: %s\n", help)
		}
	}
}

// Errors flattens err into its constituent coded Errors, wrapping any
// non-coded error into a single-element result so callers always iterate a
// []Error.
func Errors(err error) []Error {
	if err == nil {
		return nil
	}
	if l, ok := err.(List); ok {
		return []Error(l)
	}
	if e, ok := err.(Error); ok {
		return []Error{e}
	}
	return []Error{&coded{msg: err.Error()}}
}

// HasCode reports whether err carries the given code anywhere in its list.
func HasCode(err error, code Code) bool {
	for _, e := range Errors(err) {
		if e.Code() == code {
			return true
		}
	}
	return false
}
