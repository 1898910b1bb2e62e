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
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/honelang/hone/internal/parser"
)

// newGraphCmd prints the import/from composition graph rooted at a
// source file, one edge per line ("parent -> child"), mirroring the
// dependency-graph debugging surfaces the teacher's internal/core/adt
// OpenDebugGraph-style tooling exposes for its evaluator graph.
func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <file.hone>",
		Short: "print the import/composition graph rooted at a source file",
		Args:  cobra.ExactArgs(1),
		RunE: mkRunE(func(c *Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return oops.In("hone graph").Wrapf(err, "resolve path %q", args[0])
			}
			visited := map[string]bool{}
			return printGraph(abs, visited)
		}),
	}
	return cmd
}

func printGraph(abs string, visited map[string]bool) error {
	if visited[abs] {
		return nil
	}
	visited[abs] = true

	src, err := os.ReadFile(abs)
	if err != nil {
		return oops.In("hone graph").Wrapf(err, "read %q", abs)
	}
	f, err := parser.ParseFile(abs, src)
	if err != nil {
		return oops.In("hone graph").With("file", abs).Wrapf(err, "parse")
	}

	dir := filepath.Dir(abs)
	var children []string
	for _, imp := range f.Preamble.Imports {
		children = append(children, resolveGraphPath(dir, imp.Path))
	}
	if f.Preamble.From != nil {
		children = append(children, resolveGraphPath(dir, f.Preamble.From.Path))
	}

	base := filepath.Base(abs)
	if len(children) == 0 {
		fmt.Fprintf(os.Stdout, "%s\n", base)
	}
	for _, child := range children {
		fmt.Fprintf(os.Stdout, "%s -> %s\n", base, filepath.Base(child))
	}
	for _, child := range children {
		if err := printGraph(child, visited); err != nil {
			return err
		}
	}
	return nil
}

func resolveGraphPath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
