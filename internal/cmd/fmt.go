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
	"bytes"
	"fmt"
	"os"

	"github.com/rogpeppe/go-internal/diff"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/honelang/hone/internal/format"
	"github.com/honelang/hone/internal/parser"
)

func newFmtCmd() *cobra.Command {
	var list, write, showDiff bool
	cmd := &cobra.Command{
		Use:   "fmt <file.hone>",
		Short: "reformat a .hone source file to its canonical layout",
		Args:  cobra.ExactArgs(1),
		RunE: mkRunE(func(c *Command, args []string) error {
			path := args[0]
			src, err := os.ReadFile(path)
			if err != nil {
				return oops.In("hone fmt").Wrapf(err, "read %q", path)
			}
			f, err := parser.ParseFile(path, src)
			if err != nil {
				return oops.In("hone fmt").With("file", path).Wrapf(err, "parse failed")
			}
			out, err := format.Node(f)
			if err != nil {
				return oops.In("hone fmt").Wrapf(err, "format %q", path)
			}

			unchanged := bytes.Equal(src, out)
			switch {
			case list:
				if !unchanged {
					fmt.Fprintln(os.Stdout, path)
				}
			case showDiff:
				if d := diff.Diff(path, src, path+" (formatted)", out); len(d) > 0 {
					os.Stdout.Write(d)
				}
			case write:
				if unchanged {
					return nil
				}
				return os.WriteFile(path, out, 0o644)
			default:
				os.Stdout.Write(out)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file instead of stdout")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs, without writing them")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff instead of the reformatted file")
	return cmd
}
