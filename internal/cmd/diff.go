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

	"github.com/rogpeppe/go-internal/diff"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/honelang/hone/internal/pipeline"
)

// newDiffCmd compiles two sources and reports a structural diff of their
// rendered output, the peripheral "structural diff engine" named in
// spec.md §6. It exits 1 (via a returned error) when the two compiles
// differ, matching the compile/check exit-code contract rather than
// introducing a separate code.
func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <a.hone> <b.hone>",
		Short: "show the structural difference between two compiled sources",
		Args:  cobra.ExactArgs(2),
		RunE: mkRunE(func(c *Command, args []string) error {
			opts, err := compileOptionsFromFlags(c)
			if err != nil {
				return err
			}
			opts.Cache = nil

			resA, err := pipeline.Compile(args[0], opts)
			if err != nil {
				return oops.In("hone diff").With("file", args[0]).Wrapf(err, "compile failed")
			}
			resB, err := pipeline.Compile(args[1], opts)
			if err != nil {
				return oops.In("hone diff").With("file", args[1]).Wrapf(err, "compile failed")
			}

			d := diff.Diff(args[0], resA.Outputs[""], args[1], resB.Outputs[""])
			if len(d) == 0 {
				return nil
			}
			os.Stdout.Write(d)
			return fmt.Errorf("%s and %s differ", args[0], args[1])
		}),
	}
	return cmd
}
