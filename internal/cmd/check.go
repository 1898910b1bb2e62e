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

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/honelang/hone/internal/pipeline"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.hone>",
		Short: "evaluate, type-check, and run policies without emitting output",
		Args:  cobra.ExactArgs(1),
		RunE: mkRunE(func(c *Command, args []string) error {
			opts, err := compileOptionsFromFlags(c)
			if err != nil {
				return err
			}
			// check never reads or writes the build cache: it exists to
			// surface errors, and a cache hit would otherwise mean
			// re-running it reports stale results.
			opts.Cache = nil
			res, err := pipeline.Compile(args[0], opts)
			if err != nil {
				return oops.In("hone check").With("file", args[0]).Wrapf(err, "check failed")
			}
			for _, warn := range res.Warnings {
				fmt.Fprintf(os.Stderr, "warning: policy %s: %s\n", warn.Name, warn.Message)
			}
			fmt.Fprintln(os.Stdout, "ok")
			return nil
		}),
	}
	return cmd
}
