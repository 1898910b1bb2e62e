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
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/honelang/hone/internal/eval"
	"github.com/honelang/hone/internal/resolver"
	"github.com/honelang/hone/internal/types"
)

// newTypegenCmd projects a declared schema into a JSON Schema document,
// the peripheral "JSON-Schema→schema generator" run in reverse (spec.md
// §6): here a Hone schema becomes JSON Schema for consumption by
// external tooling, via internal/types.ToJSONSchema.
func newTypegenCmd() *cobra.Command {
	var schemaName string
	cmd := &cobra.Command{
		Use:   "typegen <file.hone>",
		Short: "emit a JSON Schema document for a declared schema",
		Args:  cobra.ExactArgs(1),
		RunE: mkRunE(func(c *Command, args []string) error {
			res := resolver.New(0)
			mod, err := res.Load(args[0])
			if err != nil {
				return oops.In("hone typegen").With("file", args[0]).Wrapf(err, "resolve")
			}

			ev := eval.New(eval.EnvOptions{}, nil, nil)
			evalResult, err := ev.EvalFile(mod.File, nil)
			if err != nil {
				return oops.In("hone typegen").With("file", args[0]).Wrapf(err, "evaluate")
			}

			name := schemaName
			if name == "" {
				if len(evalResult.Uses) == 0 {
					return fmt.Errorf("%s: no `use` declaration and no --schema given", args[0])
				}
				name = evalResult.Uses[0].Schema.Name
			}

			reg := types.NewRegistry(evalResult.Schemas)
			js, err := types.ToJSONSchema(reg, name)
			if err != nil {
				return oops.In("hone typegen").With("schema", name).Wrapf(err, "project schema")
			}

			out, err := json.MarshalIndent(js, "", "  ")
			if err != nil {
				return oops.In("hone typegen").Wrapf(err, "marshal JSON Schema")
			}
			fmt.Fprintln(os.Stdout, string(out))
			return nil
		}),
	}
	cmd.Flags().StringVar(&schemaName, "schema", "", "schema name to project (defaults to the file's `use` declaration)")
	return cmd
}
