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
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/honelang/hone/internal/pipeline"
)

// newLSPCmd runs a minimal editor-facing loop over stdio: one source
// path per input line, one diagnostic-or-"ok" line per output, using the
// same single-threaded, debounce-free invocation model spec.md §5
// describes for the external LSP collaborator. A full Language Server
// Protocol implementation (JSON-RPC framing, textDocument/* methods) is
// out of scope; this is the peripheral surface's compile-on-save core.
func newLSPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "lsp",
		Short:  "run a stdio compile-on-save loop for editor integration",
		Hidden: true,
		RunE: mkRunE(func(c *Command, args []string) error {
			return runLSPLoop(c, os.Stdin, os.Stdout)
		}),
	}
	cmd.Flags().Bool("stdio", true, "communicate over stdin/stdout (the only supported transport)")
	return cmd
}

func runLSPLoop(c *Command, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		path := scanner.Text()
		if path == "" {
			continue
		}
		opts, err := compileOptionsFromFlags(c)
		if err != nil {
			fmt.Fprintf(out, "%s: %s\n", path, err)
			continue
		}
		opts.Cache = nil
		if _, err := pipeline.Compile(path, opts); err != nil {
			fmt.Fprintf(out, "%s: %s\n", path, err)
			continue
		}
		fmt.Fprintf(out, "%s: ok\n", path)
	}
	return scanner.Err()
}
