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

// Package cmd assembles the `hone` command tree: compile, check, fmt,
// diff, import, graph, typegen, cache clean, and lsp --stdio. Each
// subcommand's RunE is wrapped by mkRunE, which centralizes diagnostic
// printing so a subcommand only ever needs to return an error.
package cmd

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/honelang/hone/internal/cache"
	"github.com/honelang/hone/internal/config"
	"github.com/honelang/hone/internal/errors"
)

// runFunction is the signature every subcommand's business logic
// implements; mkRunE adapts it into what cobra expects.
type runFunction func(c *Command, args []string) error

// Command wraps the active *cobra.Command with state shared across a
// single invocation: resolved configuration, the build cache (nil if
// --no-cache), and whether stderr should carry ANSI color.
type Command struct {
	*cobra.Command

	cfg     config.Config
	c       *cache.Cache
	noColor bool
}

// Cache lazily opens the build cache the first time a subcommand asks for
// it, honoring --cache-dir/--no-cache.
func (c *Command) Cache() *cache.Cache {
	if c.cfg.NoCache || c.c != nil {
		return c.c
	}
	dir := c.cfg.CacheDir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return nil
		}
		dir = d
	}
	opened, err := cache.Open(dir, 256)
	if err != nil {
		return nil
	}
	c.c = opened
	return c.c
}

// Color reports whether diagnostic output should carry ANSI color,
// honoring --color and falling back to a TTY check on stderr.
func (c *Command) Color() bool {
	switch c.cfg.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return !c.noColor && term.IsTerminal(int(os.Stderr.Fd()))
	}
}

func mkRunE(f runFunction) func(*cobra.Command, []string) error {
	return func(cc *cobra.Command, args []string) error {
		c := &Command{Command: cc}
		cfg, err := config.Load(cc.Flags())
		if err != nil {
			return oops.In("hone").Wrapf(err, "load configuration")
		}
		c.cfg = cfg
		return f(c, args)
	}
}

// New builds the root `hone` command and its full subcommand tree.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "hone",
		Short:         "hone compiles .hone configuration sources to JSON, YAML, TOML, or dotenv",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	addGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newCompileCmd(),
		newCheckCmd(),
		newFmtCmd(),
		newDiffCmd(),
		newImportCmd(),
		newGraphCmd(),
		newTypegenCmd(),
		newCacheCmd(),
		newLSPCmd(),
	)
	return root
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringP("format", "f", "json", "output format: json, yaml, toml, dotenv")
	fs.String("variant", "", "comma-separated variant=case selections")
	fs.StringSlice("allow-env", nil, "enable the env() and file() builtins (any value enables both; names are not checked)")
	fs.StringSlice("allow-file", nil, "enable the env() and file() builtins (any value enables both; paths are not checked)")
	fs.String("env-file", "", "a .env file merged under the OS environment for env(), when --allow-env is set")
	fs.String("cache-dir", "", "override the build cache directory")
	fs.Bool("no-cache", false, "disable the build cache")
	fs.String("color", "auto", "diagnostic color: auto, always, never")
	fs.StringSlice("set", nil, "expected arg, name=value, type-inferred (int/bool/float/string)")
	fs.StringSlice("set-string", nil, "expected arg, name=value, always bound as a string")
	fs.StringSlice("set-file", nil, "expected arg, name=path, bound to the file's contents as a string")
	fs.String("secrets-mode", "placeholder", "secret handling: placeholder, error, env")
	fs.Bool("strict", false, "treat policy warnings as fatal errors")
	fs.Bool("ignore-policy", false, "skip all policy checks")
	fs.String("output-dir", "", "directory to write one file per document in multi-document mode")
	fs.Bool("quiet", false, "suppress warning diagnostics on stderr")
	fs.Bool("dry-run", false, "run the full pipeline but discard the rendered output")
}

// Main runs the hone CLI and returns the process exit code.
func Main(args []string) int {
	root := New()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		errors.Print(os.Stderr, err, &errors.Config{})
		return 1
	}
	return 0
}
