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
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/honelang/hone/internal/config"
	"github.com/honelang/hone/internal/eval"
	"github.com/honelang/hone/internal/pipeline"
	"github.com/honelang/hone/internal/value"
)

func newCompileCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "compile <file.hone>",
		Short: "compile a .hone source file to JSON, YAML, TOML, or dotenv",
		Args:  cobra.ExactArgs(1),
		RunE: mkRunE(func(c *Command, args []string) error {
			opts, err := compileOptionsFromFlags(c)
			if err != nil {
				return err
			}
			res, err := pipeline.Compile(args[0], opts)
			if err != nil {
				return oops.In("hone compile").With("file", args[0]).Wrapf(err, "compile failed")
			}
			if !c.cfg.Quiet {
				for _, warn := range res.Warnings {
					fmt.Fprintf(os.Stderr, "warning: policy %s: %s\n", warn.Name, warn.Message)
				}
			}
			if c.cfg.DryRun {
				return nil
			}
			return writeCompileOutputs(res.Outputs, c.cfg.OutputDir, output, opts.Format)
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this path instead of stdout")
	return cmd
}

// writeCompileOutputs writes a compile Result's rendered documents. With
// outputDir set, each document is written as "<name-or-'output'>.<ext>";
// otherwise, in single-document mode, the one document goes to output (or
// stdout when output is empty).
func writeCompileOutputs(outputs map[string][]byte, outputDir, output, format string) error {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return oops.Wrapf(err, "create output directory %q", outputDir)
		}
		for name, rendered := range outputs {
			base := name
			if base == "" {
				base = "output"
			}
			path := filepath.Join(outputDir, base+"."+extFor(format))
			if err := os.WriteFile(path, rendered, 0o644); err != nil {
				return oops.Wrapf(err, "write output file %q", path)
			}
		}
		return nil
	}
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return oops.Wrapf(err, "create output file %q", output)
		}
		defer f.Close()
		if _, err := f.Write(outputs[""]); err != nil {
			return oops.Wrapf(err, "write output file %q", output)
		}
		return nil
	}
	_, err := os.Stdout.Write(outputs[""])
	return err
}

func extFor(format string) string {
	switch format {
	case "yaml":
		return "yaml"
	case "toml":
		return "toml"
	case "dotenv":
		return "env"
	default:
		return "json"
	}
}

// compileOptionsFromFlags maps the global --format/--variant/--allow-env/
// --allow-file/--set*/--secrets-mode/--strict/--ignore-policy flags, plus
// the resolved config layer, into pipeline.Options.
func compileOptionsFromFlags(c *Command) (pipeline.Options, error) {
	variant := map[string]string{}
	for _, pair := range strings.Split(c.cfg.Variant, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return pipeline.Options{}, fmt.Errorf("invalid --variant entry %q: expected name=case", pair)
		}
		variant[k] = v
	}

	args, err := argsFromSetFlags(c.cfg)
	if err != nil {
		return pipeline.Options{}, err
	}

	// EnvOptions gates env()/file() on a single switch rather than a
	// per-name allowlist; naming --allow-env/--allow-file at all is
	// treated as opting into both builtins, matching spec.md's
	// coarser-grained --allow-env hermeticity flag.
	allowed := len(c.cfg.AllowEnv) > 0 || len(c.cfg.AllowFile) > 0

	return pipeline.Options{
		Format:        c.cfg.Format,
		Args:          args,
		VariantChoice: variant,
		Env: eval.EnvOptions{
			Allowed:     allowed,
			EnvFile:     c.cfg.EnvFile,
			SecretsMode: c.cfg.SecretsMode,
		},
		Cache:        c.Cache(),
		Strict:       c.cfg.Strict,
		IgnorePolicy: c.cfg.IgnorePolicy,
	}, nil
}

// argsFromSetFlags builds the `args` namespace's bound values from
// --set/--set-string/--set-file, applying each in that order so a later
// flag for the same name overrides an earlier one. Bare --set infers
// Int, then Bool, then Float, falling back to String; --set-string always
// binds a String; --set-file reads the named file's contents as a String.
func argsFromSetFlags(cfg config.Config) (map[string]value.Value, error) {
	args := map[string]value.Value{}
	for _, kv := range cfg.Set {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set entry %q: expected name=value", kv)
		}
		args[name] = inferSetValue(raw)
	}
	for _, kv := range cfg.SetString {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set-string entry %q: expected name=value", kv)
		}
		args[name] = value.String(raw)
	}
	for _, kv := range cfg.SetFile {
		name, path, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set-file entry %q: expected name=path", kv)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("--set-file %s: %w", name, err)
		}
		args[name] = value.String(string(data))
	}
	return args, nil
}

// inferSetValue implements spec.md §4.4's bare --set type inference: try
// Int, then Bool, then Float, and fall back to String when none parse.
func inferSetValue(raw string) value.Value {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.Int(i)
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return value.Bool(b)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return value.Float(f)
	}
	return value.String(raw)
}
