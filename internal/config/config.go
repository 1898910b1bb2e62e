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

// Package config loads Hone's CLI configuration from a .honerc.yaml file
// layered under command-line flags, using koanf so that flags always win
// over file defaults without hand-written precedence logic.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the resolved set of options that apply to every hone command
// unless overridden on the command line. Field names match .honerc.yaml
// keys via the koanf tag.
type Config struct {
	Format       string   `koanf:"format"`
	Variant      string   `koanf:"variant"`
	AllowEnv     []string `koanf:"allow-env"`
	AllowFile    []string `koanf:"allow-file"`
	EnvFile      string   `koanf:"env-file"`
	CacheDir     string   `koanf:"cache-dir"`
	NoCache      bool     `koanf:"no-cache"`
	Color        string   `koanf:"color"`
	Set          []string `koanf:"set"`
	SetString    []string `koanf:"set-string"`
	SetFile      []string `koanf:"set-file"`
	SecretsMode  string   `koanf:"secrets-mode"`
	Strict       bool     `koanf:"strict"`
	IgnorePolicy bool     `koanf:"ignore-policy"`
	OutputDir    string   `koanf:"output-dir"`
	Quiet        bool     `koanf:"quiet"`
	DryRun       bool     `koanf:"dry-run"`
}

// Default returns a Config populated with the same defaults the CLI flags
// declare, used when no .honerc.yaml is present.
func Default() Config {
	return Config{
		Format:      "json",
		Color:       "auto",
		SecretsMode: "placeholder",
	}
}

// Load resolves .honerc.yaml (first in the current directory, falling
// back to $XDG_CONFIG_HOME/hone/config.yaml) and layers flags, already
// parsed into fs, on top via koanf's posflag provider, so a value set on
// the command line always overrides the file regardless of load order.
func Load(fs *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"format":       cfg.Format,
		"color":        cfg.Color,
		"secrets-mode": cfg.SecretsMode,
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return cfg, err
	}

	if path := findRCFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, err
		}
	}

	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return cfg, err
		}
	}

	var out Config
	if err := k.Unmarshal("", &out); err != nil {
		return cfg, err
	}
	return out, nil
}

func findRCFile() string {
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, ".honerc.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		p := filepath.Join(dir, "hone", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "hone", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
