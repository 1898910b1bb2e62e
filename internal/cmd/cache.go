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
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/honelang/hone/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "inspect or clear the build cache",
	}
	cmd.AddCommand(newCacheCleanCmd())
	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "remove cached build outputs",
		RunE: mkRunE(func(c *Command, args []string) error {
			dir := c.cfg.CacheDir
			if dir == "" {
				d, err := cache.DefaultDir()
				if err != nil {
					return oops.In("hone cache clean").Wrapf(err, "resolve cache directory")
				}
				dir = d
			}
			ch, err := cache.Open(dir, 0)
			if err != nil {
				return oops.In("hone cache clean").Wrapf(err, "open cache at %q", dir)
			}
			if err := ch.Clean(olderThan); err != nil {
				return oops.In("hone cache clean").Wrapf(err, "clean %q", dir)
			}
			fmt.Fprintf(os.Stdout, "cleaned %s\n", dir)
			return nil
		}),
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "only remove entries older than this duration (0 removes everything)")
	return cmd
}
