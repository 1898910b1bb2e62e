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

// Package cache implements Hone's build cache: compiled output is stored
// under a content address (the SHA-256 of its inputs) so that re-running
// `hone compile` against unchanged sources and flags can skip evaluation
// entirely. The on-disk layout and atomic-write discipline follow CUE's
// module cache (mod/modcache); a hashicorp/golang-lru hot layer sits in
// front of disk to avoid a stat+read round trip for entries reused within
// the same process (the `lsp` command keeps a cache open for its whole
// lifetime).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oklog/ulid/v2"
)

// Cache is a content-addressed store rooted at a directory, typically
// $XDG_CACHE_HOME/hone/v1 or $HOME/.cache/hone/v1.
type Cache struct {
	dir string
	hot *lru.Cache[string, []byte]
}

// DefaultDir resolves the cache root the way XDG_CACHE_HOME is supposed
// to be honored: $XDG_CACHE_HOME/hone/v1 if the env var is set, else
// $HOME/.cache/hone/v1.
func DefaultDir() (string, error) {
	if d := os.Getenv("XDG_CACHE_HOME"); d != "" {
		return filepath.Join(d, "hone", "v1"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cache: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "hone", "v1"), nil
}

// Open creates a Cache rooted at dir, with an in-memory hot layer holding
// up to hotSize recently used entries. dir is created if it does not
// already exist.
func Open(dir string, hotSize int) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", dir, err)
	}
	if hotSize <= 0 {
		hotSize = 128
	}
	hot, err := lru.New[string, []byte](hotSize)
	if err != nil {
		return nil, err
	}
	return &Cache{dir: dir, hot: hot}, nil
}

// Key hashes the given parts (source text, resolved options, compiler
// version, anything else that affects output) into a single content
// address. Order matters: callers must feed parts in a stable order.
func Key(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		var lenPrefix [8]byte
		n := len(p)
		for i := 0; i < 8; i++ {
			lenPrefix[i] = byte(n >> (8 * i))
		}
		h.Write(lenPrefix[:])
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) path(key string) string {
	if len(key) < 4 {
		return filepath.Join(c.dir, "objects", key)
	}
	return filepath.Join(c.dir, "objects", key[:2], key[2:4], key)
}

// Get returns the cached bytes for key, or ok=false if absent.
func (c *Cache) Get(key string) (data []byte, ok bool) {
	if data, ok := c.hot.Get(key); ok {
		return data, true
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return nil, false
	}
	c.hot.Add(key, data)
	return data, true
}

// Put writes data under key, atomically: it is first written to a
// uniquely named temp file in the same directory (so the rename is
// same-filesystem and therefore atomic on POSIX and Windows alike), then
// renamed into place. A ulid suffix rather than a PID or counter keeps
// concurrent `hone compile` invocations from colliding on the temp name.
func (c *Cache) Put(key string, data []byte) error {
	dst := c.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
		return fmt.Errorf("cache: create object dir: %w", err)
	}
	tmp := dst + "." + ulid.Make().String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o666); err != nil {
		return fmt.Errorf("cache: write temp file: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cache: rename into place: %w", err)
	}
	c.hot.Add(key, data)
	return nil
}

// Clean removes objects under the cache root older than olderThan (zero
// removes everything). It backs `hone cache clean [--older-than DUR]`.
func (c *Cache) Clean(olderThan time.Duration) error {
	objects := filepath.Join(c.dir, "objects")
	if olderThan <= 0 {
		if err := os.RemoveAll(objects); err != nil {
			return fmt.Errorf("cache: clean: %w", err)
		}
		c.hot.Purge()
		return nil
	}

	cutoff := time.Now().Add(-olderThan)
	err := filepath.WalkDir(objects, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			return os.Remove(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: clean: %w", err)
	}
	c.hot.Purge()
	return nil
}

// Dir returns the cache's root directory, for diagnostics (`hone cache
// clean --dry-run` style reporting).
func (c *Cache) Dir() string {
	return c.dir
}
