// Package toolchain is the boundary to the compiler under test: it renders
// the command line for a profile, executes it, and derives the shared
// cache-directory key that serializes runs touching the same on-disk state.
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkoosis/tmx/internal/config"
	"github.com/dkoosis/tmx/internal/matrix"
)

// Command renders the full invocation for p. Deterministic for a given
// profile and config; the scheduler treats the result as opaque.
func Command(p matrix.Profile, cfg config.Config) string {
	return strings.Join([]string{
		cfg.Toolchain,
		"test",
		"-backend=" + string(p.Backend),
		"-gc=" + string(p.Memory),
		"-opt=" + string(p.Opt),
		"-cache-dir=" + WorkDir(cfg.Dir, ResourceKey(p)),
		filepath.Join(cfg.Dir, p.Test),
	}, " ")
}

// ResourceKey derives the shared-resource key for p. Profiles agreeing on
// backend and memory strategy share one build cache, which keeps disk
// usage bounded; their runs must therefore never overlap.
func ResourceKey(p matrix.Profile) string {
	return string(p.Backend) + "-" + string(p.Memory)
}

// WorkDir is the cache directory for one resource key.
func WorkDir(root, key string) string {
	return filepath.Join(root, ".tmx-cache", key)
}

// EnsureWorkDirs creates the cache directory for every key before any
// worker starts.
func EnsureWorkDirs(root string, keys []string) error {
	for _, key := range keys {
		if err := os.MkdirAll(WorkDir(root, key), 0o755); err != nil {
			return fmt.Errorf("creating work dir for %s: %w", key, err)
		}
	}
	return nil
}

// RemoveWorkDirs deletes the whole cache tree. Only called after every
// worker has finished.
func RemoveWorkDirs(root string) error {
	return os.RemoveAll(filepath.Join(root, ".tmx-cache"))
}
