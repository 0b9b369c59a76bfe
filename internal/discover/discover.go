// Package discover finds the test files a run schedules over.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Tests walks dir and returns the identifiers of every test file, relative
// to dir, in sorted order. The result is deterministic and finite; the
// scheduler requires nothing else of it.
func Tests(fsys fs.FS, ext string) ([]string, error) {
	var tests []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Cache directories are ours, never test input.
			if d.Name() == ".tmx-cache" {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ext) {
			tests = append(tests, filepath.ToSlash(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering tests: %w", err)
	}
	sort.Strings(tests)
	return tests, nil
}
