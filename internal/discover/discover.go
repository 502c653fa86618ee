// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover lists candidate Visio drawing files in the input directory.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// supported maps lowercase extensions to the backend family handling them.
var supported = map[string]bool{
	".vsd":  true,
	".vsdx": true,
	".vsdm": true,
	".vdw":  true,
}

// Supported reports whether a path carries one of the four handled
// extensions (case-insensitive).
func Supported(path string) bool {
	return supported[strings.ToLower(filepath.Ext(path))]
}

// List returns the regular files in dir whose extension is supported, in
// directory-listing order. Ordering is not stable across platforms; callers
// must treat it as display order only. An empty result is normal.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}
