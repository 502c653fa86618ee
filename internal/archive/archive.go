// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive relocates processed originals and generates
// collision-free destination names.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// UniquePath returns path if nothing exists there, otherwise the first
// unused variant with a numeric suffix before the extension: name_1.ext,
// name_2.ext, and so on. Probing is sequential and race-free only with
// respect to this process.
func UniquePath(path string) string {
	if _, err := os.Lstat(path); err != nil {
		return path
	}

	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, counter, ext))
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}

// Move relocates src to dst. It prefers rename; across filesystems it
// copies to a temporary name in the destination directory, renames into
// place, and only then removes the source, so dst is never half-written
// and src survives any failure.
func Move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", dst, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
