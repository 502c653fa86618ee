// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "foo.vdx")

	// Nothing exists yet: the path comes back untouched.
	assert.Equal(t, target, UniquePath(target))

	// First collision probes to foo_1.vdx, second to foo_2.vdx.
	require.NoError(t, os.WriteFile(target, []byte("a"), 0o644))
	got := UniquePath(target)
	assert.Equal(t, filepath.Join(dir, "foo_1.vdx"), got)

	require.NoError(t, os.WriteFile(got, []byte("b"), 0o644))
	assert.Equal(t, filepath.Join(dir, "foo_2.vdx"), UniquePath(target))
}

func TestUniquePathNoExtension(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "noext")
	require.NoError(t, os.WriteFile(target, []byte("a"), 0o644))
	assert.Equal(t, filepath.Join(dir, "noext_1"), UniquePath(target))
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "drawing.vsd")
	dst := filepath.Join(dir, "archived.vsd")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0o644))

	require.NoError(t, Move(src, dst))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err), "source should be gone after move")
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestMoveMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := Move(filepath.Join(dir, "absent.vsd"), filepath.Join(dir, "dst.vsd"))
	require.Error(t, err)
}

func TestMoveDestinationDirMissing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "drawing.vsd")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0o644))

	err := Move(src, filepath.Join(dir, "no-such-dir", "dst.vsd"))
	require.Error(t, err)

	// Source must survive a failed move.
	_, statErr := os.Stat(src)
	assert.NoError(t, statErr)
}
