// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  []string // base names, order-independent
	}{
		{
			name: "filters by supported extensions",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				touch(t, dir, "flow.vsd")
				touch(t, dir, "network.vsdx")
				touch(t, dir, "macro.vsdm")
				touch(t, dir, "web.vdw")
				touch(t, dir, "notes.txt")
				touch(t, dir, "legacy.vdx")
				return dir
			},
			want: []string{"flow.vsd", "network.vsdx", "macro.vsdm", "web.vdw"},
		},
		{
			name: "extension match is case-insensitive",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				touch(t, dir, "UPPER.VSDX")
				touch(t, dir, "Mixed.Vsd")
				return dir
			},
			want: []string{"UPPER.VSDX", "Mixed.Vsd"},
		},
		{
			name: "skips subdirectories even with matching names",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.vsdx"), 0o755))
				touch(t, dir, "real.vsdx")
				return dir
			},
			want: []string{"real.vsdx"},
		},
		{
			name: "empty directory yields empty result",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := List(dir)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, baseNames(got))
		})
	}
}

func TestListMissingDirectory(t *testing.T) {
	_, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading input directory")
}

func TestListIdempotent(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.vsd")
	touch(t, dir, "b.vsdx")
	touch(t, dir, "c.pdf")

	first, err := List(dir)
	require.NoError(t, err)
	second, err := List(dir)
	require.NoError(t, err)

	sort.Strings(first)
	sort.Strings(second)
	assert.Equal(t, first, second)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("x.vsd"))
	assert.True(t, Supported("x.VSDM"))
	assert.False(t, Supported("x.vdx"))
	assert.False(t, Supported("x"))
}

func baseNames(paths []string) []string {
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return names
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}
