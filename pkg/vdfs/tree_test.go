// SPDX-License-Identifier: MPL-2.0

package vdfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdfpack/vdfpack/internal/testutil"
)

func childNames(n *Node) []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

func TestBuildTree_SortsDirectoriesFirstCaseInsensitive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"b.txt":        "b",
		"A.txt":        "a",
		"Zeta/z.txt":   "z",
		"alpha/x.txt":  "x",
		"Beta/":        "",
		"c.TXT":        "c",
		"alpha/Inner/": "",
	})

	tree, err := BuildTree(root)
	require.NoError(t, err)

	assert.True(t, tree.IsDir())
	assert.Equal(t, 0, tree.Depth)
	assert.Equal(t, []string{"alpha", "Beta", "Zeta", "A.txt", "b.txt", "c.TXT"}, childNames(tree))

	alpha := tree.Children[0]
	assert.Equal(t, []string{"Inner", "x.txt"}, childNames(alpha))
	assert.Equal(t, 2, alpha.Children[0].Depth)
	assert.Equal(t, filepath.Join(root, "alpha", "x.txt"), alpha.Children[1].Path)
}

func TestBuildTree_LastSiblingMarking(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"d1/f1":   "1",
		"d1/f2":   "2",
		"d2/":     "",
		"f3":      "3",
		"d1/sub/": "",
	})

	tree, err := BuildTree(root)
	require.NoError(t, err)

	tree.Walk(func(n *Node) {
		if len(n.Children) == 0 {
			return
		}
		last := 0
		for i, c := range n.Children {
			if c.IsLast {
				last++
				assert.Equal(t, len(n.Children)-1, i, "last flag on %s must be on the final sibling", c.Path)
			}
		}
		assert.Equal(t, 1, last, "sibling group under %s", n.Path)
	})
	assert.False(t, tree.IsLast, "root has no siblings")
}

func TestBuildTree_FileRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := filepath.Join(root, "single.bin")
	testutil.MustWriteFile(t, file, "data")

	t.Run("unfiltered yields a bare file", func(t *testing.T) {
		t.Parallel()

		n, err := BuildTree(file)
		require.NoError(t, err)
		assert.Equal(t, KindFile, n.Kind)
		assert.Equal(t, "single.bin", n.Name)
		assert.Empty(t, n.Children)
	})

	t.Run("filtered rejects non-directory", func(t *testing.T) {
		t.Parallel()

		_, err := BuildTree(file, WithFilter(DepthFilter{{"single.bin"}}))
		require.ErrorIs(t, err, ErrRootNotDirectory)
	})
}

func TestBuildTree_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := BuildTree(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDepthFilter_Accepts(t *testing.T) {
	t.Parallel()

	f := DepthFilter{
		{"Textures", "_compiled", "wall.tex"},
		{"sound", "a.wav"},
	}

	tests := []struct {
		name  string
		node  string
		depth int
		want  bool
	}{
		{name: "root always accepted", node: "anything", depth: 0, want: true},
		{name: "first level exact", node: "Textures", depth: 1, want: true},
		{name: "first level case-insensitive", node: "TEXTURES", depth: 1, want: true},
		{name: "first level other pattern", node: "Sound", depth: 1, want: true},
		{name: "first level rejected", node: "music", depth: 1, want: false},
		{name: "second level", node: "_COMPILED", depth: 2, want: true},
		{name: "component matched at its own depth only", node: "_compiled", depth: 1, want: false},
		{name: "deeper than any pattern", node: "wall.tex", depth: 4, want: false},
		{name: "third level", node: "Wall.TEX", depth: 3, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, f.Accepts(tt.node, tt.depth))
		})
	}
}

func TestBuildTree_Filtered(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"Data/keep.txt":       "k",
		"Data/drop.txt":       "d",
		"Data/Sub/deep.txt":   "x",
		"Other/keep.txt":      "o",
		"Matched/nothing.bin": "n",
		"top.txt":             "t",
	})

	filter := DepthFilter{
		{"data", "KEEP.TXT"},
		{"matched"},
		{"TOP.txt"},
	}
	tree, err := BuildTree(root, WithFilter(filter))
	require.NoError(t, err)

	assert.Equal(t, []string{"Data", "Matched", "top.txt"}, childNames(tree))

	data := tree.Children[0]
	assert.Equal(t, []string{"keep.txt"}, childNames(data))
	assert.True(t, data.Children[0].IsLast)

	matched := tree.Children[1]
	assert.True(t, matched.IsDir())
	assert.Empty(t, matched.Children, "directory matched by its own component stays as an empty container")
}

func TestBuildTree_NilFilterAcceptsNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a.txt": "a"})

	tree, err := BuildTree(root, WithFilter(nil))
	require.NoError(t, err)
	assert.Empty(t, tree.Children)
}

func TestBuildTree_SkipsUnreadableDirectory(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"locked/secret.txt": "s",
		"open/file.txt":     "f",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	tree, err := BuildTree(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"open"}, childNames(tree))
}

func TestBuildTree_Exclude(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"DEFAULT.VDF":      "old volume",
		"data/a.txt":       "a",
		"data/DEFAULT.VDF": "nested, kept",
	})

	tree, err := BuildTree(root, WithExclude(filepath.Join(root, "DEFAULT.VDF")))
	require.NoError(t, err)
	assert.Equal(t, []string{"data"}, childNames(tree))
	assert.Equal(t, []string{"a.txt", "DEFAULT.VDF"}, childNames(tree.Children[0]))
	assert.True(t, tree.Children[0].IsLast)
}

func TestBuildTree_KeepsFileWithUnreadableMetadata(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a.txt": "a"})
	if err := os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "b.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	tree, err := BuildTree(root)
	require.NoError(t, err)
	require.Equal(t, []string{"a.txt", "b.txt"}, childNames(tree))
	assert.Equal(t, KindFile, tree.Children[1].Kind)
	assert.True(t, tree.Children[1].IsLast)
}
