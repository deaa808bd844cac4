package walker

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xll-gen/embed-gen/internal/testfs"
)

func collect(t *testing.T, w *Walker) (paths []string, errs []error) {
	t.Helper()
	for entry, err := range w.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, entry.Path)
	}
	return paths, errs
}

func TestWalker_VisitsEveryEntry(t *testing.T) {
	root := "/data"
	fsys := testfs.Tree(t, root, map[string]string{
		"a.txt":       "hello",
		"sub/b.txt":   "world",
		"sub/deep/c":  "!",
		"empty/":      "",
		"z/y/x/w.bin": "\x00\x01",
	})

	w, err := New(fsys, root)
	require.NoError(t, err)

	paths, errs := collect(t, w)
	require.Empty(t, errs)

	sort.Strings(paths)
	want := []string{
		"a.txt", "empty", "sub", "sub/b.txt", "sub/deep", "sub/deep/c",
		"z", "z/y", "z/y/x", "z/y/x/w.bin",
	}
	for i := range want {
		want[i] = filepath.Join(root, filepath.FromSlash(want[i]))
	}
	assert.Equal(t, want, paths)
	assert.Zero(t, w.Pending())
}

func TestWalker_DepthFirst(t *testing.T) {
	root := "/data"
	fsys := testfs.Tree(t, root, map[string]string{
		"a/1": "", "a/2": "", "a/x/3": "",
		"b/4": "", "b/5": "",
		"c": "",
	})

	w, err := New(fsys, root)
	require.NoError(t, err)
	paths, errs := collect(t, w)
	require.Empty(t, errs)

	// Once a directory has been yielded, everything until its last
	// descendant must be inside it.
	for i, p := range paths {
		prefix := p + string(filepath.Separator)
		j := i + 1
		for j < len(paths) && strings.HasPrefix(paths[j], prefix) {
			j++
		}
		for _, later := range paths[j:] {
			assert.False(t, strings.HasPrefix(later, prefix),
				"%s visited after leaving %s", later, p)
		}
	}
}

func TestWalker_LastListedFirst(t *testing.T) {
	root := "/data"
	fsys := testfs.Tree(t, root, map[string]string{"a": "", "b": "", "c": ""})

	f, err := fsys.Open(root)
	require.NoError(t, err)
	names, err := f.Readdirnames(-1)
	require.NoError(t, err)
	f.Close()

	w, err := New(fsys, root)
	require.NoError(t, err)
	paths, _ := collect(t, w)

	require.Len(t, paths, len(names))
	for i, name := range names {
		assert.Equal(t, filepath.Join(root, name), paths[len(paths)-1-i])
	}
}

func TestWalker_EmptyRoot(t *testing.T) {
	fsys := testfs.Tree(t, "/empty", nil)

	w, err := New(fsys, "/empty")
	require.NoError(t, err)

	_, ok := w.Next()
	assert.False(t, ok)
}

func TestWalker_RootErrors(t *testing.T) {
	fsys := testfs.Tree(t, "/data", map[string]string{"file.txt": "x"})

	tests := []struct {
		name string
		root string
	}{
		{name: "missing", root: "/nope"},
		{name: "not a directory", root: "/data/file.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(fsys, tt.root)
			require.Error(t, err)
			assert.Nil(t, w)

			var rootErr *RootError
			require.ErrorAs(t, err, &rootErr)
			assert.Equal(t, tt.root, rootErr.Root)
			assert.Contains(t, err.Error(), tt.root)
		})
	}
}

func TestWalker_RootPermissionDenied(t *testing.T) {
	faulty := testfs.NewFaulty(testfs.Tree(t, "/data", map[string]string{"a": ""}))
	faulty.OpenErr["/data"] = fs.ErrPermission

	_, err := New(faulty, "/data")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestWalker_UnreadableSubdirectory(t *testing.T) {
	faulty := testfs.NewFaulty(testfs.Tree(t, "/data", map[string]string{
		"keep.txt":       "k",
		"locked/hid.txt": "h",
		"open/seen.txt":  "s",
	}))
	locked := filepath.Join("/data", "locked")
	faulty.OpenErr[locked] = fs.ErrPermission

	w, err := New(faulty, "/data")
	require.NoError(t, err)
	paths, errs := collect(t, w)

	require.Len(t, errs, 1)
	var entryErr *EntryError
	require.ErrorAs(t, errs[0], &entryErr)
	assert.Equal(t, "readdir", entryErr.Op)
	assert.Equal(t, locked, entryErr.Path)

	assert.NotContains(t, paths, locked)
	assert.NotContains(t, paths, filepath.Join(locked, "hid.txt"))
	assert.Contains(t, paths, filepath.Join("/data", "keep.txt"))
	assert.Contains(t, paths, filepath.Join("/data", "open", "seen.txt"))
}

func TestWalker_PartialRootListing(t *testing.T) {
	faulty := testfs.NewFaulty(testfs.Tree(t, "/r", map[string]string{
		"a.txt": "a",
		"b.txt": "b",
	}))
	faulty.ListErr["/r"] = errors.New("transient entry error")

	w, err := New(faulty, "/r")
	require.NoError(t, err)
	assert.Equal(t, 3, w.Pending())

	paths, errs := collect(t, w)
	require.Len(t, errs, 1)
	var entryErr *EntryError
	require.ErrorAs(t, errs[0], &entryErr)
	assert.Equal(t, "readdir", entryErr.Op)
	assert.Equal(t, "/r", entryErr.Path)

	sort.Strings(paths)
	assert.Equal(t, []string{filepath.Join("/r", "a.txt"), filepath.Join("/r", "b.txt")}, paths)
}

func TestWalker_PartialSubdirectoryListing(t *testing.T) {
	faulty := testfs.NewFaulty(testfs.Tree(t, "/data", map[string]string{
		"sub/one.txt": "1",
		"top.txt":     "t",
	}))
	sub := filepath.Join("/data", "sub")
	faulty.ListErr[sub] = errors.New("transient entry error")

	w, err := New(faulty, "/data")
	require.NoError(t, err)
	paths, errs := collect(t, w)

	require.Len(t, errs, 1)
	var entryErr *EntryError
	require.ErrorAs(t, errs[0], &entryErr)
	assert.Equal(t, sub, entryErr.Path)
	assert.Contains(t, paths, sub)
	assert.Contains(t, paths, filepath.Join(sub, "one.txt"))
	assert.Contains(t, paths, filepath.Join("/data", "top.txt"))
}

func TestWalker_FailedEmptyRootListing(t *testing.T) {
	faulty := testfs.NewFaulty(testfs.Tree(t, "/r", nil))
	faulty.ListErr["/r"] = errors.New("transient entry error")

	_, err := New(faulty, "/r")
	var rootErr *RootError
	require.ErrorAs(t, err, &rootErr)
}

func TestWalker_StatFailureSkipsSubtree(t *testing.T) {
	faulty := testfs.NewFaulty(testfs.Tree(t, "/data", map[string]string{
		"gone/inner.txt": "x",
		"ok.txt":         "y",
	}))
	gone := filepath.Join("/data", "gone")
	faulty.StatErr[gone] = fs.ErrNotExist

	w, err := New(faulty, "/data")
	require.NoError(t, err)
	paths, errs := collect(t, w)

	require.Len(t, errs, 1)
	var entryErr *EntryError
	require.ErrorAs(t, errs[0], &entryErr)
	assert.Equal(t, "stat", entryErr.Op)
	assert.ErrorIs(t, errs[0], fs.ErrNotExist)

	assert.Equal(t, []string{filepath.Join("/data", "ok.txt")}, paths)
}

func TestWalker_BreakLeavesPending(t *testing.T) {
	fsys := testfs.Tree(t, "/data", map[string]string{"a": "", "b": "", "c": ""})
	w, err := New(fsys, "/data")
	require.NoError(t, err)

	for range w.All() {
		break
	}
	assert.Equal(t, 2, w.Pending())
}

func TestWalker_OsFs(t *testing.T) {
	dir := t.TempDir()
	osfs := afero.NewOsFs()
	require.NoError(t, afero.WriteFile(osfs, filepath.Join(dir, "a.txt"), []byte("hello"), 0644))
	require.NoError(t, osfs.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, afero.WriteFile(osfs, filepath.Join(dir, "sub", "b.txt"), []byte("world"), 0644))

	w, err := New(osfs, dir)
	require.NoError(t, err)
	paths, errs := collect(t, w)
	require.Empty(t, errs)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "sub"),
		filepath.Join(dir, "sub", "b.txt"),
	}, paths)
}
