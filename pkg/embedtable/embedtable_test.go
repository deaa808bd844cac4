package embedtable

import (
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xll-gen/embed-gen/internal/testfs"
)

func sample(calls *int32) *Table {
	return New("Assets", func() map[string]string {
		atomic.AddInt32(calls, 1)
		return map[string]string{
			"a.txt":     "hello",
			"sub/b.txt": "world",
		}
	})
}

func TestTable_Lazy(t *testing.T) {
	var calls int32
	tbl := sample(&calls)

	assert.Equal(t, "Assets", tbl.Name())
	assert.Zero(t, atomic.LoadInt32(&calls), "build ran before first access")

	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Has("a.txt"))
	_, _ = tbl.Get("sub/b.txt")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTable_ConcurrentFirstAccess(t *testing.T) {
	var calls int32
	tbl := sample(&calls)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok := tbl.String("a.txt")
			assert.True(t, ok)
			assert.Equal(t, "hello", v)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTable_GetReturnsCopy(t *testing.T) {
	var calls int32
	tbl := sample(&calls)

	b, ok := tbl.Get("a.txt")
	require.True(t, ok)
	b[0] = 'J'

	again, _ := tbl.Get("a.txt")
	assert.Equal(t, []byte("hello"), again)

	m := tbl.Map()
	m["a.txt"][0] = 'X'
	delete(m, "sub/b.txt")
	assert.Equal(t, 2, tbl.Len())
	s, _ := tbl.String("a.txt")
	assert.Equal(t, "hello", s)
}

func TestTable_MissingKey(t *testing.T) {
	var calls int32
	tbl := sample(&calls)

	b, ok := tbl.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, b)
	assert.False(t, tbl.Has("sub"), "directories are never keys")
}

func TestTable_KeysAndWalk(t *testing.T) {
	var calls int32
	tbl := sample(&calls)

	keys := tbl.Keys()
	assert.Equal(t, []string{"a.txt", "sub/b.txt"}, keys)
	keys[0] = "mutated"
	assert.Equal(t, "a.txt", tbl.Keys()[0])

	var visited []string
	tbl.Walk(func(key, content string) bool {
		visited = append(visited, key+"="+content)
		return false
	})
	assert.Equal(t, []string{"a.txt=hello"}, visited)
}

func TestTable_NilBuild(t *testing.T) {
	tbl := New("Empty", func() map[string]string { return nil })
	assert.Zero(t, tbl.Len())
	assert.Empty(t, tbl.Keys())
}

func TestTable_FS(t *testing.T) {
	tbl := New("Mixed", func() map[string]string {
		return map[string]string{
			"a.txt":            "hello",
			`win\style.txt`:    "backslash",
			"sub/deeper/c.txt": "c",
		}
	})

	afs, err := tbl.FS()
	require.NoError(t, err)

	data, err := afero.ReadFile(afs, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = afero.ReadFile(afs, "win/style.txt")
	require.NoError(t, err)
	assert.Equal(t, "backslash", string(data))

	err = afero.WriteFile(afs, "new.txt", []byte("x"), 0644)
	assert.Error(t, err, "filesystem view must be read-only")

	iofs, err := tbl.IOFS()
	require.NoError(t, err)
	got, err := fs.ReadFile(iofs, "sub/deeper/c.txt")
	require.NoError(t, err)
	assert.Equal(t, "c", string(got))
}

func TestFromDir(t *testing.T) {
	fsys := testfs.Tree(t, "/site", map[string]string{
		"index.html":  "<h1>hi</h1>",
		"css/app.css": "body{}",
		"img/":        "",
	})

	tbl, err := FromDir("Site", fsys, "/site")
	require.NoError(t, err)
	assert.Equal(t, []string{"css/app.css", "index.html"}, tbl.Keys())

	s, ok := tbl.String("css/app.css")
	require.True(t, ok)
	assert.Equal(t, "body{}", s)
}

func TestFromDir_MissingRoot(t *testing.T) {
	_, err := FromDir("Nope", afero.NewMemMapFs(), "/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/missing")
}
