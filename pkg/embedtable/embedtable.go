// Package embedtable is the runtime side of embed-gen. A generated file
// declares one package-level *Table whose content is built the first time
// any accessor is called and shared read-only afterwards.
//
//	var Assets = embedtable.New("Assets", func() map[string]string {
//		return map[string]string{
//			"index.html": "<html>...",
//		}
//	})
//
//	data, ok := Assets.Get("index.html")
package embedtable

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Table is a process-wide, lazily initialized, read-only mapping from a
// file's relative path to its content.
type Table struct {
	name  string
	build func() map[string]string

	once sync.Once
	data map[string]string
	keys []string

	fsOnce sync.Once
	fs     afero.Fs
	fsErr  error
}

// New declares a table. build runs at most once, on first access.
func New(name string, build func() map[string]string) *Table {
	return &Table{name: name, build: build}
}

func (t *Table) init() {
	t.once.Do(func() {
		data := t.build()
		if data == nil {
			data = map[string]string{}
		}
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		t.data = data
		t.keys = keys
		t.build = nil
	})
}

// Name returns the identifier the table was declared under.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of files in the table.
func (t *Table) Len() int {
	t.init()
	return len(t.data)
}

// Keys returns every key in lexical order.
func (t *Table) Keys() []string {
	t.init()
	return append([]string(nil), t.keys...)
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	t.init()
	_, ok := t.data[key]
	return ok
}

// Get returns a copy of the content stored under key.
func (t *Table) Get(key string) ([]byte, bool) {
	t.init()
	s, ok := t.data[key]
	if !ok {
		return nil, false
	}
	return []byte(s), true
}

// String returns the content stored under key without copying.
func (t *Table) String(key string) (string, bool) {
	t.init()
	s, ok := t.data[key]
	return s, ok
}

// Map returns a fresh copy of the whole table.
func (t *Table) Map() map[string][]byte {
	t.init()
	m := make(map[string][]byte, len(t.data))
	for k, v := range t.data {
		m[k] = []byte(v)
	}
	return m
}

// Walk calls fn for every entry in key order until fn returns false.
func (t *Table) Walk(fn func(key, content string) bool) {
	t.init()
	for _, k := range t.keys {
		if !fn(k, t.data[k]) {
			return
		}
	}
}

// FS returns a read-only in-memory filesystem holding the table's files,
// with each key used as a path relative to the filesystem root. Keys
// rendered with either separator become nested directories.
func (t *Table) FS() (afero.Fs, error) {
	t.fsOnce.Do(func() {
		t.init()
		mem := afero.NewMemMapFs()
		for _, k := range t.keys {
			name := filepath.FromSlash(strings.TrimPrefix(toSlash(k), "/"))
			if dir := filepath.Dir(name); dir != "." {
				if err := mem.MkdirAll(dir, 0755); err != nil {
					t.fsErr = err
					return
				}
			}
			if err := afero.WriteFile(mem, name, []byte(t.data[k]), 0644); err != nil {
				t.fsErr = err
				return
			}
		}
		t.fs = afero.NewReadOnlyFs(mem)
	})
	return t.fs, t.fsErr
}

// IOFS returns the table as an io/fs.FS, for use with http.FS,
// template.ParseFS and similar.
func (t *Table) IOFS() (fs.FS, error) {
	afs, err := t.FS()
	if err != nil {
		return nil, err
	}
	return afero.NewIOFS(afs), nil
}

func toSlash(key string) string {
	return strings.ReplaceAll(key, `\`, "/")
}
