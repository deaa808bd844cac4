// Package testfs provides in-memory filesystems for tests, including one
// that fails on chosen paths.
package testfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// Faulty wraps an afero.Fs and fails Open, Stat or directory listing for
// selected paths.
type Faulty struct {
	afero.Fs
	// OpenErr maps a cleaned path to the error Open returns for it.
	OpenErr map[string]error
	// StatErr maps a cleaned path to the error Stat returns for it.
	StatErr map[string]error
	// ListErr maps a cleaned directory path to an error Readdirnames
	// returns alongside the names it did list.
	ListErr map[string]error
}

// NewFaulty wraps fsys with no failures configured.
func NewFaulty(fsys afero.Fs) *Faulty {
	return &Faulty{
		Fs:      fsys,
		OpenErr: make(map[string]error),
		StatErr: make(map[string]error),
		ListErr: make(map[string]error),
	}
}

func (f *Faulty) Open(name string) (afero.File, error) {
	if err, ok := f.OpenErr[filepath.Clean(name)]; ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	file, err := f.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	if listErr, ok := f.ListErr[filepath.Clean(name)]; ok {
		return &partialDir{File: file, err: listErr}, nil
	}
	return file, nil
}

// partialDir lists its names normally and then reports err with them.
type partialDir struct {
	afero.File
	err error
}

func (d *partialDir) Readdirnames(n int) ([]string, error) {
	names, err := d.File.Readdirnames(n)
	if err != nil {
		return names, err
	}
	return names, &os.PathError{Op: "readdirent", Path: d.Name(), Err: d.err}
}

func (f *Faulty) Stat(name string) (os.FileInfo, error) {
	if err, ok := f.StatErr[filepath.Clean(name)]; ok {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	return f.Fs.Stat(name)
}

func (f *Faulty) Name() string { return "Faulty" }

// Tree creates files under root in a fresh MemMapFs. Keys are slash
// separated paths relative to root; a key ending in "/" creates an empty
// directory.
func Tree(t testing.TB, root string, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if name[len(name)-1] == '/' {
			if err := fsys.MkdirAll(p, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := fsys.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fsys, p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys
}
