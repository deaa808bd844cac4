// Package table builds the embedding table for a directory: one entry per
// regular file, keyed by its path relative to the root.
package table

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/xll-gen/embed-gen/internal/walker"
)

// Entry is one file scheduled for embedding.
type Entry struct {
	// Key is the path relative to the root.
	Key string
	// Path is the path the walker discovered the file at.
	Path string
	// AbsPath is the absolute path the content must be captured from.
	AbsPath string
	// Size is the file size observed during traversal.
	Size int64
}

// Table is the build-time form of an embedding table. Entries are sorted
// by key.
type Table struct {
	Root    string
	Entries []Entry
}

// Options tunes how a table is built.
type Options struct {
	// NormalizeSeparators renders keys with '/' regardless of the host.
	// When false keys use the host separator.
	NormalizeSeparators bool
	// OnSkip, when set, is called for every entry dropped because of a
	// filesystem error below the root. The build continues either way.
	OnSkip func(path string, err error)
}

// Build walks root and collects every regular file below it.
//
// A root that cannot be listed aborts the build with a *walker.RootError.
// Errors on individual entries below the root are not returned: the entry
// (and its subtree, for a directory) is left out of the table. A file
// whose path cannot be made relative to the root returns a *PathError.
func Build(fsys afero.Fs, root string, opts Options) (*Table, error) {
	w, err := walker.New(fsys, root)
	if err != nil {
		return nil, err
	}

	t := &Table{Root: root}
	seen := make(map[string]string)

	for entry, err := range w.All() {
		if err != nil {
			if opts.OnSkip != nil {
				opts.OnSkip(skippedPath(err), err)
			}
			continue
		}
		if !entry.IsRegular() {
			continue
		}

		key, err := relativeKey(root, entry.Path, opts.NormalizeSeparators)
		if err != nil {
			return nil, err
		}

		if prev, dup := seen[key]; dup {
			return nil, &DuplicateKeyError{Key: key, First: prev, Second: entry.Path}
		}
		seen[key] = entry.Path

		abs, err := filepath.Abs(entry.Path)
		if err != nil {
			return nil, &PathError{Root: root, Path: entry.Path, Err: err}
		}

		t.Entries = append(t.Entries, Entry{
			Key:     key,
			Path:    entry.Path,
			AbsPath: abs,
			Size:    entry.Info.Size(),
		})
	}

	sort.Slice(t.Entries, func(i, j int) bool {
		return t.Entries[i].Key < t.Entries[j].Key
	})
	return t, nil
}

// Keys returns the table's keys in order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.Entries)
}

// Load reads the full content of every entry from fsys. The files must
// still exist; a file that disappeared since Build is an error.
func (t *Table) Load(fsys afero.Fs) (map[string][]byte, error) {
	m := make(map[string][]byte, len(t.Entries))
	for _, e := range t.Entries {
		content, err := afero.ReadFile(fsys, e.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Path, err)
		}
		m[e.Key] = content
	}
	return m, nil
}

func relativeKey(root, path string, normalize bool) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", &PathError{Root: root, Path: path, Err: err}
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &PathError{Root: root, Path: path, Err: errOutsideRoot}
	}
	if normalize {
		rel = filepath.ToSlash(rel)
	}
	return rel, nil
}

func skippedPath(err error) string {
	var entryErr *walker.EntryError
	if errors.As(err, &entryErr) {
		return entryErr.Path
	}
	return ""
}
