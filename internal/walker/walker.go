// Package walker enumerates every filesystem entry reachable from a root
// directory without recursion.
//
// Traversal is depth-first using an explicit stack: the children of a
// directory are pushed in listing order and popped last-in-first-out, so
// the most recently discovered subtree is visited first. Sibling order is
// whatever the filesystem returns and must not be relied upon.
//
// Stat follows symbolic links. A link that points back at one of its
// ancestors makes the traversal run until the filesystem gives up.
package walker

import (
	"iter"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Entry is a single filesystem node discovered during traversal.
type Entry struct {
	// Path is the root joined with the entry's relative components.
	// Symbolic links along it are not resolved.
	Path string
	// Info is the metadata fetched when the entry was popped.
	Info os.FileInfo
}

// Result is one step of a traversal: either an Entry or the error that
// prevented it from being produced.
type Result struct {
	Entry Entry
	Err   error
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Info.IsDir()
}

// IsRegular reports whether the entry is a regular file.
func (e Entry) IsRegular() bool {
	return e.Info.Mode().IsRegular()
}

// Walker holds the pending stack of a single traversal.
// It is not safe for concurrent use.
type Walker struct {
	fs      afero.Fs
	root    string
	pending []string
	// partial holds listings that returned some names and an error.
	// They are reported before the next entry is popped.
	partial []error
}

// New lists the immediate children of root and returns a Walker ready to
// yield them. A root that cannot be listed at all is fatal and is
// reported as a *RootError. A root listing that fails part way keeps the
// names it did return and reports the failure from the first Next.
func New(fsys afero.Fs, root string) (*Walker, error) {
	w := &Walker{fs: fsys, root: root}
	if err := w.readDir(root); err != nil {
		return nil, &RootError{Root: root, Err: err}
	}
	return w, nil
}

// Root returns the directory the traversal started from.
func (w *Walker) Root() string {
	return w.root
}

// Pending returns the number of entries not yet visited.
func (w *Walker) Pending() int {
	return len(w.pending) + len(w.partial)
}

// Next pops one pending entry.
//
// If its metadata cannot be read, the returned Result carries the error
// and nothing below the entry is visited. A directory is listed before it
// is returned; if listing fails the error is returned in place of the
// directory. A listing that fails after returning some names yields the
// directory, then an *EntryError, and still visits the names it got.
// ok is false once the stack is empty.
func (w *Walker) Next() (res Result, ok bool) {
	if len(w.partial) > 0 {
		err := w.partial[0]
		w.partial = w.partial[1:]
		return Result{Err: err}, true
	}

	n := len(w.pending)
	if n == 0 {
		return Result{}, false
	}
	path := w.pending[n-1]
	w.pending = w.pending[:n-1]

	info, err := w.fs.Stat(path)
	if err != nil {
		return Result{Err: &EntryError{Op: "stat", Path: path, Err: err}}, true
	}

	if info.IsDir() {
		if err := w.readDir(path); err != nil {
			return Result{Err: &EntryError{Op: "readdir", Path: path, Err: err}}, true
		}
	}

	return Result{Entry: Entry{Path: path, Info: info}}, true
}

// All adapts the walker to a range-over-func sequence. Breaking out of the
// loop leaves the remaining entries on the stack.
func (w *Walker) All() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for {
			res, ok := w.Next()
			if !ok {
				return
			}
			if !yield(res.Entry, res.Err) {
				return
			}
		}
	}
}

// readDir pushes the children of dir onto the pending stack in listing
// order. Names that do not resolve to a child are dropped. An error is
// returned only when nothing could be listed.
func (w *Walker) readDir(dir string) error {
	f, err := w.fs.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		if len(names) == 0 {
			return err
		}
		w.partial = append(w.partial, &EntryError{Op: "readdir", Path: dir, Err: err})
	}

	for _, name := range names {
		if name == "" || name == "." || name == ".." {
			continue
		}
		w.pending = append(w.pending, filepath.Join(dir, name))
	}
	return nil
}
