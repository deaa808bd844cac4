package walker

import "fmt"

// RootError reports that the root directory could not be listed.
// It aborts the whole traversal.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("cannot list root directory %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error { return e.Err }

// EntryError reports a failure on a single entry below the root.
// The traversal continues past it.
type EntryError struct {
	// Op is "stat" or "readdir".
	Op   string
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }
