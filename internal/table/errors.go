package table

import (
	"errors"
	"fmt"
)

var errOutsideRoot = errors.New("path is outside the root")

// PathError reports a discovered file whose path cannot be expressed
// relative to the root. It means the traversal produced a path it should
// not have.
type PathError struct {
	Root string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("cannot make %s relative to %s: %v", e.Path, e.Root, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// DuplicateKeyError reports two discovered paths that render to the same
// key. Keys that differ only in case are distinct and never reported.
type DuplicateKeyError struct {
	Key    string
	First  string
	Second string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %q is produced by both %s and %s", e.Key, e.First, e.Second)
}
