package embedtable

import (
	"github.com/spf13/afero"

	"github.com/xll-gen/embed-gen/internal/table"
)

// FromDir builds a table from a directory at call time instead of from
// generated code. Keys always use '/'. Errors below the root drop the
// affected files; a root that cannot be listed is returned as an error.
func FromDir(name string, fsys afero.Fs, root string) (*Table, error) {
	tbl, err := table.Build(fsys, root, table.Options{NormalizeSeparators: true})
	if err != nil {
		return nil, err
	}
	content, err := tbl.Load(fsys)
	if err != nil {
		return nil, err
	}

	data := make(map[string]string, len(content))
	for k, v := range content {
		data[k] = string(v)
	}
	return New(name, func() map[string]string { return data }), nil
}
