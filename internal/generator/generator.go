package generator

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/xll-gen/embed-gen/internal/config"
	"github.com/xll-gen/embed-gen/internal/table"
)

// Options contains optional flags for the code generation process.
type Options struct {
	// Fs is the filesystem tables are read from and outputs written to.
	// Defaults to the host filesystem.
	Fs afero.Fs
	// DryRun renders every output without writing it.
	DryRun bool
	// OnSkip is called for every entry dropped because of a filesystem
	// error below a table's root. Defaults to a slog warning.
	OnSkip func(table, path string, err error)
}

func (o Options) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

func (o Options) skipper(name string) func(string, error) {
	if o.OnSkip != nil {
		return func(path string, err error) { o.OnSkip(name, path, err) }
	}
	return func(path string, err error) {
		slog.Warn("skipped entry", "table", name, "path", path, "error", err)
	}
}

// Result describes one generated file.
type Result struct {
	// Output is the path of the generated file.
	Output string
	// Tables lists the table names declared in the file.
	Tables []string
	// Files is the total number of embedded files.
	Files int
	// Bytes is the total size of the embedded content.
	Bytes int64
	// Written is false when the file already had the same content or
	// DryRun was set.
	Written bool
	// Source is the formatted Go source.
	Source []byte
}

// tableData is the per-table input of table.go.tmpl.
type tableData struct {
	Name     string
	Dir      string
	Encoding string
	Entries  []entryData
}

type entryData struct {
	Key     string
	Content []byte
}

// fileData is the input of table.go.tmpl.
type fileData struct {
	Package string
	Tables  []tableData
}

// Generate orchestrates the code generation process.
// It builds every configured table, groups tables by output file, renders
// each file from table.go.tmpl and writes it if its content changed.
//
// Parameters:
//   - cfg: The configuration parsed from embed.yaml.
//   - opts: Additional generation options.
//
// Returns:
//   - []Result: One entry per output file, in configuration order.
//   - error: The first error encountered. A table root that cannot be
//     listed aborts generation before any file is written.
func Generate(cfg *config.Config, opts Options) ([]Result, error) {
	fsys := opts.fs()

	outputs := outputSet(cfg)

	var order []string
	files := make(map[string]*fileData)

	for _, tc := range cfg.Tables {
		out := cfg.Resolve(tc.Output)
		fd, ok := files[out]
		if !ok {
			fd = &fileData{Package: tc.Package}
			files[out] = fd
			order = append(order, out)
		}

		td, err := buildTable(fsys, cfg, tc, outputs, opts)
		if err != nil {
			return nil, err
		}
		fd.Tables = append(fd.Tables, *td)
	}

	results := make([]Result, 0, len(order))
	for _, out := range order {
		fd := files[out]

		src, err := renderTemplate("table.go.tmpl", fd, GetCommonFuncMap())
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", out, err)
		}

		res := Result{Output: out, Source: src}
		for _, td := range fd.Tables {
			res.Tables = append(res.Tables, td.Name)
			res.Files += len(td.Entries)
			for _, e := range td.Entries {
				res.Bytes += int64(len(e.Content))
			}
		}

		if !opts.DryRun {
			written, err := writeFileIfDifferent(fsys, out, src)
			if err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", out, err)
			}
			res.Written = written
		}

		slog.Debug("generated", "output", out, "tables", res.Tables, "files", res.Files, "written", res.Written)
		results = append(results, res)
	}

	return results, nil
}

// outputSet returns the absolute paths of every configured output.
// Outputs are never embedded, or a second run would differ from the first.
func outputSet(cfg *config.Config) map[string]bool {
	outputs := make(map[string]bool)
	for _, tc := range cfg.Tables {
		if abs, err := filepath.Abs(cfg.Resolve(tc.Output)); err == nil {
			outputs[abs] = true
		}
	}
	return outputs
}

// walkTable walks one table's root and drops any generated output found
// below it. Generate and BuildManifest both go through here so they agree
// on what is embedded.
func walkTable(fsys afero.Fs, cfg *config.Config, tc config.Table, outputs map[string]bool, opts Options) (*table.Table, error) {
	tbl, err := table.Build(fsys, cfg.Resolve(tc.Dir), table.Options{
		NormalizeSeparators: tc.Normalize(),
		OnSkip:              opts.skipper(tc.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", tc.Name, err)
	}

	kept := tbl.Entries[:0]
	for _, e := range tbl.Entries {
		if outputs[e.AbsPath] {
			slog.Debug("not embedding generated output", "table", tc.Name, "path", e.Path)
			continue
		}
		kept = append(kept, e)
	}
	tbl.Entries = kept
	return tbl, nil
}

// buildTable walks one table's root and loads every file's content.
func buildTable(fsys afero.Fs, cfg *config.Config, tc config.Table, outputs map[string]bool, opts Options) (*tableData, error) {
	tbl, err := walkTable(fsys, cfg, tc, outputs, opts)
	if err != nil {
		return nil, err
	}

	content, err := tbl.Load(fsys)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", tc.Name, err)
	}

	td := &tableData{
		Name:     tc.Name,
		Dir:      filepath.ToSlash(tc.Dir),
		Encoding: tc.Encoding,
		Entries:  make([]entryData, 0, tbl.Len()),
	}
	for _, e := range tbl.Entries {
		td.Entries = append(td.Entries, entryData{Key: e.Key, Content: content[e.Key]})
	}

	slog.Debug("built table", "table", tc.Name, "root", tbl.Root, "files", tbl.Len())
	return td, nil
}
