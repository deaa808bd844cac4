package generator

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/xll-gen/embed-gen/internal/config"
)

// Manifest lists, for every configured table, the files a build pipeline
// must capture: the key each file is stored under and the absolute path
// its bytes are read from.
type Manifest struct {
	Tables []ManifestTable `json:"tables"`
}

// ManifestTable is one table's part of a Manifest.
type ManifestTable struct {
	Name string `json:"name"`
	// Dir is the root as configured.
	Dir  string `json:"dir"`
	// Root is the absolute root.
	Root string `json:"root"`

	Files []ManifestFile `json:"files"`
}

// ManifestFile is one file to embed.
type ManifestFile struct {
	Key  string `json:"key"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// EmbedCfg is the JSON shape the Go compiler accepts via -embedcfg.
type EmbedCfg struct {
	Patterns map[string][]string
	Files    map[string]string
}

// BuildManifest walks every configured table without reading file content.
// It lists exactly the files Generate embeds; errors follow the same rules.
func BuildManifest(cfg *config.Config, opts Options) (*Manifest, error) {
	fsys := opts.fs()
	outputs := outputSet(cfg)
	m := &Manifest{Tables: make([]ManifestTable, 0, len(cfg.Tables))}

	for _, tc := range cfg.Tables {
		tbl, err := walkTable(fsys, cfg, tc, outputs, opts)
		if err != nil {
			return nil, err
		}

		absRoot, err := filepath.Abs(tbl.Root)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", tc.Name, err)
		}

		mt := ManifestTable{Name: tc.Name, Dir: tc.Dir, Root: absRoot, Files: make([]ManifestFile, 0, tbl.Len())}
		for _, e := range tbl.Entries {
			mt.Files = append(mt.Files, ManifestFile{Key: e.Key, Path: e.AbsPath, Size: e.Size})
		}
		m.Tables = append(m.Tables, mt)
	}

	return m, nil
}

// EmbedCfg converts the manifest to the compiler's embedcfg format. Each
// table root becomes a pattern and each file is named root/key.
func (m *Manifest) EmbedCfg() *EmbedCfg {
	ec := &EmbedCfg{
		Patterns: make(map[string][]string),
		Files:    make(map[string]string),
	}
	for _, mt := range m.Tables {
		pattern := path.Clean(filepath.ToSlash(mt.Dir))
		names := make([]string, 0, len(mt.Files))
		for _, f := range mt.Files {
			name := path.Join(pattern, filepath.ToSlash(f.Key))
			names = append(names, name)
			ec.Files[name] = f.Path
		}
		ec.Patterns[pattern] = append(ec.Patterns[pattern], names...)
	}
	return ec
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
