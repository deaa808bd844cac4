package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/afero"

	"github.com/xll-gen/embed-gen/internal/templates"
)

// renderTemplate loads a template, executes it with the provided funcMap and
// returns the result formatted as Go source.
func renderTemplate(tmplName string, data interface{}, funcMap template.FuncMap) ([]byte, error) {
	tmplContent, err := templates.Get(tmplName)
	if err != nil {
		return nil, err
	}

	// If funcMap is nil, use empty map
	if funcMap == nil {
		funcMap = template.FuncMap{}
	}

	t, err := template.New(tmplName).Funcs(funcMap).Parse(tmplContent)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated source does not parse: %w", err)
	}
	return src, nil
}

// writeFileIfDifferent writes data to path unless the file already holds
// exactly data. It reports whether a write happened.
func writeFileIfDifferent(fsys afero.Fs, path string, data []byte) (bool, error) {
	existing, err := afero.ReadFile(fsys, path)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return false, err
		}
	}
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return false, err
	}
	return true, nil
}
