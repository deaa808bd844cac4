package config

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "embed.yaml"

// Config represents the top-level configuration structure parsed from embed.yaml.
// It lists the tables to generate and the defaults they share.
type Config struct {
	// Package is the default Go package name for generated files.
	Package string        `yaml:"package"`
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`
	// Tables is the list of embedding tables to generate.
	Tables  []Table       `yaml:"tables"`

	// BaseDir is the directory relative paths are resolved against.
	// It is the directory containing the config file, not read from YAML.
	BaseDir string `yaml:"-"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`
	// Path is the log file path.
	Path string `yaml:"path"`
}

// Table describes one generated table.
type Table struct {
	// Name is the Go identifier the table is declared under.
	Name                string `yaml:"name"`
	// Dir is the root directory whose files are embedded.
	Dir                 string `yaml:"dir"`
	// Output is the generated Go file.
	Output              string `yaml:"output"`
	// Package overrides the top-level package for this table.
	Package             string `yaml:"package"`
	// Encoding selects how bytes are written: "string" or "bytes".
	Encoding            string `yaml:"encoding"`
	// NormalizeSeparators renders keys with '/' on every host.
	// Defaults to true; set to false to keep the host separator.
	NormalizeSeparators *bool  `yaml:"normalize_separators"`
}

// Normalize reports whether keys should use '/' separators.
func (t Table) Normalize() bool {
	return t.NormalizeSeparators == nil || *t.NormalizeSeparators
}

// validEncodings is the set of allowed byte encodings in embed.yaml.
var validEncodings = map[string]bool{
	"string": true,
	"bytes":  true,
}

// Load reads and parses the configuration file at path, applies defaults
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(path)

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve returns p relative to the config's base directory, or p itself
// when it is absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Validate checks the configuration for errors, such as invalid identifiers,
// duplicate names or outputs, and unsupported encodings.
//
// Parameters:
//   - config: The Config object to validate.
//
// Returns:
//   - error: An error if the configuration is invalid, or nil otherwise.
func Validate(config *Config) error {
	if len(config.Tables) == 0 {
		return fmt.Errorf("no tables configured")
	}

	seenNames := make(map[string]bool)
	seenPackages := make(map[string]string)
	for i, tbl := range config.Tables {
		if tbl.Name == "" {
			return fmt.Errorf("table #%d: name cannot be empty", i+1)
		}
		if !isIdentifier(tbl.Name) {
			return fmt.Errorf("table '%s': name must be a valid Go identifier", tbl.Name)
		}
		if tbl.Dir == "" {
			return fmt.Errorf("table '%s': dir cannot be empty", tbl.Name)
		}
		if tbl.Output == "" {
			return fmt.Errorf("table '%s': output cannot be empty", tbl.Name)
		}
		if !strings.HasSuffix(tbl.Output, ".go") {
			return fmt.Errorf("table '%s': output %s must be a .go file", tbl.Name, tbl.Output)
		}
		if tbl.Package == "" {
			return fmt.Errorf("table '%s': package cannot be empty", tbl.Name)
		}
		if !isIdentifier(tbl.Package) || tbl.Package == "_" {
			return fmt.Errorf("table '%s': package '%s' is not a valid Go package name", tbl.Name, tbl.Package)
		}
		if !validEncodings[tbl.Encoding] {
			return fmt.Errorf("table '%s': encoding '%s' is not supported (allowed: %s)", tbl.Name, tbl.Encoding, allowedList(validEncodings))
		}

		// Outputs in one directory form one Go package, so names must
		// be unique and the package must agree across them.
		dir := filepath.Dir(filepath.Clean(tbl.Output))
		key := dir + "\x00" + tbl.Name
		if seenNames[key] {
			return fmt.Errorf("duplicate table name '%s' in directory %s", tbl.Name, dir)
		}
		seenNames[key] = true

		if pkg, ok := seenPackages[dir]; ok && pkg != tbl.Package {
			return fmt.Errorf("output %s is declared with packages '%s' and '%s'", tbl.Output, pkg, tbl.Package)
		}
		seenPackages[dir] = tbl.Package
	}

	if config.Logging.Level != "" {
		switch strings.ToLower(config.Logging.Level) {
		case "debug", "info", "warn", "error":
			// ok
		default:
			return fmt.Errorf("invalid logging level: %s (allowed: debug, info, warn, error)", config.Logging.Level)
		}
	}

	return nil
}

func isIdentifier(s string) bool {
	return token.IsIdentifier(s)
}

func allowedList(m map[string]bool) string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

// ApplyDefaults sets default values for configuration fields that are missing.
// Tables inherit the top-level package, encode as strings, and write next to
// the config file as <name>_embed.go when no output is given.
//
// Parameters:
//   - config: The Config object to modify.
func ApplyDefaults(config *Config) {
	if config.Package == "" {
		config.Package = "assets"
	}

	for i := range config.Tables {
		tbl := &config.Tables[i]
		if tbl.Package == "" {
			tbl.Package = config.Package
		}
		if tbl.Encoding == "" {
			tbl.Encoding = "string"
		}
		if tbl.Output == "" && tbl.Name != "" {
			tbl.Output = strings.ToLower(tbl.Name) + "_embed.go"
		}
		if tbl.NormalizeSeparators == nil {
			t := true
			tbl.NormalizeSeparators = &t
		}
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
}
