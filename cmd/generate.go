package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xll-gen/embed-gen/internal/config"
	"github.com/xll-gen/embed-gen/internal/generator"
	"github.com/xll-gen/embed-gen/internal/ui"
)

// generateFlags holds the single-table flags used instead of a config file.
type generateFlags struct {
	Name             string
	Dir              string
	Output           string
	Package          string
	Encoding         string
	NativeSeparators bool
	DryRun           bool
	Stdout           bool
}

var genFlags generateFlags

// generateCmd represents the generate command.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Go source embedding the configured directories",
	Long: `Walks every table's directory and writes a Go file declaring the table.

With --name and --dir a single table is generated without reading a config file,
which mirrors a go:generate line such as:

  //go:generate embed-gen generate --name Assets --dir static`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGenerate(genFlags); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genFlags.Name, "name", "", "Identifier of the generated table (single-table mode)")
	f.StringVar(&genFlags.Dir, "dir", "", "Root directory to embed (single-table mode)")
	f.StringVarP(&genFlags.Output, "out", "o", "", "Output file (default <name>_embed.go)")
	f.StringVar(&genFlags.Package, "pkg", "", "Package of the generated file (default $GOPACKAGE, then assets)")
	f.StringVar(&genFlags.Encoding, "encoding", "", "Byte encoding: string or bytes (default string)")
	f.BoolVar(&genFlags.NativeSeparators, "native-separators", false, "Key files with the host path separator instead of '/'")
	f.BoolVar(&genFlags.DryRun, "dry-run", false, "Render without writing any file")
	f.BoolVar(&genFlags.Stdout, "stdout", false, "Print generated source to stdout instead of writing it")
	rootCmd.AddCommand(generateCmd)
}

// runGenerate builds the configuration (from flags or the config file) and
// executes the code generation process.
//
// Returns:
//   - error: An error if generation fails at any step.
func runGenerate(flags generateFlags) error {
	cfg, err := generateConfig(flags)
	if err != nil {
		return err
	}

	if flags.Stdout {
		ui.Out = os.Stderr
		defer func() { ui.Out = os.Stdout }()
	}

	opts := generator.Options{
		DryRun: flags.DryRun || flags.Stdout,
	}

	var results []generator.Result
	err = ui.RunSpinner("Embedding files...", func() error {
		var err error
		results, err = generator.Generate(cfg, opts)
		return err
	})
	if err != nil {
		return err
	}

	ui.PrintHeader("Generated:")
	for _, res := range results {
		if flags.Stdout {
			os.Stdout.Write(res.Source)
		}
		detail := fmt.Sprintf("%d file(s), %d bytes -> %s", res.Files, res.Bytes, res.Output)
		switch {
		case opts.DryRun:
			ui.PrintInfo("Rendered", detail)
		case res.Written:
			ui.PrintSuccess("Written", detail)
		default:
			ui.PrintInfo("Unchanged", detail)
		}
	}
	return nil
}

// generateConfig returns a single-table configuration when --name or --dir
// is set, and the loaded config file otherwise.
func generateConfig(flags generateFlags) (*config.Config, error) {
	if flags.Name == "" && flags.Dir == "" {
		return loadConfig()
	}
	if flags.Name == "" || flags.Dir == "" {
		return nil, fmt.Errorf("--name and --dir must be given together")
	}

	pkg := flags.Package
	if pkg == "" {
		// Set by `go generate`.
		pkg = os.Getenv("GOPACKAGE")
	}

	cfg := &config.Config{
		Package: pkg,
		BaseDir: ".",
		Tables: []config.Table{{
			Name:     flags.Name,
			Dir:      flags.Dir,
			Output:   filepath.ToSlash(flags.Output),
			Encoding: flags.Encoding,
		}},
	}
	if flags.NativeSeparators {
		off := false
		cfg.Tables[0].NormalizeSeparators = &off
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
