package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/xll-gen/embed-gen/internal/config"
	"github.com/xll-gen/embed-gen/internal/templates"
	"github.com/xll-gen/embed-gen/internal/ui"
)

// initOptions are the answers used to fill in the starter config.
type initOptions struct {
	Package string
	Name    string
	Dir     string
	Output  string
	Config  string
}

var initFlags initOptions

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a starter embed.yaml and a go:generate hook",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		if err := runInit(target, initFlags); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing project: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	f := initCmd.Flags()
	f.StringVar(&initFlags.Package, "pkg", "assets", "Package of the generated file")
	f.StringVar(&initFlags.Name, "name", "Assets", "Identifier of the generated table")
	f.StringVar(&initFlags.Dir, "dir", "static", "Directory to embed, relative to the config file")
	f.StringVarP(&initFlags.Output, "out", "o", "", "Generated file (default <name>_embed.go)")
	rootCmd.AddCommand(initCmd)
}

// runInit scaffolds embed-gen files in the target directory.
// It writes embed.yaml and generate.go and creates the embedded directory.
//
// Parameters:
//   - target: The directory to initialise; created if missing.
//   - opts: Values substituted into the templates.
//
// Returns:
//   - error: An error if embed.yaml already exists or file creation fails.
func runInit(target string, opts initOptions) error {
	if opts.Output == "" {
		tmp := &config.Config{Tables: []config.Table{{Name: opts.Name}}}
		config.ApplyDefaults(tmp)
		opts.Output = tmp.Tables[0].Output
	}
	opts.Config = config.DefaultFile

	// Validate the answers the same way a loaded config would be.
	check := &config.Config{
		Package: opts.Package,
		Tables:  []config.Table{{Name: opts.Name, Dir: opts.Dir, Output: opts.Output}},
	}
	config.ApplyDefaults(check)
	if err := config.Validate(check); err != nil {
		return err
	}

	cfgPath := filepath.Join(target, config.DefaultFile)
	if _, err := os.Stat(cfgPath); !os.IsNotExist(err) {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	if err := os.MkdirAll(filepath.Join(target, opts.Dir), 0755); err != nil {
		return err
	}

	// 1. Create embed.yaml
	if err := generateFileFromTemplate("embed.yaml.tmpl", cfgPath, opts); err != nil {
		return err
	}
	ui.PrintSuccess("Created", cfgPath)

	// 2. Create generate.go unless the package already has one
	genPath := filepath.Join(target, "generate.go")
	if _, err := os.Stat(genPath); os.IsNotExist(err) {
		if err := generateFileFromTemplate("generate.go.tmpl", genPath, opts); err != nil {
			return err
		}
		ui.PrintSuccess("Created", genPath)
	} else {
		ui.PrintWarning("Skipped", genPath+" already exists")
	}

	fmt.Fprintln(ui.Out, "Next steps:")
	fmt.Fprintf(ui.Out, "  put files under %s\n", filepath.Join(target, opts.Dir))
	fmt.Fprintln(ui.Out, "  go generate ./...")

	return nil
}

// generateFileFromTemplate creates a file at destPath using the specified template and data.
//
// Parameters:
//   - tmplName: The name of the template file to use.
//   - destPath: The path where the generated file should be written.
//   - data: The data object to pass to the template.
//
// Returns:
//   - error: An error if the template cannot be read or executed.
func generateFileFromTemplate(tmplName, destPath string, data interface{}) error {
	content, err := templates.Get(tmplName)
	if err != nil {
		return err
	}
	t, err := template.New(tmplName).Parse(content)
	if err != nil {
		return err
	}
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}
