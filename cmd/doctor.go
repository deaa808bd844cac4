package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/xll-gen/embed-gen/internal/config"
	"github.com/xll-gen/embed-gen/internal/table"
	"github.com/xll-gen/embed-gen/internal/ui"
)

// doctorCmd represents the doctor command.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that every configured table can be built",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !runDoctor(cfg, afero.NewOsFs()) {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runDoctor walks every table and reports how many files it would embed
// and which entries would be skipped. Skipped entries are otherwise silent,
// and an empty table looks the same as one whose subtree was unreadable.
//
// Returns:
//   - bool: false if any table root cannot be listed.
func runDoctor(cfg *config.Config, fsys afero.Fs) bool {
	ok := true
	for _, tc := range cfg.Tables {
		ui.PrintHeader(fmt.Sprintf("Table %s:", tc.Name))
		root := cfg.Resolve(tc.Dir)

		var skipped []string
		tbl, err := table.Build(fsys, root, table.Options{
			NormalizeSeparators: tc.Normalize(),
			OnSkip: func(path string, err error) {
				skipped = append(skipped, fmt.Sprintf("%s (%v)", path, err))
			},
		})
		if err != nil {
			ui.PrintError("Root", err.Error())
			ok = false
			continue
		}

		var size int64
		for _, e := range tbl.Entries {
			size += e.Size
		}
		ui.PrintSuccess("Root", root)
		ui.PrintSuccess("Files", fmt.Sprintf("%d (%d bytes)", tbl.Len(), size))
		if tbl.Len() == 0 {
			ui.PrintWarning("Files", "table is empty")
		}
		for _, s := range skipped {
			ui.PrintWarning("Skipped", s)
		}

		outDir := filepath.Dir(cfg.Resolve(tc.Output))
		if info, err := fsys.Stat(outDir); err != nil || !info.IsDir() {
			ui.PrintWarning("Output", outDir+" does not exist yet; generate will create it")
		} else {
			ui.PrintSuccess("Output", cfg.Resolve(tc.Output))
		}
	}
	return ok
}
