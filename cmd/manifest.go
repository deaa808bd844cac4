package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xll-gen/embed-gen/internal/generator"
)

var (
	manifestFormat string
	manifestOut    string
)

// manifestCmd represents the manifest command.
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "List the files each table embeds, with their keys and absolute paths",
	Long: `Prints, as JSON, every file the configured tables would embed: the key it is
stored under and the absolute path its content is read from. File content is
not read.

--format embedcfg emits the structure accepted by 'go tool compile -embedcfg'.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runManifest(manifestFormat, manifestOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	manifestCmd.Flags().StringVar(&manifestFormat, "format", "json", "Output format: json or embedcfg")
	manifestCmd.Flags().StringVarP(&manifestOut, "out", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(manifestCmd)
}

// runManifest loads the configuration, walks every table and writes the
// manifest in the requested format.
func runManifest(format, out string) error {
	if format != "json" && format != "embedcfg" {
		return fmt.Errorf("invalid format: %s (allowed: json, embedcfg)", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := generator.BuildManifest(cfg, generator.Options{})
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if format == "embedcfg" {
		return generator.WriteJSON(w, m.EmbedCfg())
	}
	return generator.WriteJSON(w, m)
}
