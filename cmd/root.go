package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xll-gen/embed-gen/internal/config"
	"github.com/xll-gen/embed-gen/internal/ui"
	"github.com/xll-gen/embed-gen/pkg/log"
	"github.com/xll-gen/embed-gen/version"
)

var (
	configFile string
	logLevel   string
	logFile    string
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "embed-gen",
	Short: "Embed a directory tree into Go source as a lazily built lookup table",
	Long: `embed-gen walks a directory and writes a Go file declaring a read-only
table that maps each file's path, relative to that directory, to its content.
The table is built on first access and shared for the life of the process.

Typical use is from go:generate:

  //go:generate embed-gen generate --name Assets --dir static`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.DisableColor()
		}
		return log.Init(logFile, logLevel)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	log.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init initializes the root command and its flags.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFile, "Path to the embed-gen configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
}

// loadConfig reads the configuration file and re-initialises logging from
// its logging section unless --log-level or --log-file were given.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	level := logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	path := logFile
	if path == "" && cfg.Logging.Path != "" {
		path = cfg.Resolve(cfg.Logging.Path)
	}
	if err := log.Init(path, level); err != nil {
		return nil, fmt.Errorf("failed to initialise logging: %w", err)
	}
	return cfg, nil
}
