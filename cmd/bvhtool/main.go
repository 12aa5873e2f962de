package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gobvh/internal/config"
	"github.com/philipparndt/gobvh/internal/logger"
	"github.com/philipparndt/gobvh/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg *config.Config

	configPath string
	debug      bool
	logFile    string
	workers    int
)

var rootCmd = &cobra.Command{
	Use:   "bvhtool",
	Short: "Build and inspect bounding volume hierarchies over triangle meshes",
	Long: `bvhtool builds a bounding volume hierarchy over the triangles of an STL or
OpenSCAD model using median splits along the longest axis. The tree can be
printed, verified, exported as an OBJ line mesh for inspection, or written
as GPU-ready node and triangle records.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default ./bvhtool.yaml or the user config dir)")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	flags.IntVarP(&workers, "workers", "w", 0, "number of build workers (1 builds sequentially)")
}

// setup loads the configuration, applies flag overrides and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	loaded, path, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		loaded.Build.Workers = workers
	}
	if flags.Changed("log-file") {
		loaded.Logging.LogFile = logFile
	}
	if debug {
		loaded.Logging.Level = "debug"
	}

	if err := logger.Init(loaded.Logging.Level, loaded.Logging.LogFile); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	if path != "" {
		logger.Debug("using config file", zap.String("path", path))
	}

	cfg = loaded
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
