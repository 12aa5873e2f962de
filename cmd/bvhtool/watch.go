package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/philipparndt/gobvh/internal/logger"
	"github.com/philipparndt/gobvh/pkg/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Rebuild and re-export whenever the source changes",
	Long: `Watch an STL file, or an OpenSCAD file together with everything it uses or
includes, and rebuild the hierarchy after each change. Exports configured in
the config file or given with --obj and --gpu are rewritten on every rebuild.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&objPath, "obj", "", "write node boxes as an OBJ line mesh")
	watchCmd.Flags().StringVar(&gpuPath, "gpu", "", "write GPU node and triangle records")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	source := args[0]

	opts := cfg.Export
	if cmd.Flags().Changed("obj") {
		opts.OBJPath = objPath
	}
	if cmd.Flags().Changed("gpu") {
		opts.GPUPath = gpuPath
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger.Named("watcher"))
	if err != nil {
		return err
	}
	defer fw.Close()

	// Rebuilds are serialized; a change arriving mid-build waits for it.
	var mu sync.Mutex
	rebuild := func() []string {
		mu.Lock()
		defer mu.Unlock()

		src, tree, err := loadTree(ctx, source)
		if err != nil {
			logger.Error("rebuild failed", zap.Error(err))
			return nil
		}
		if err := tree.Validate(); err != nil {
			logger.Error("invalid hierarchy", zap.Error(err))
			return src.Files
		}
		if err := exportTree(tree, opts.OBJPath, opts.GPUPath); err != nil {
			logger.Error("export failed", zap.Error(err))
		}
		if stats, err := tree.Stats(); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %s: %d triangles, %d nodes, depth %d\n",
				source, stats.Primitives, stats.Nodes, stats.MaxDepth)
		}
		return src.Files
	}

	files := rebuild()
	if len(files) == 0 {
		files = []string{source}
	}

	var onChange func(string)
	onChange = func(changed string) {
		logger.Info("source changed", zap.String("path", changed))
		updated := rebuild()
		if len(updated) == 0 {
			return
		}
		// OpenSCAD sources may gain or drop use/include targets, and editors
		// that replace files drop their watch
		if err := fw.RemoveAll(); err != nil {
			logger.Warn("clearing watch list failed", zap.Error(err))
		}
		if err := fw.Watch(updated, onChange); err != nil {
			logger.Warn("updating watch list failed", zap.Error(err))
		}
	}

	if err := fw.Watch(files, onChange); err != nil {
		return err
	}
	fw.Start(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d file(s) for changes, press Ctrl+C to stop\n", len(files))
	<-ctx.Done()
	return nil
}
