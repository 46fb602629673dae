package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/lesson-captions/internal/processor"
	"github.com/nguyentantai21042004/lesson-captions/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process lessons dropped into the input folder until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup(false)
	if err != nil {
		return err
	}
	cfg, log := a.cfg, a.log

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Lesson Caption Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Segmentation: %s, formats: %v", cfg.Segmentation.Mode, cfg.Output.Formats)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		return err
	}

	// Lessons dropped while the pipeline was down
	backlog, err := pendingSources(cfg.Paths.Input)
	if err != nil {
		return err
	}
	if len(backlog) > 0 {
		log.Info(ctx, "Processing %d waiting lessons", len(backlog))
		if err := a.proc.ProcessAll(ctx, backlog); err != nil {
			log.Warn(ctx, "Some waiting lessons failed: %v", err)
		}
	}

	w, err := watcher.New(cfg.Paths.Input, a.proc.Process, processor.IsSupported, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		return err
	}
	defer w.Stop()

	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")

	err = w.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error(ctx, "Watcher error: %v", err)
		return err
	}

	log.Info(context.Background(), "Pipeline stopped")
	return nil
}

func pendingSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && processor.IsSupported(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
