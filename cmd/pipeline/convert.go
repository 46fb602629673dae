package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/lesson-captions/internal/processor"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Convert recognizer output or media files to subtitles once",
	Long: `Convert runs each file through the pipeline and exits. JSON files are read as
recognizer responses; audio and video go through ffmpeg and whisper.cpp.
Processed files are moved to paths.archived.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return fmt.Errorf("file not found: %s", arg)
		}
		if !processor.IsSupported(abs) {
			return fmt.Errorf("unsupported file type: %s", filepath.Ext(abs))
		}
		paths = append(paths, abs)
	}

	a, err := setup(false)
	if err != nil {
		return err
	}
	if err := ensureDirectories(a.cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.proc.ProcessAll(ctx, paths); err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: done\n", processor.LessonID(p))
	}
	return nil
}
