package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/lesson-captions/internal/config"
	"github.com/nguyentantai21042004/lesson-captions/internal/jobstatus"
	"github.com/nguyentantai21042004/lesson-captions/internal/logger"
	"github.com/nguyentantai21042004/lesson-captions/internal/normalizer"
	"github.com/nguyentantai21042004/lesson-captions/internal/processor"
	"github.com/nguyentantai21042004/lesson-captions/internal/storage"
	"github.com/nguyentantai21042004/lesson-captions/internal/summarizer"
	"github.com/nguyentantai21042004/lesson-captions/pkg/executor"
	"github.com/nguyentantai21042004/lesson-captions/pkg/gemini"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Turn lesson recordings and recognizer output into WebVTT subtitles",
	Long: `pipeline groups word-level speech recognition output (Google Speech-to-Text,
OpenAI Whisper, whisper.cpp) into subtitle cues, stores WebVTT/SubRip tracks per
lesson and optionally writes Gemini summaries.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
}

// app holds the wired components shared by the subcommands.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	tracker *jobstatus.Tracker
	proc    processor.Processor
}

// setup loads the config and wires every component. withSummaries builds
// the summarizer whenever API keys are present, even if gemini.summarize
// is off.
func setup(withSummaries bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logger.New(level)

	tracker := jobstatus.NewTracker(jobstatus.NewFileStore(cfg.Paths.Status))
	deps := processor.Dependencies{
		Executor: executor.New(),
		Sink:     storage.NewFileSink(cfg.Paths.Output),
		Tracker:  tracker,
		Logger:   log,
	}

	wantSummaries := cfg.Gemini.Summarize || (withSummaries && len(cfg.Gemini.APIKeys) > 0)
	if cfg.Gemini.NormalizeNumbers || wantSummaries {
		gen, err := gemini.New(cfg.Gemini.APIKeys, cfg.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		if cfg.Gemini.NormalizeNumbers {
			deps.Normalizer = normalizer.New(normalizer.NewGeminiRewriter(gen), normalizer.Options{
				BatchSize:         cfg.Gemini.BatchSize,
				MaxConcurrent:     cfg.Performance.MaxConcurrent,
				RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
				MaxRetries:        cfg.Gemini.MaxRetries,
			}, log)
		}
		if wantSummaries {
			deps.Summarizer = summarizer.New(gen, cfg.Paths.Temp, log)
		}
	}

	proc, err := processor.New(cfg, deps)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, tracker: tracker, proc: proc}, nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
		cfg.Paths.Status,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
