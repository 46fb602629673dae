package processor

import (
	"fmt"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
	"github.com/nguyentantai21042004/lesson-captions/internal/config"
	"github.com/nguyentantai21042004/lesson-captions/internal/jobstatus"
	"github.com/nguyentantai21042004/lesson-captions/internal/logger"
	"github.com/nguyentantai21042004/lesson-captions/internal/normalizer"
	"github.com/nguyentantai21042004/lesson-captions/internal/storage"
	"github.com/nguyentantai21042004/lesson-captions/internal/summarizer"
	"github.com/nguyentantai21042004/lesson-captions/pkg/executor"
)

// Dependencies are the collaborators of a Processor. Normalizer and
// Summarizer are optional.
type Dependencies struct {
	Executor   executor.Executor
	Sink       storage.Sink
	Tracker    *jobstatus.Tracker
	Normalizer normalizer.Normalizer
	Summarizer summarizer.Summarizer
	Logger     logger.Logger
}

type implProcessor struct {
	cfg        *config.Config
	policy     caption.Policy
	executor   executor.Executor
	sink       storage.Sink
	tracker    *jobstatus.Tracker
	normalizer normalizer.Normalizer
	summarizer summarizer.Summarizer
	logger     logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Dependencies) (Processor, error) {
	policy, err := cfg.Segmentation.Policy()
	if err != nil {
		return nil, fmt.Errorf("segmentation policy: %w", err)
	}
	if deps.Sink == nil || deps.Tracker == nil {
		return nil, fmt.Errorf("processor needs a sink and a status tracker")
	}
	if deps.Executor == nil {
		deps.Executor = executor.New()
	}

	return &implProcessor{
		cfg:        cfg,
		policy:     policy,
		executor:   deps.Executor,
		sink:       deps.Sink,
		tracker:    deps.Tracker,
		normalizer: deps.Normalizer,
		summarizer: deps.Summarizer,
		logger:     logger.Named(deps.Logger, "processor"),
	}, nil
}
