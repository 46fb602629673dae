package summarizer

import (
	"time"

	"github.com/nguyentantai21042004/lesson-captions/internal/logger"
	"github.com/nguyentantai21042004/lesson-captions/pkg/gemini"
)

type implSummarizer struct {
	gen     gemini.Generator
	logger  logger.Logger
	tempDir string
	now     func() time.Time
}

// New creates a Summarizer that asks gen for summaries. Documents are
// assembled in tempDir.
func New(gen gemini.Generator, tempDir string, log logger.Logger) Summarizer {
	return &implSummarizer{
		gen:     gen,
		logger:  logger.Named(log, "summarizer"),
		tempDir: tempDir,
		now:     time.Now,
	}
}
