package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/lesson-captions/internal/logger"
)

// settleDelay gives writers time to finish before a new file is handled.
const settleDelay = 500 * time.Millisecond

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, accept Filter, log logger.Logger, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	if accept == nil {
		accept = func(string) bool { return true }
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		accept:        accept,
		logger:        logger.Named(log, "watcher"),
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        settleDelay,
	}, nil
}
