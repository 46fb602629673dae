package normalizer

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/nguyentantai21042004/lesson-captions/internal/logger"
)

// Options bounds how hard the rewriter is driven.
type Options struct {
	BatchSize         int
	MaxConcurrent     int
	RequestsPerMinute int
	MaxRetries        int
}

type implNormalizer struct {
	rewriter    Rewriter
	opts        Options
	limiter     *rate.Limiter
	logger      logger.Logger
	backoffBase time.Duration
}

// New creates a Normalizer driving rw in concurrent, rate-limited batches.
func New(rw Rewriter, opts Options, log logger.Logger) Normalizer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 30
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}

	return &implNormalizer{
		rewriter:    rw,
		opts:        opts,
		limiter:     rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1),
		logger:      logger.Named(log, "normalizer"),
		backoffBase: time.Second,
	}
}
