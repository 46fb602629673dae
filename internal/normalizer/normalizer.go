package normalizer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
)

// Normalize rewrites cue text batch by batch and returns a new track with
// the same timing. Batches whose rewrite comes back short keep their
// original lines.
func (n *implNormalizer) Normalize(ctx context.Context, track caption.Track, language string) (caption.Track, error) {
	if len(track) == 0 {
		return track, nil
	}

	texts := make([]string, len(track))
	for i, c := range track {
		texts[i] = c.Text
	}
	rewritten := make([]string, len(track))

	batches := (len(texts) + n.opts.BatchSize - 1) / n.opts.BatchSize
	n.logger.Info(ctx, "Normalizing %d cues in %d batches (max concurrent: %d)", len(texts), batches, n.opts.MaxConcurrent)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n.opts.MaxConcurrent)

	for b := 0; b < batches; b++ {
		lo := b * n.opts.BatchSize
		hi := min(lo+n.opts.BatchSize, len(texts))

		g.Go(func() error {
			out, err := n.rewriteBatch(gctx, b+1, texts[lo:hi], language)
			if err != nil {
				return fmt.Errorf("batch %d/%d: %w", b+1, batches, err)
			}
			if len(out) != hi-lo {
				n.logger.Warn(gctx, "Batch %d/%d returned %d lines for %d cues, keeping original text", b+1, batches, len(out), hi-lo)
				return nil
			}
			copy(rewritten[lo:hi], out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return track.WithText(rewritten), nil
}

// rewriteBatch calls the rewriter under the rate limit, retrying with
// exponential backoff.
func (n *implNormalizer) rewriteBatch(ctx context.Context, batch int, lines []string, language string) ([]string, error) {
	var lastErr error

	for attempt := 0; attempt < n.opts.MaxRetries; attempt++ {
		if err := n.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		out, err := n.rewriter.Rewrite(ctx, lines, language)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt < n.opts.MaxRetries-1 {
			backoff := n.backoffBase << uint(attempt) // 1s, 2s, 4s...
			n.logger.Warn(ctx, "Batch %d failed (attempt %d), retrying in %s: %v", batch, attempt+1, backoff, err)

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", n.opts.MaxRetries, lastErr)
}
