package normalizer

import (
	"context"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
)

// Rewriter rewrites a batch of caption lines. The result has one entry per
// input line; an empty entry keeps the original line.
type Rewriter interface {
	Rewrite(ctx context.Context, lines []string, language string) ([]string, error)
}

// Normalizer spells out numbers in cue text so captions read the way
// they are spoken.
type Normalizer interface {
	Normalize(ctx context.Context, track caption.Track, language string) (caption.Track, error)
}
