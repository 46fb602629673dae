package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
)

// Result holds the generated lesson documents.
type Result struct {
	Markdown   []byte // summary.md
	SummaryDoc []byte // summary.docx
	Transcript []byte // transcript.docx
}

// Summarizer turns a lesson's caption track into a short written summary.
type Summarizer interface {
	Summarize(ctx context.Context, lessonID string, track caption.Track) (*Result, error)
}
