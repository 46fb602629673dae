package processor

import "context"

// Processor turns a lesson source (a recognizer response or a media file)
// into stored subtitle documents.
type Processor interface {
	// Process runs one lesson through the pipeline. The lesson id is the
	// file name without its extension.
	Process(ctx context.Context, path string) error
	// ProcessAll runs many lessons, at most performance.max_concurrent at a
	// time, and returns the joined failures.
	ProcessAll(ctx context.Context, paths []string) error
	// Summarize regenerates the summary documents of a completed lesson
	// from its stored WebVTT track.
	Summarize(ctx context.Context, lessonID string) error
}
