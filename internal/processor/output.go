package processor

import (
	"context"
	"fmt"
	"path"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
	"github.com/nguyentantai21042004/lesson-captions/internal/storage"
)

const (
	contentTypeMarkdown = "text/markdown"
	contentTypeDocx     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// saveSubtitles renders every configured format and stores it under
// <lesson>/subtitles/<language>.<ext>.
func (p *implProcessor) saveSubtitles(ctx context.Context, lessonID, language, model string, track caption.Track) ([]string, error) {
	var paths []string
	for _, format := range p.cfg.Output.Formats {
		body, err := caption.Render(format, track)
		if err != nil {
			return nil, err
		}

		objPath := storage.SubtitlePath(lessonID, language, format)
		if err := p.sink.Save(ctx, storage.Object{
			Path:        objPath,
			Body:        []byte(body),
			ContentType: caption.ContentType(format),
			Language:    language,
			Model:       model,
		}); err != nil {
			return nil, fmt.Errorf("save %s: %w", format, err)
		}

		p.logger.Debug(ctx, "Saved %s", objPath)
		paths = append(paths, objPath)
	}
	return paths, nil
}

// saveSummary stores summary.md, summary.docx and transcript.docx next to
// the lesson's subtitles.
func (p *implProcessor) saveSummary(ctx context.Context, lessonID, language string, track caption.Track) error {
	res, err := p.summarizer.Summarize(ctx, lessonID, track)
	if err != nil {
		return err
	}

	objects := []storage.Object{
		{Path: path.Join(lessonID, "summary.md"), Body: res.Markdown, ContentType: contentTypeMarkdown},
		{Path: path.Join(lessonID, "summary.docx"), Body: res.SummaryDoc, ContentType: contentTypeDocx},
		{Path: path.Join(lessonID, "transcript.docx"), Body: res.Transcript, ContentType: contentTypeDocx},
	}
	for _, obj := range objects {
		obj.Language = language
		if err := p.sink.Save(ctx, obj); err != nil {
			return fmt.Errorf("save %s: %w", obj.Path, err)
		}
	}

	p.logger.Info(ctx, "Summary saved for lesson %s", lessonID)
	return nil
}
