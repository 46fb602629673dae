package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/lesson-captions/internal/caption"
)

// ErrEmptyTranscript is returned for tracks without any text to summarize.
var ErrEmptyTranscript = errors.New("transcript is empty")

const summaryPrompt = `You are an assistant that writes study notes for video lessons.
Using the lesson transcript below, write a SHORT summary in the language of the transcript.

Requirements:
- Start with a one-sentence overview of the lesson topic
- List the key points in the order they are taught, as bullet points
- Bold the important terms
- End with a "Key takeaway" line
- Use markdown; do not exceed 250 words

Transcript:
---
%s
---`

// Summarize calls the generator with the transcript text and builds the
// markdown and docx documents.
func (s *implSummarizer) Summarize(ctx context.Context, lessonID string, track caption.Track) (*Result, error) {
	transcript := strings.TrimSpace(track.Text())
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}

	s.logger.Info(ctx, "Summarizing lesson %s (%d cues)", lessonID, len(track))

	summary, err := s.gen.Generate(ctx, fmt.Sprintf(summaryPrompt, transcript))
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, fmt.Errorf("generate summary: empty response")
	}

	title := "Lesson " + lessonID
	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		title,
		s.now().Format("2006-01-02 15:04"),
		summary,
	)

	if err := os.MkdirAll(s.tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	workDir, err := os.MkdirTemp(s.tempDir, "summary-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	summaryPath := filepath.Join(workDir, "summary.docx")
	if err := markdownToDocx(title, summary, summaryPath); err != nil {
		return nil, fmt.Errorf("write summary docx: %w", err)
	}
	transcriptPath := filepath.Join(workDir, "transcript.docx")
	if err := cuesToDocx(title+" transcript", track, transcriptPath); err != nil {
		return nil, fmt.Errorf("write transcript docx: %w", err)
	}

	res := &Result{Markdown: []byte(md)}
	if res.SummaryDoc, err = os.ReadFile(summaryPath); err != nil {
		return nil, fmt.Errorf("read summary docx: %w", err)
	}
	if res.Transcript, err = os.ReadFile(transcriptPath); err != nil {
		return nil, fmt.Errorf("read transcript docx: %w", err)
	}

	s.logger.Info(ctx, "[DONE] summary for lesson %s", lessonID)
	return res, nil
}
